package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	donationdomain "github.com/Nonie001/chns/internal/donation/domain"
	"github.com/Nonie001/chns/internal/receipt"
	settingsdomain "github.com/Nonie001/chns/internal/settings/domain"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not_found")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

// apiError carries the HTTP mapping for a failure. Bodies follow the
// `{error, details}` shape, with field-level entries for validation errors.
type apiError struct {
	status  int
	code    string
	message string
	fields  []fieldError
}

type fieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string { return e.code }

func invalidRequestError() error {
	return &apiError{
		status:  http.StatusBadRequest,
		code:    "invalid_request",
		message: "invalid request body",
	}
}

func newValidationError(field, code, message string) error {
	return &apiError{
		status:  http.StatusBadRequest,
		code:    "validation_failed",
		message: message,
		fields:  []fieldError{{Field: field, Code: code, Message: message}},
	}
}

// AbortWithError maps domain errors onto the response taxonomy: validation
// and conflict problems are client errors, missing records are 404, and
// everything unrecognized is a dependency failure carrying its cause.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		body := gin.H{"error": api.code, "details": api.message}
		if len(api.fields) > 0 {
			body["fields"] = api.fields
		}
		c.AbortWithStatusJSON(api.status, body)
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrNotFound), errors.Is(err, donationdomain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, ErrTooManyRequests):
		status, code = http.StatusTooManyRequests, "too_many_requests"
	case errors.Is(err, donationdomain.ErrAlreadyApproved):
		status, code = http.StatusBadRequest, "already_approved"
	case errors.Is(err, donationdomain.ErrNotPending):
		status, code = http.StatusBadRequest, "not_pending"
	case isDonationValidationError(err), isSettingsValidationError(err):
		status, code = http.StatusBadRequest, "validation_failed"
	case errors.Is(err, receipt.ErrRenderFailed):
		code = "render_failed"
	case errors.Is(err, donationdomain.ErrStorageFailed):
		code = "storage_failed"
	case errors.Is(err, ErrServiceUnavailable):
		status, code = http.StatusServiceUnavailable, "service_unavailable"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": code, "details": err.Error()})
}

func isDonationValidationError(err error) bool {
	switch {
	case errors.Is(err, donationdomain.ErrInvalidTitle),
		errors.Is(err, donationdomain.ErrInvalidFirstName),
		errors.Is(err, donationdomain.ErrInvalidLastName),
		errors.Is(err, donationdomain.ErrInvalidEmail),
		errors.Is(err, donationdomain.ErrInvalidPhone),
		errors.Is(err, donationdomain.ErrInvalidBirthDate),
		errors.Is(err, donationdomain.ErrInvalidAmount):
		return true
	default:
		return false
	}
}

func isSettingsValidationError(err error) bool {
	switch {
	case errors.Is(err, settingsdomain.ErrInvalidHost),
		errors.Is(err, settingsdomain.ErrInvalidPort),
		errors.Is(err, settingsdomain.ErrInvalidUser),
		errors.Is(err, settingsdomain.ErrInvalidPassword),
		errors.Is(err, settingsdomain.ErrInvalidSenderEmail),
		errors.Is(err, settingsdomain.ErrInvalidSenderName),
		errors.Is(err, settingsdomain.ErrInvalidSignatureURL):
		return true
	default:
		return false
	}
}
