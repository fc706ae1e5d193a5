package domain

import (
	"context"
	"errors"
	"time"
)

type CreateRequest struct {
	Title     string  `json:"title"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	BirthDate string  `json:"birth_date"`
	Amount    float64 `json:"amount"`
	SlipURL   string  `json:"slip_url"`
}

// PreviewRequest carries a donation-shaped payload, not necessarily a stored
// record. Unsaved admin form state previews through the same rendering path
// the approval pipeline uses.
type PreviewRequest struct {
	Donation Donation `json:"donation"`
}

// ApproveResult reports the outcome of a successful approval. EmailSent is
// informational only: a failed send never fails the approval.
type ApproveResult struct {
	PDFURL    string `json:"pdfUrl"`
	EmailSent bool   `json:"emailSent"`
}

type ListRequest struct {
	Status Status `form:"status"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Donation, error)
	List(ctx context.Context, req ListRequest) ([]Donation, error)
	GetByID(ctx context.Context, id string) (*Donation, error)
	Approve(ctx context.Context, id string) (*ApproveResult, error)
	Reject(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Preview(ctx context.Context, req PreviewRequest) ([]byte, error)
}

// ParseBirthDate accepts the wire format the public form submits.
func ParseBirthDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

var (
	ErrNotFound         = errors.New("donation_not_found")
	ErrAlreadyApproved  = errors.New("donation_already_approved")
	ErrNotPending       = errors.New("donation_not_pending")
	ErrInvalidTitle     = errors.New("invalid_title")
	ErrInvalidFirstName = errors.New("invalid_first_name")
	ErrInvalidLastName  = errors.New("invalid_last_name")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrInvalidPhone     = errors.New("invalid_phone")
	ErrInvalidBirthDate = errors.New("invalid_birth_date")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrStorageFailed    = errors.New("storage_failed")
)
