package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditdomain "github.com/Nonie001/chns/internal/audit/domain"
	"github.com/Nonie001/chns/internal/observability/logger"
	settingsdomain "github.com/Nonie001/chns/internal/settings/domain"
	"github.com/Nonie001/chns/internal/storage"
)

const maxUploadBytes = 10 << 20

func (s *Server) GetEmailSettings(c *gin.Context) {
	row, err := s.settingsSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": row})
}

func (s *Server) UpdateEmailSettings(c *gin.Context) {
	var req settingsdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.settingsSvc.Update(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(c.Request.Context(), s.adminEmail(c),
			auditdomain.ActionSettingsUpdate, auditdomain.TargetTypeSettings, "",
			logger.MaskJSON(map[string]any{
				"smtp_host":     req.SMTPHost,
				"smtp_port":     req.SMTPPort,
				"smtp_user":     req.SMTPUser,
				"smtp_password": req.SMTPPassword,
				"from_email":    req.SenderEmail,
			}))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UploadSignature stores a signature image and returns its public URL.
func (s *Server) UploadSignature(c *gin.Context) {
	s.uploadImage(c, storage.SignatureKey)
}

// UploadSlip stores a proof-of-payment image for the public form.
func (s *Server) UploadSlip(c *gin.Context) {
	if !s.submitLimiter.Allow(c.ClientIP()) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}
	s.uploadImage(c, storage.SlipKey)
}

func (s *Server) uploadImage(c *gin.Context, keyFn func(id, ext string) string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "required", "file is required"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		AbortWithError(c, newValidationError("file", "too_large", "file exceeds the upload limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
	if ext == "" {
		ext = "png"
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := keyFn(uuid.NewString(), ext)
	if err := s.store.Put(c.Request.Context(), key, data, contentType); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": s.store.PublicURL(key)})
}
