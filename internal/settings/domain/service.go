package domain

import (
	"context"
	"errors"
)

type UpdateRequest struct {
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_pass"`
	SenderEmail  string `json:"from_email"`
	SenderName   string `json:"from_name"`

	SignerName        string `json:"signer_name"`
	SignerTitle       string `json:"signer_title"`
	SignatureImageURL string `json:"signature_image_url"`
}

type Service interface {
	// Get returns the singleton settings row, or nil when never saved.
	Get(ctx context.Context) (*EmailSettings, error)
	Update(ctx context.Context, req UpdateRequest) error
	// ResolveSMTP merges the settings row with environment fallbacks,
	// field by field.
	ResolveSMTP(ctx context.Context) SMTPConfig
	// Signer returns signature metadata for receipt rendering; all fields
	// empty when unset.
	Signer(ctx context.Context) (name, title, imageURL string)
}

var (
	ErrInvalidHost         = errors.New("invalid_smtp_host")
	ErrInvalidPort         = errors.New("invalid_smtp_port")
	ErrInvalidUser         = errors.New("invalid_smtp_user")
	ErrInvalidPassword     = errors.New("invalid_smtp_password")
	ErrInvalidSenderEmail  = errors.New("invalid_sender_email")
	ErrInvalidSenderName   = errors.New("invalid_sender_name")
	ErrInvalidSignatureURL = errors.New("invalid_signature_url")
)
