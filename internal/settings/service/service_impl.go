package service

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Nonie001/chns/internal/clock"
	"github.com/Nonie001/chns/internal/config"
	"github.com/Nonie001/chns/internal/settings/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.Config
	clock clock.Clock
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		cfg:   p.Cfg,
		clock: p.Clock,
	}
}

func (s *Service) Get(ctx context.Context) (*domain.EmailSettings, error) {
	var row domain.EmailSettings
	err := s.db.WithContext(ctx).First(&row, "id = ?", domain.SettingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	now := s.clock.Now().UTC()
	row := domain.EmailSettings{
		ID:                domain.SettingsRowID,
		SMTPHost:          strings.TrimSpace(req.SMTPHost),
		SMTPPort:          req.SMTPPort,
		SMTPUser:          strings.TrimSpace(req.SMTPUser),
		SMTPPassword:      req.SMTPPassword,
		SenderEmail:       strings.TrimSpace(req.SenderEmail),
		SenderName:        strings.TrimSpace(req.SenderName),
		SignerName:        strings.TrimSpace(req.SignerName),
		SignerTitle:       strings.TrimSpace(req.SignerTitle),
		SignatureImageURL: strings.TrimSpace(req.SignatureImageURL),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// Single-row upsert keyed by the well-known id.
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"smtp_host", "smtp_port", "smtp_user", "smtp_password",
			"sender_email", "sender_name",
			"signer_name", "signer_title", "signature_image_url",
			"updated_at",
		}),
	}).Create(&row).Error
}

func (s *Service) ResolveSMTP(ctx context.Context) domain.SMTPConfig {
	resolved := domain.SMTPConfig{
		Host:        s.cfg.SMTPHost,
		Port:        s.cfg.SMTPPort,
		User:        s.cfg.SMTPUser,
		Password:    s.cfg.SMTPPassword,
		SenderEmail: s.cfg.FromEmail,
		SenderName:  s.cfg.FromName,
	}

	row, err := s.Get(ctx)
	if err != nil {
		s.log.Warn("settings row unavailable, using environment fallbacks", zap.Error(err))
		return resolved
	}
	if row == nil {
		return resolved
	}

	if row.SMTPHost != "" {
		resolved.Host = row.SMTPHost
	}
	if row.SMTPPort > 0 {
		resolved.Port = row.SMTPPort
	}
	if row.SMTPUser != "" {
		resolved.User = row.SMTPUser
	}
	if row.SMTPPassword != "" {
		resolved.Password = row.SMTPPassword
	}
	if row.SenderEmail != "" {
		resolved.SenderEmail = row.SenderEmail
	}
	if row.SenderName != "" {
		resolved.SenderName = row.SenderName
	}
	return resolved
}

func (s *Service) Signer(ctx context.Context) (string, string, string) {
	row, err := s.Get(ctx)
	if err != nil || row == nil {
		return "", "", ""
	}
	return row.SignerName, row.SignerTitle, row.SignatureImageURL
}

func validate(req domain.UpdateRequest) error {
	if strings.TrimSpace(req.SMTPHost) == "" {
		return domain.ErrInvalidHost
	}
	if req.SMTPPort < 1 || req.SMTPPort > 65535 {
		return domain.ErrInvalidPort
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.SMTPUser)); err != nil {
		return domain.ErrInvalidUser
	}
	if req.SMTPPassword == "" {
		return domain.ErrInvalidPassword
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.SenderEmail)); err != nil {
		return domain.ErrInvalidSenderEmail
	}
	if strings.TrimSpace(req.SenderName) == "" {
		return domain.ErrInvalidSenderName
	}
	if raw := strings.TrimSpace(req.SignatureImageURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return domain.ErrInvalidSignatureURL
		}
	}
	return nil
}
