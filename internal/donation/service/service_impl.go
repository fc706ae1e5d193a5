package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Nonie001/chns/internal/clock"
	"github.com/Nonie001/chns/internal/donation/domain"
	"github.com/Nonie001/chns/internal/mailer"
	"github.com/Nonie001/chns/internal/receipt"
	"github.com/Nonie001/chns/internal/receipt/render"
	"github.com/Nonie001/chns/internal/storage"
)

// receiptGenerator is the slice of receipt.Generator the pipeline needs.
type receiptGenerator interface {
	Generate(ctx context.Context, donation render.DonationView) ([]byte, error)
}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	Generator *receipt.Generator
	Store     storage.ObjectStore
	Mailer    mailer.Dispatcher
	Clock     clock.Clock
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	generator receiptGenerator
	store     storage.ObjectStore
	mailer    mailer.Dispatcher
	clock     clock.Clock
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("donation.service"),
		repo:      p.Repo,
		generator: p.Generator,
		store:     p.Store,
		mailer:    p.Mailer,
		clock:     p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Donation, error) {
	birthDate, err := validateCreate(req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	donation := &domain.Donation{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(req.Title),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		BirthDate: birthDate,
		Amount:    req.Amount,
		SlipURL:   strings.TrimSpace(req.SlipURL),
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, donation); err != nil {
		return nil, err
	}

	s.log.Info("donation submitted",
		zap.String("donation_id", donation.ID),
		zap.Float64("amount", donation.Amount),
	)
	return donation, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Donation, error) {
	return s.repo.List(ctx, s.db, req)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	donation, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, domain.ErrNotFound
	}
	return donation, nil
}

// Approve runs the issuance pipeline: render the receipt, store it, flip the
// record to approved, then notify the donor. Every failure before the status
// update aborts with the record untouched; the upload key is deterministic,
// so a retry after a transient failure overwrites rather than accumulates.
// Email failure is swallowed and reported through ApproveResult.EmailSent.
func (s *Service) Approve(ctx context.Context, id string) (*domain.ApproveResult, error) {
	donation, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, domain.ErrNotFound
	}

	switch donation.Status {
	case domain.StatusApproved:
		return nil, domain.ErrAlreadyApproved
	case domain.StatusPending:
	default:
		return nil, domain.ErrNotPending
	}

	pdf, err := s.generator.Generate(ctx, donationView(*donation))
	if err != nil {
		return nil, err
	}

	key := storage.ReceiptKey(donation.ID)
	if err := s.store.Put(ctx, key, pdf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailed, err)
	}
	pdfURL := s.store.PublicURL(key)

	// Conditional on the row still being pending: this is the single-writer
	// lock against concurrent approvals and against rejected rows slipping
	// back in.
	ok, err := s.repo.MarkApproved(ctx, s.db, donation.ID, pdfURL, s.clock.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotPending
	}

	emailSent := s.mailer.SendReceipt(ctx, donation.Email, donation.FullName(), pdf, donation.ReceiptNo())
	if !emailSent {
		s.log.Warn("donation approved but receipt email not sent",
			zap.String("donation_id", donation.ID),
		)
	}

	s.log.Info("donation approved",
		zap.String("donation_id", donation.ID),
		zap.String("pdf_url", pdfURL),
		zap.Bool("email_sent", emailSent),
	)
	return &domain.ApproveResult{PDFURL: pdfURL, EmailSent: emailSent}, nil
}

func (s *Service) Reject(ctx context.Context, id string) error {
	donation, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if donation == nil {
		return domain.ErrNotFound
	}
	if donation.Status == domain.StatusApproved {
		return domain.ErrNotPending
	}

	ok, err := s.repo.MarkRejected(ctx, s.db, id, s.clock.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotPending
	}

	s.log.Info("donation rejected", zap.String("donation_id", id))
	return nil
}

// Delete removes only the record. Slip and receipt objects stay in storage;
// the leak is accepted (see DESIGN.md).
func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}

	s.log.Info("donation deleted", zap.String("donation_id", id))
	return nil
}

// Preview renders a donation-shaped payload through the exact pipeline path
// without touching storage, the record, or email.
func (s *Service) Preview(ctx context.Context, req domain.PreviewRequest) ([]byte, error) {
	if req.Donation.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	return s.generator.Generate(ctx, donationView(req.Donation))
}

func donationView(d domain.Donation) render.DonationView {
	return render.DonationView{
		ReceiptNo: d.ReceiptNo(),
		FullName:  d.FullName(),
		Email:     d.Email,
		Phone:     d.Phone,
		BirthDate: d.BirthDate,
		Amount:    d.Amount,
		CreatedAt: d.CreatedAt,
	}
}

func validateCreate(req domain.CreateRequest) (time.Time, error) {
	if strings.TrimSpace(req.Title) == "" {
		return time.Time{}, domain.ErrInvalidTitle
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return time.Time{}, domain.ErrInvalidFirstName
	}
	if strings.TrimSpace(req.LastName) == "" {
		return time.Time{}, domain.ErrInvalidLastName
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return time.Time{}, domain.ErrInvalidEmail
	}
	if len(strings.TrimSpace(req.Phone)) < 10 {
		return time.Time{}, domain.ErrInvalidPhone
	}
	birthDate, err := domain.ParseBirthDate(strings.TrimSpace(req.BirthDate))
	if err != nil {
		return time.Time{}, domain.ErrInvalidBirthDate
	}
	if req.Amount <= 0 {
		return time.Time{}, domain.ErrInvalidAmount
	}
	return birthDate, nil
}
