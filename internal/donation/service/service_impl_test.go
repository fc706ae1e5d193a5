package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Nonie001/chns/internal/clock"
	"github.com/Nonie001/chns/internal/donation/domain"
	"github.com/Nonie001/chns/internal/donation/repository"
	"github.com/Nonie001/chns/internal/receipt"
	"github.com/Nonie001/chns/internal/receipt/render"
)

type fakeGenerator struct {
	pdf   []byte
	err   error
	calls int
	// hook runs mid-pipeline, after the fetch and before the upload and
	// status update.
	hook func()
}

func (g *fakeGenerator) Generate(ctx context.Context, donation render.DonationView) ([]byte, error) {
	g.calls++
	if g.hook != nil {
		g.hook()
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.pdf, nil
}

type fakeStore struct {
	putErr  error
	puts    map[string][]byte
	deletes []string
}

func (s *fakeStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	if s.puts == nil {
		s.puts = map[string][]byte{}
	}
	s.puts[key] = body
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *fakeStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type fakeMailer struct {
	result bool
	calls  int
	lastTo string
}

func (m *fakeMailer) SendReceipt(ctx context.Context, toEmail, toName string, pdf []byte, receiptNo string) bool {
	m.calls++
	m.lastTo = toEmail
	return m.result
}

func setupDonationTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Donation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB, gen *fakeGenerator, store *fakeStore, mailer *fakeMailer) *Service {
	t.Helper()
	return &Service{
		db:        db,
		log:       zap.NewNop(),
		repo:      repository.Provide(),
		generator: gen,
		store:     store,
		mailer:    mailer,
		clock:     clock.Fixed{At: time.Date(2025, time.February, 14, 12, 0, 0, 0, time.UTC)},
	}
}

func insertDonation(t *testing.T, db *gorm.DB, id string, status domain.Status) *domain.Donation {
	t.Helper()
	donation := &domain.Donation{
		ID:        id,
		Title:     "นาย",
		FirstName: "สมชาย",
		LastName:  "ใจดี",
		Email:     "somchai@example.com",
		Phone:     "0812345678",
		BirthDate: time.Date(1990, time.May, 20, 0, 0, 0, 0, time.UTC),
		Amount:    1500,
		Status:    status,
		CreatedAt: time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("insert donation: %v", err)
	}
	return donation
}

func TestApproveIssuesReceipt(t *testing.T) {
	db := setupDonationTestDB(t)
	gen := &fakeGenerator{pdf: []byte("%PDF-1.4 fake")}
	store := &fakeStore{}
	mailer := &fakeMailer{result: true}
	svc := newTestService(t, db, gen, store, mailer)

	insertDonation(t, db, "aabbccdd-0000-0000-0000-000000000001", domain.StatusPending)

	res, err := svc.Approve(context.Background(), "aabbccdd-0000-0000-0000-000000000001")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !res.EmailSent {
		t.Error("expected EmailSent true")
	}
	wantKey := "receipts/receipt-aabbccdd-0000-0000-0000-000000000001.pdf"
	if res.PDFURL != "https://cdn.test/"+wantKey {
		t.Errorf("pdf url = %q", res.PDFURL)
	}
	if _, ok := store.puts[wantKey]; !ok {
		t.Errorf("pdf not uploaded under %q", wantKey)
	}
	if mailer.lastTo != "somchai@example.com" {
		t.Errorf("email sent to %q", mailer.lastTo)
	}

	var stored domain.Donation
	if err := db.First(&stored, "id = ?", "aabbccdd-0000-0000-0000-000000000001").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != domain.StatusApproved {
		t.Errorf("status = %q", stored.Status)
	}
	if stored.PDFURL == nil || *stored.PDFURL != res.PDFURL {
		t.Errorf("stored pdf url = %v", stored.PDFURL)
	}
}

func TestApproveAlreadyApproved(t *testing.T) {
	db := setupDonationTestDB(t)
	gen := &fakeGenerator{pdf: []byte("pdf")}
	store := &fakeStore{}
	mailer := &fakeMailer{result: true}
	svc := newTestService(t, db, gen, store, mailer)

	insertDonation(t, db, "approved-1", domain.StatusApproved)

	_, err := svc.Approve(context.Background(), "approved-1")
	if !errors.Is(err, domain.ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}
	if gen.calls != 0 || len(store.puts) != 0 || mailer.calls != 0 {
		t.Error("second approval must not render, upload or email")
	}
}

func TestApproveRejectedStaysRejected(t *testing.T) {
	db := setupDonationTestDB(t)
	svc := newTestService(t, db, &fakeGenerator{pdf: []byte("pdf")}, &fakeStore{}, &fakeMailer{result: true})

	insertDonation(t, db, "rejected-1", domain.StatusRejected)

	_, err := svc.Approve(context.Background(), "rejected-1")
	if !errors.Is(err, domain.ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}

	var stored domain.Donation
	if err := db.First(&stored, "id = ?", "rejected-1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != domain.StatusRejected {
		t.Errorf("status = %q", stored.Status)
	}
}

func TestApproveLosesRaceToConcurrentWriter(t *testing.T) {
	db := setupDonationTestDB(t)
	gen := &fakeGenerator{pdf: []byte("pdf")}
	store := &fakeStore{}
	mailer := &fakeMailer{result: true}
	svc := newTestService(t, db, gen, store, mailer)

	insertDonation(t, db, "contended-1", domain.StatusPending)

	// Another writer rejects the row after this approval has read it but
	// before its conditional update runs. The update must match zero rows.
	gen.hook = func() {
		res := db.Model(&domain.Donation{}).
			Where("id = ?", "contended-1").
			Update("status", domain.StatusRejected)
		if res.Error != nil || res.RowsAffected != 1 {
			t.Fatalf("concurrent reject: %v (rows %d)", res.Error, res.RowsAffected)
		}
	}

	_, err := svc.Approve(context.Background(), "contended-1")
	if !errors.Is(err, domain.ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
	if mailer.calls != 0 {
		t.Error("losing approval must not email")
	}

	var stored domain.Donation
	if err := db.First(&stored, "id = ?", "contended-1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != domain.StatusRejected {
		t.Errorf("status = %q, the concurrent rejection must stand", stored.Status)
	}
	if stored.PDFURL != nil {
		t.Errorf("pdf_url = %v, want nil on a lost approval", *stored.PDFURL)
	}
}

func TestApproveNotFound(t *testing.T) {
	db := setupDonationTestDB(t)
	store := &fakeStore{}
	svc := newTestService(t, db, &fakeGenerator{pdf: []byte("pdf")}, store, &fakeMailer{result: true})

	_, err := svc.Approve(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(store.puts) != 0 {
		t.Error("nothing should be uploaded for a missing donation")
	}
}

func TestApproveRenderFailureLeavesPending(t *testing.T) {
	db := setupDonationTestDB(t)
	gen := &fakeGenerator{err: fmt.Errorf("%w: browser crashed", receipt.ErrRenderFailed)}
	store := &fakeStore{}
	mailer := &fakeMailer{result: true}
	svc := newTestService(t, db, gen, store, mailer)

	insertDonation(t, db, "pending-render", domain.StatusPending)

	_, err := svc.Approve(context.Background(), "pending-render")
	if !errors.Is(err, receipt.ErrRenderFailed) {
		t.Fatalf("expected render failure, got %v", err)
	}
	if len(store.puts) != 0 || mailer.calls != 0 {
		t.Error("failed render must not upload or email")
	}

	var stored domain.Donation
	if err := db.First(&stored, "id = ?", "pending-render").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending for retry", stored.Status)
	}
}

func TestApproveStorageFailureLeavesPending(t *testing.T) {
	db := setupDonationTestDB(t)
	store := &fakeStore{putErr: errors.New("s3 unreachable")}
	svc := newTestService(t, db, &fakeGenerator{pdf: []byte("pdf")}, store, &fakeMailer{result: true})

	insertDonation(t, db, "pending-storage", domain.StatusPending)

	_, err := svc.Approve(context.Background(), "pending-storage")
	if !errors.Is(err, domain.ErrStorageFailed) {
		t.Fatalf("expected ErrStorageFailed, got %v", err)
	}

	var stored domain.Donation
	if err := db.First(&stored, "id = ?", "pending-storage").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending for retry", stored.Status)
	}
}

func TestApproveEmailFailureStillApproves(t *testing.T) {
	db := setupDonationTestDB(t)
	svc := newTestService(t, db, &fakeGenerator{pdf: []byte("pdf")}, &fakeStore{}, &fakeMailer{result: false})

	insertDonation(t, db, "pending-email", domain.StatusPending)

	res, err := svc.Approve(context.Background(), "pending-email")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if res.EmailSent {
		t.Error("expected EmailSent false")
	}

	var stored domain.Donation
	if err := db.First(&stored, "id = ?", "pending-email").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != domain.StatusApproved {
		t.Errorf("status = %q, approval must survive a failed email", stored.Status)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	db := setupDonationTestDB(t)
	svc := newTestService(t, db, &fakeGenerator{}, &fakeStore{}, &fakeMailer{})

	valid := domain.CreateRequest{
		Title:     "นางสาว",
		FirstName: "สมหญิง",
		LastName:  "รักดี",
		Email:     "somying@example.com",
		Phone:     "0898765432",
		BirthDate: "1995-12-01",
		Amount:    250.50,
	}

	donation, err := svc.Create(context.Background(), valid)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if donation.ID == "" {
		t.Error("expected a generated id")
	}
	if donation.Status != domain.StatusPending {
		t.Errorf("status = %q", donation.Status)
	}

	cases := []struct {
		name    string
		mutate  func(r *domain.CreateRequest)
		wantErr error
	}{
		{"missing title", func(r *domain.CreateRequest) { r.Title = " " }, domain.ErrInvalidTitle},
		{"missing first name", func(r *domain.CreateRequest) { r.FirstName = "" }, domain.ErrInvalidFirstName},
		{"missing last name", func(r *domain.CreateRequest) { r.LastName = "" }, domain.ErrInvalidLastName},
		{"bad email", func(r *domain.CreateRequest) { r.Email = "not-an-email" }, domain.ErrInvalidEmail},
		{"short phone", func(r *domain.CreateRequest) { r.Phone = "123" }, domain.ErrInvalidPhone},
		{"bad birth date", func(r *domain.CreateRequest) { r.BirthDate = "01/12/1995" }, domain.ErrInvalidBirthDate},
		{"zero amount", func(r *domain.CreateRequest) { r.Amount = 0 }, domain.ErrInvalidAmount},
		{"negative amount", func(r *domain.CreateRequest) { r.Amount = -10 }, domain.ErrInvalidAmount},
	}
	for _, tc := range cases {
		req := valid
		tc.mutate(&req)
		if _, err := svc.Create(context.Background(), req); !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestRejectTransitions(t *testing.T) {
	db := setupDonationTestDB(t)
	svc := newTestService(t, db, &fakeGenerator{}, &fakeStore{}, &fakeMailer{})

	insertDonation(t, db, "reject-pending", domain.StatusPending)
	insertDonation(t, db, "reject-approved", domain.StatusApproved)

	if err := svc.Reject(context.Background(), "reject-pending"); err != nil {
		t.Fatalf("reject pending: %v", err)
	}
	var stored domain.Donation
	if err := db.First(&stored, "id = ?", "reject-pending").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != domain.StatusRejected {
		t.Errorf("status = %q", stored.Status)
	}

	if err := svc.Reject(context.Background(), "reject-approved"); !errors.Is(err, domain.ErrNotPending) {
		t.Errorf("rejecting an approved donation: got %v", err)
	}
	if err := svc.Reject(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("rejecting a missing donation: got %v", err)
	}
}

func TestDeleteRemovesRecordOnly(t *testing.T) {
	db := setupDonationTestDB(t)
	store := &fakeStore{}
	svc := newTestService(t, db, &fakeGenerator{}, store, &fakeMailer{})

	insertDonation(t, db, "delete-me", domain.StatusApproved)

	if err := svc.Delete(context.Background(), "delete-me"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var count int64
	db.Model(&domain.Donation{}).Where("id = ?", "delete-me").Count(&count)
	if count != 0 {
		t.Error("record still present")
	}
	if len(store.deletes) != 0 {
		t.Error("delete must not touch stored objects")
	}

	if err := svc.Delete(context.Background(), "delete-me"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestPreviewRendersWithoutSideEffects(t *testing.T) {
	db := setupDonationTestDB(t)
	gen := &fakeGenerator{pdf: []byte("preview pdf")}
	store := &fakeStore{}
	mailer := &fakeMailer{result: true}
	svc := newTestService(t, db, gen, store, mailer)

	req := domain.PreviewRequest{Donation: domain.Donation{
		ID:        "preview-0001",
		Title:     "นาย",
		FirstName: "สมชาย",
		LastName:  "ใจดี",
		Email:     "somchai@example.com",
		Amount:    999,
	}}

	pdf, err := svc.Preview(context.Background(), req)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if string(pdf) != "preview pdf" {
		t.Errorf("pdf = %q", pdf)
	}
	if len(store.puts) != 0 || mailer.calls != 0 {
		t.Error("preview must not upload or email")
	}

	req.Donation.Amount = 0
	if _, err := svc.Preview(context.Background(), req); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("zero amount preview: got %v", err)
	}
}
