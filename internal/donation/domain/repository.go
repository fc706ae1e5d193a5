package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, donation *Donation) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Donation, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Donation, error)
	// MarkApproved sets status=approved and the receipt URL, but only when the
	// row is still pending. Returns false when no row matched, which covers
	// both a vanished record and a status that moved underneath us.
	MarkApproved(ctx context.Context, db *gorm.DB, id, pdfURL string, now time.Time) (bool, error)
	MarkRejected(ctx context.Context, db *gorm.DB, id string, now time.Time) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, id string) (bool, error)
}
