package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Nonie001/chns/internal/donation/domain"
)

type gormRepository struct{}

// Provide returns the gorm-backed donation repository.
func Provide() domain.Repository {
	return &gormRepository{}
}

func (r *gormRepository) Insert(ctx context.Context, db *gorm.DB, donation *domain.Donation) error {
	return db.WithContext(ctx).Create(donation).Error
}

func (r *gormRepository) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Donation, error) {
	var donation domain.Donation
	err := db.WithContext(ctx).First(&donation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *gormRepository) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Donation, error) {
	query := db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var donations []domain.Donation
	if err := query.Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *gormRepository) MarkApproved(ctx context.Context, db *gorm.DB, id, pdfURL string, now time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Donation{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":     domain.StatusApproved,
			"pdf_url":    pdfURL,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormRepository) MarkRejected(ctx context.Context, db *gorm.DB, id string, now time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Donation{}).
		Where("id = ? AND status <> ?", id, domain.StatusApproved).
		Updates(map[string]any{
			"status":     domain.StatusRejected,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormRepository) Delete(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Delete(&domain.Donation{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
