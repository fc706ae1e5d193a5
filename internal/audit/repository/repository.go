package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Nonie001/chns/internal/audit/domain"
)

type gormRepository struct{}

func Provide() domain.Repository {
	return &gormRepository{}
}

func (r *gormRepository) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	return db.WithContext(ctx).Create(entry).Error
}
