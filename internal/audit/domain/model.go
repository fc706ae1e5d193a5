package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Admin actions recorded against donations and settings.
const (
	ActionDonationApprove = "donation.approve"
	ActionDonationReject  = "donation.reject"
	ActionDonationDelete  = "donation.delete"
	ActionSettingsUpdate  = "settings.update"
)

const (
	TargetTypeDonation = "donation"
	TargetTypeSettings = "email_settings"
)

// AuditLog captures an immutable record of an admin action.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	ActorEmail string            `gorm:"type:text"`
	Action     string            `gorm:"type:text;not null;index"`
	TargetType string            `gorm:"type:text;not null"`
	TargetID   string            `gorm:"type:text;index"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
}

// Service records admin actions. Recording never fails the calling request.
type Service interface {
	Record(ctx context.Context, actorEmail, action, targetType, targetID string, metadata map[string]any) error
}
