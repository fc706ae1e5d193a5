package migration

import (
	"gorm.io/gorm"

	auditdomain "github.com/Nonie001/chns/internal/audit/domain"
	donationdomain "github.com/Nonie001/chns/internal/donation/domain"
	"github.com/Nonie001/chns/internal/seed"
	settingsdomain "github.com/Nonie001/chns/internal/settings/domain"
)

// RunMigrations brings the schema up to date at startup.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&donationdomain.Donation{},
		&settingsdomain.EmailSettings{},
		&seed.AdminUser{},
		&auditdomain.AuditLog{},
	)
}
