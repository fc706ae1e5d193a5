package domain

import "time"

// SettingsRowID is the well-known primary key of the singleton row. Every
// read and write targets this key; there is no "first row found" scan.
const SettingsRowID int64 = 1

// EmailSettings is the singleton configuration for outbound mail and the
// receipt signature block.
type EmailSettings struct {
	ID           int64  `gorm:"primaryKey" json:"-"`
	SMTPHost     string `gorm:"type:text;not null" json:"smtp_host"`
	SMTPPort     int    `gorm:"not null;default:587" json:"smtp_port"`
	SMTPUser     string `gorm:"type:text;not null" json:"smtp_user"`
	SMTPPassword string `gorm:"type:text;not null" json:"smtp_pass"`
	SenderEmail  string `gorm:"type:text;not null" json:"from_email"`
	SenderName   string `gorm:"type:text;not null" json:"from_name"`

	SignerName        string `gorm:"type:text" json:"signer_name"`
	SignerTitle       string `gorm:"type:text" json:"signer_title"`
	SignatureImageURL string `gorm:"type:text" json:"signature_image_url"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"-"`
}

// TableName sets the database table name.
func (EmailSettings) TableName() string { return "email_settings" }

// SMTPConfig is the transport configuration the mailer actually dials with,
// after the settings row has been merged with environment fallbacks.
type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	SenderEmail string
	SenderName  string
}

// Complete reports whether the mailer has enough to attempt a send.
func (c SMTPConfig) Complete() bool {
	return c.Host != "" && c.User != "" && c.Password != "" && c.SenderEmail != ""
}
