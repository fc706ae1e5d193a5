package domain

import (
	"strings"
	"time"
)

// Status is the review state of a donation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Donation is one public submission awaiting or past review.
type Donation struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	FirstName string    `gorm:"type:text;not null" json:"first_name"`
	LastName  string    `gorm:"type:text;not null" json:"last_name"`
	Email     string    `gorm:"type:text;not null" json:"email"`
	Phone     string    `gorm:"type:text;not null" json:"phone"`
	BirthDate time.Time `gorm:"not null" json:"birth_date"`
	Amount    float64   `gorm:"not null" json:"amount"`
	SlipURL   string    `gorm:"type:text" json:"slip_url"`
	Status    Status    `gorm:"type:text;not null;default:'pending';index" json:"status"`
	PDFURL    *string   `gorm:"type:text" json:"pdf_url"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Donation) TableName() string { return "donations" }

// ReceiptNo derives the human-readable receipt number from the donation id.
func (d Donation) ReceiptNo() string {
	id := d.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// FullName joins the salutation and both name parts the way the receipt
// prints them (no space between title and first name, Thai convention).
func (d Donation) FullName() string {
	return d.Title + d.FirstName + " " + d.LastName
}
