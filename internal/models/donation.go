package models

import "time"

// Donation statuses. A donation only ever moves pending -> completed; failure
// callbacks are recorded as notes but never flip the status, so abandoned
// payments stay pending for operator follow-up.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Donation maps to the `donations` table. Amount is kept as the decimal
// string the donor submitted; no rounding or conversion happens anywhere.
type Donation struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Amount        string    `gorm:"column:amount;size:50" json:"amount"`
	FirstName     string    `gorm:"column:first_name;size:200" json:"first_name"`
	LastName      string    `gorm:"column:last_name;size:200" json:"last_name"`
	Email         string    `gorm:"column:email;size:320" json:"email"`
	Gateway       string    `gorm:"column:gateway;size:100" json:"gateway"`
	Status        string    `gorm:"column:status;size:100;index" json:"status"`
	TransactionID string    `gorm:"column:transaction_id;size:400" json:"transaction_id"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Donation) TableName() string {
	return "donations"
}

// DonationNote is one audit entry attached to a donation. Every received
// callback lands here verbatim, whether or not it changed anything.
type DonationNote struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DonationID uint      `gorm:"column:donation_id;index" json:"donation_id"`
	Note       string    `gorm:"column:note;type:text" json:"note"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (DonationNote) TableName() string {
	return "donation_notes"
}

// GatewayError maps to the `gateway_errors` table.
type GatewayError struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"column:title;size:200" json:"title"`
	Message    string    `gorm:"column:message;type:text" json:"message"`
	DonationID uint      `gorm:"column:donation_id;index" json:"donation_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (GatewayError) TableName() string {
	return "gateway_errors"
}
