package checkout

import "givehubtel/internal/models"

// DonationStore is what the checkout flow needs from the donation platform's
// storage. The gorm repository implements it; tests swap in fakes.
type DonationStore interface {
	// CreatePending inserts a pending donation and returns its id.
	CreatePending(d *models.Donation) (uint, error)

	// FindByID returns a donation by id.
	FindByID(id uint) (*models.Donation, error)

	// Status returns the donation's current status.
	Status(id uint) (string, error)

	// MarkCompleted stores the provider transaction id and transitions the
	// donation to completed, atomically and at most once. It reports whether
	// this call performed the transition.
	MarkCompleted(id uint, transactionID string) (bool, error)

	// AppendNote attaches an audit note to the donation.
	AppendNote(id uint, note string) error

	// RecordGatewayError logs a gateway error; donationID may be zero.
	RecordGatewayError(title, message string, donationID uint) error
}
