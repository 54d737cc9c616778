package repository

import (
	"time"

	"gorm.io/gorm"

	"givehubtel/internal/models"
)

// DonationRepository handles donation database operations.
type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// CreatePending inserts a new donation in the pending state and returns its id.
func (r *DonationRepository) CreatePending(d *models.Donation) (uint, error) {
	d.Status = models.StatusPending
	if err := r.db.Create(d).Error; err != nil {
		return 0, err
	}
	return d.ID, nil
}

// FindByID returns a donation by id.
func (r *DonationRepository) FindByID(id uint) (*models.Donation, error) {
	var d models.Donation
	if err := r.db.Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// Status returns the current status of a donation.
func (r *DonationRepository) Status(id uint) (string, error) {
	var d models.Donation
	if err := r.db.Select("status").Where("id = ?", id).First(&d).Error; err != nil {
		return "", err
	}
	return d.Status, nil
}

// MarkCompleted records the provider transaction id and moves the donation to
// completed in a single guarded update. The status predicate makes the
// transition happen at most once even when duplicate callbacks race on the
// same row; the return value reports whether this call won.
func (r *DonationRepository) MarkCompleted(id uint, transactionID string) (bool, error) {
	res := r.db.Model(&models.Donation{}).
		Where("id = ? AND status <> ?", id, models.StatusCompleted).
		Updates(map[string]interface{}{
			"status":         models.StatusCompleted,
			"transaction_id": transactionID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AppendNote attaches an audit note to a donation.
func (r *DonationRepository) AppendNote(id uint, note string) error {
	return r.db.Create(&models.DonationNote{
		DonationID: id,
		Note:       note,
	}).Error
}

// RecordGatewayError logs a gateway error row. donationID may be zero when the
// failure happened before a donation existed.
func (r *DonationRepository) RecordGatewayError(title, message string, donationID uint) error {
	return r.db.Create(&models.GatewayError{
		Title:      title,
		Message:    message,
		DonationID: donationID,
	}).Error
}

// StalePending returns donations still pending that were created before the
// given cutoff.
func (r *DonationRepository) StalePending(cutoff time.Time) ([]models.Donation, error) {
	var donations []models.Donation
	err := r.db.
		Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Order("created_at ASC").
		Find(&donations).Error
	return donations, err
}
