package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"givehubtel/internal/models"
)

// Migrate ensures the donation tables exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Donation{},
		&models.DonationNote{},
		&models.GatewayError{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
