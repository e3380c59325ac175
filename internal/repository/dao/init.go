package dao

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	activeRegistrationIndex = "uq_registrations_active"
	ticketCodeIndex         = "uq_registrations_ticket_code"
	userEmailIndex          = "uni_users_email"
)

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Event{},
		&Registration{},
		&Prediction{},
		&PredictionFactor{},
	)
	if err != nil {
		return fmt.Errorf("db.AutoMigrate -> %w", err)
	}

	// At most one non-cancelled registration per (event, user).
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ` + activeRegistrationIndex + `
		ON registrations (event_id, user_id)
		WHERE status <> 'cancelled'
	`).Error
	if err != nil {
		return fmt.Errorf("create %s -> %w", activeRegistrationIndex, err)
	}

	return nil
}
