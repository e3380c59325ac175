package domain

import (
	"errors"
	"time"
)

var (
	ErrAlreadyCancelled    = errors.New("registration already cancelled")
	ErrAttendanceConfirmed = errors.New("attendance already confirmed")
)

type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationConfirmed  RegistrationStatus = "confirmed"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

type Registration struct {
	ID           uint               `json:"id"`
	EventID      uint               `json:"event_id"`
	UserID       uint               `json:"user_id"`
	Status       RegistrationStatus `json:"status"`
	Attended     bool               `json:"attended"`
	TicketCode   string             `json:"ticket_code"`
	RegisteredAt time.Time          `json:"registered_at"`
	AttendedAt   *time.Time         `json:"attended_at,omitempty"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func NewRegistration(eventID, userID uint, ticketCode string, now time.Time) Registration {
	return Registration{
		EventID:      eventID,
		UserID:       userID,
		Status:       RegistrationRegistered,
		TicketCode:   ticketCode,
		RegisteredAt: now,
	}
}

// IsActive reports whether the registration still holds a seat.
func (r *Registration) IsActive() bool {
	return r.Status != RegistrationCancelled
}

// Cancel moves a registered record to cancelled. Both cancelled and confirmed are terminal.
func (r *Registration) Cancel(now time.Time) error {
	switch r.Status {
	case RegistrationCancelled:
		return ErrAlreadyCancelled
	case RegistrationConfirmed:
		return ErrAttendanceConfirmed
	}

	r.Status = RegistrationCancelled
	r.CancelledAt = &now

	return nil
}

// MarkAttended confirms attendance and reports whether the state changed.
// Repeated calls on a confirmed registration are no-ops.
func (r *Registration) MarkAttended(now time.Time) (bool, error) {
	switch r.Status {
	case RegistrationCancelled:
		return false, ErrAlreadyCancelled
	case RegistrationConfirmed:
		return false, nil
	}

	r.Status = RegistrationConfirmed
	r.Attended = true
	r.AttendedAt = &now

	return true, nil
}
