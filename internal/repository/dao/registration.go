package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("user already registered for this event")
	ErrTicketCodeExists     = errors.New("ticket code already issued")
)

const statusCancelled = "cancelled"

type Registration struct {
	ID           uint      `gorm:"primaryKey"`
	EventID      uint      `gorm:"not null;index"`
	Event        *Event    `gorm:"foreignKey:EventID"`
	UserID       uint      `gorm:"not null;index"`
	User         *User     `gorm:"foreignKey:UserID"`
	Status       string    `gorm:"type:varchar(20);not null"`
	Attended     bool      `gorm:"not null"`
	TicketCode   string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_registrations_ticket_code"`
	RegisteredAt time.Time `gorm:"not null"`
	AttendedAt   *time.Time
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegistrationDAO runs against either the pool or an open transaction.
type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// Transaction runs fn with a DAO bound to a single database transaction.
func (d *RegistrationDAO) Transaction(ctx context.Context, fn func(tx *RegistrationDAO) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RegistrationDAO{db: tx})
	})
}

// LockEvent reads the event with SELECT ... FOR UPDATE. Concurrent callers on
// the same event wait here until the holder commits.
func (d *RegistrationDAO) LockEvent(ctx context.Context, eventID uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, eventID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *RegistrationDAO) UpdateEventCounters(ctx context.Context, event Event) error {
	return d.db.WithContext(ctx).
		Model(&Event{ID: event.ID}).
		Updates(map[string]interface{}{
			"registered_count": event.RegisteredCount,
			"attendees_count":  event.AttendeesCount,
		}).Error
}

func (d *RegistrationDAO) UserExists(ctx context.Context, userID uint) (bool, error) {
	var count int64

	if err := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (d *RegistrationDAO) FindActive(ctx context.Context, eventID, userID uint) (Registration, error) {
	return d.first(ctx, d.db.Where("event_id = ? AND user_id = ? AND status <> ?", eventID, userID, statusCancelled))
}

// FindLatest returns the most recent registration for the pair, cancelled ones included.
func (d *RegistrationDAO) FindLatest(ctx context.Context, eventID, userID uint) (Registration, error) {
	return d.first(ctx, d.db.Where("event_id = ? AND user_id = ?", eventID, userID))
}

func (d *RegistrationDAO) first(ctx context.Context, query *gorm.DB) (Registration, error) {
	var registration Registration

	result := query.WithContext(ctx).Order("registered_at DESC, id DESC").First(&registration)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

// Insert runs as a nested transaction. Inside RegistrationDAO.Transaction that
// is a savepoint, so a unique violation leaves the outer transaction usable.
func (d *RegistrationDAO) Insert(ctx context.Context, registration Registration) (Registration, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(&registration).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch {
			case strings.Contains(pgErr.Message, activeRegistrationIndex):
				return Registration{}, ErrAlreadyRegistered
			case strings.Contains(pgErr.Message, ticketCodeIndex):
				return Registration{}, ErrTicketCodeExists
			}
		}

		return Registration{}, err
	}

	return registration, nil
}

func (d *RegistrationDAO) Update(ctx context.Context, registration Registration) (Registration, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Save(&registration)
	if result.Error != nil {
		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByUserID(ctx context.Context, userID uint) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

func (d *RegistrationDAO) FindByEventID(ctx context.Context, eventID uint) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at ASC").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}
