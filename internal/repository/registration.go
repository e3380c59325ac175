package repository

import (
	"context"
	"fmt"

	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/repository/dao"
)

var (
	ErrRegistrationNotFound = dao.ErrRegistrationNotFound
	ErrAlreadyRegistered    = dao.ErrAlreadyRegistered
	ErrTicketCodeExists     = dao.ErrTicketCodeExists
)

// RegistrationTx is the unit of work spanning an event's counters and its
// registrations. Everything done through it commits or rolls back together.
type RegistrationTx interface {
	LockEvent(ctx context.Context, eventID uint) (domain.Event, error)
	UpdateEventCounters(ctx context.Context, event domain.Event) error
	UserExists(ctx context.Context, userID uint) (bool, error)
	FindActive(ctx context.Context, eventID, userID uint) (domain.Registration, error)
	FindLatest(ctx context.Context, eventID, userID uint) (domain.Registration, error)
	Create(ctx context.Context, registration domain.Registration) (domain.Registration, error)
	Update(ctx context.Context, registration domain.Registration) (domain.Registration, error)
}

type RegistrationRepository struct {
	dao *dao.RegistrationDAO
}

func NewRegistrationRepository(dao *dao.RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

func (r *RegistrationRepository) InTx(ctx context.Context, fn func(tx RegistrationTx) error) error {
	return r.dao.Transaction(ctx, func(d *dao.RegistrationDAO) error {
		return fn(&registrationTx{dao: d})
	})
}

func (r *RegistrationRepository) FindActive(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	return (&registrationTx{dao: r.dao}).FindActive(ctx, eventID, userID)
}

func (r *RegistrationRepository) FindLatest(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	return (&registrationTx{dao: r.dao}).FindLatest(ctx, eventID, userID)
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return registrationsDaoToDomain(found), nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return registrationsDaoToDomain(found), nil
}

type registrationTx struct {
	dao *dao.RegistrationDAO
}

func (t *registrationTx) LockEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	event, err := t.dao.LockEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("t.dao.LockEvent -> %w", err)
	}

	return eventDaoToDomain(event), nil
}

func (t *registrationTx) UpdateEventCounters(ctx context.Context, event domain.Event) error {
	if err := t.dao.UpdateEventCounters(ctx, eventDomainToDao(event)); err != nil {
		return fmt.Errorf("t.dao.UpdateEventCounters -> %w", err)
	}

	return nil
}

func (t *registrationTx) UserExists(ctx context.Context, userID uint) (bool, error) {
	exists, err := t.dao.UserExists(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("t.dao.UserExists -> %w", err)
	}

	return exists, nil
}

func (t *registrationTx) FindActive(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	found, err := t.dao.FindActive(ctx, eventID, userID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("t.dao.FindActive -> %w", err)
	}

	return registrationDaoToDomain(found), nil
}

func (t *registrationTx) FindLatest(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	found, err := t.dao.FindLatest(ctx, eventID, userID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("t.dao.FindLatest -> %w", err)
	}

	return registrationDaoToDomain(found), nil
}

func (t *registrationTx) Create(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	created, err := t.dao.Insert(ctx, registrationDomainToDao(registration))
	if err != nil {
		return domain.Registration{}, fmt.Errorf("t.dao.Insert -> %w", err)
	}

	return registrationDaoToDomain(created), nil
}

func (t *registrationTx) Update(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	updated, err := t.dao.Update(ctx, registrationDomainToDao(registration))
	if err != nil {
		return domain.Registration{}, fmt.Errorf("t.dao.Update -> %w", err)
	}

	return registrationDaoToDomain(updated), nil
}

func registrationDomainToDao(r domain.Registration) dao.Registration {
	return dao.Registration{
		ID:           r.ID,
		EventID:      r.EventID,
		UserID:       r.UserID,
		Status:       string(r.Status),
		Attended:     r.Attended,
		TicketCode:   r.TicketCode,
		RegisteredAt: r.RegisteredAt,
		AttendedAt:   r.AttendedAt,
		CancelledAt:  r.CancelledAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func registrationDaoToDomain(r dao.Registration) domain.Registration {
	return domain.Registration{
		ID:           r.ID,
		EventID:      r.EventID,
		UserID:       r.UserID,
		Status:       domain.RegistrationStatus(r.Status),
		Attended:     r.Attended,
		TicketCode:   r.TicketCode,
		RegisteredAt: r.RegisteredAt,
		AttendedAt:   r.AttendedAt,
		CancelledAt:  r.CancelledAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func registrationsDaoToDomain(found []dao.Registration) []domain.Registration {
	registrations := make([]domain.Registration, 0, len(found))
	for _, r := range found {
		registrations = append(registrations, registrationDaoToDomain(r))
	}

	return registrations
}
