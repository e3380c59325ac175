package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/metrics"
	"github.com/predictifylabs/predictify-api/internal/pkg/ticket"
	"github.com/predictifylabs/predictify-api/internal/repository"
)

var (
	ErrRegistrationNotFound = repository.ErrRegistrationNotFound
	ErrAlreadyRegistered    = repository.ErrAlreadyRegistered
	ErrAttendeeNotFound     = errors.New("attendee not found")
	ErrCapacityExceeded     = domain.ErrCapacityExceeded
	ErrAlreadyCancelled     = domain.ErrAlreadyCancelled
	ErrAttendanceConfirmed  = domain.ErrAttendanceConfirmed
	ErrTicketCodeExists     = repository.ErrTicketCodeExists
)

// ticketAttempts bounds how many codes Register draws when one is already issued.
const ticketAttempts = 3

const (
	TransitionRegistered = "registered"
	TransitionCancelled  = "cancelled"
	TransitionAttended   = "attended"
)

type RegistrationRepository interface {
	InTx(ctx context.Context, fn func(tx repository.RegistrationTx) error) error
	FindActive(ctx context.Context, eventID, userID uint) (domain.Registration, error)
	FindLatest(ctx context.Context, eventID, userID uint) (domain.Registration, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error)
}

type RegistrationPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// RegistrationMessage is published after every committed transition.
type RegistrationMessage struct {
	Transition     string                    `json:"transition"`
	RegistrationID uint                      `json:"registration_id"`
	EventID        uint                      `json:"event_id"`
	UserID         uint                      `json:"user_id"`
	TicketCode     string                    `json:"ticket_code"`
	Status         domain.RegistrationStatus `json:"status"`
	OccurredAt     time.Time                 `json:"occurred_at"`
}

type RegistrationService struct {
	repo      RegistrationRepository
	publisher RegistrationPublisher
	newTicket func() string
	now       func() time.Time
}

func NewRegistrationService(repo RegistrationRepository, publisher RegistrationPublisher) *RegistrationService {
	return &RegistrationService{
		repo:      repo,
		publisher: publisher,
		newTicket: ticket.NewCode,
		now:       time.Now,
	}
}

// Register reserves a seat and records a new registration. The event row is
// locked for the whole unit of work so concurrent registrations cannot both
// observe a free seat.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	var created domain.Registration

	err := s.repo.InTx(ctx, func(tx repository.RegistrationTx) error {
		event, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("tx.LockEvent -> %w", err)
		}

		_, err = tx.FindActive(ctx, eventID, userID)
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, ErrRegistrationNotFound) {
			return fmt.Errorf("tx.FindActive -> %w", err)
		}

		exists, err := tx.UserExists(ctx, userID)
		if err != nil {
			return fmt.Errorf("tx.UserExists -> %w", err)
		}
		if !exists {
			return ErrAttendeeNotFound
		}

		if err = event.TryReserve(); err != nil {
			return err
		}

		if err = tx.UpdateEventCounters(ctx, event); err != nil {
			return fmt.Errorf("tx.UpdateEventCounters -> %w", err)
		}

		for attempt := 1; ; attempt++ {
			created, err = tx.Create(ctx, domain.NewRegistration(eventID, userID, s.newTicket(), s.now()))
			if err == nil {
				return nil
			}
			if !errors.Is(err, ErrTicketCodeExists) || attempt == ticketAttempts {
				return fmt.Errorf("tx.Create -> %w", err)
			}

			zap.L().Warn("ticket code already issued, drawing another",
				zap.Uint("event_id", eventID), zap.Int("attempt", attempt))
		}
	})
	metrics.RegistrationAttempts.WithLabelValues(registerOutcome(err)).Inc()
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.InTx -> %w", err)
	}

	zap.L().Info("registered for event",
		zap.Uint("event_id", eventID), zap.Uint("user_id", userID), zap.String("ticket", created.TicketCode))
	s.publish(ctx, TransitionRegistered, created)

	return created, nil
}

// CancelRegistration cancels the most recent registration of the pair and frees its seat.
func (s *RegistrationService) CancelRegistration(ctx context.Context, eventID, userID uint) error {
	var cancelled domain.Registration

	err := s.repo.InTx(ctx, func(tx repository.RegistrationTx) error {
		event, err := lockRegisteredEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}

		registration, err := tx.FindLatest(ctx, eventID, userID)
		if err != nil {
			return fmt.Errorf("tx.FindLatest -> %w", err)
		}

		if err = registration.Cancel(s.now()); err != nil {
			return err
		}
		event.Release()

		if err = tx.UpdateEventCounters(ctx, event); err != nil {
			return fmt.Errorf("tx.UpdateEventCounters -> %w", err)
		}

		cancelled, err = tx.Update(ctx, registration)
		if err != nil {
			return fmt.Errorf("tx.Update -> %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("s.repo.InTx -> %w", err)
	}

	metrics.RegistrationCancellations.Inc()
	zap.L().Info("registration cancelled", zap.Uint("event_id", eventID), zap.Uint("user_id", userID))
	s.publish(ctx, TransitionCancelled, cancelled)

	return nil
}

// MarkAttendance confirms the active registration of the pair. The event's
// attendee counter only moves on the first confirmation.
func (s *RegistrationService) MarkAttendance(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	var (
		registration domain.Registration
		changed      bool
	)

	err := s.repo.InTx(ctx, func(tx repository.RegistrationTx) error {
		event, err := lockRegisteredEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}

		registration, err = tx.FindActive(ctx, eventID, userID)
		if err != nil {
			return fmt.Errorf("tx.FindActive -> %w", err)
		}

		changed, err = registration.MarkAttended(s.now())
		if err != nil || !changed {
			return err
		}

		event.AttendeesCount++
		if err = tx.UpdateEventCounters(ctx, event); err != nil {
			return fmt.Errorf("tx.UpdateEventCounters -> %w", err)
		}

		registration, err = tx.Update(ctx, registration)
		if err != nil {
			return fmt.Errorf("tx.Update -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.InTx -> %w", err)
	}

	if changed {
		metrics.AttendanceMarked.Inc()
		zap.L().Info("attendance marked", zap.Uint("event_id", eventID), zap.Uint("user_id", userID))
		s.publish(ctx, TransitionAttended, registration)
	}

	return registration, nil
}

// GetRegistration returns the most recent registration of the pair, cancelled or not.
func (s *RegistrationService) GetRegistration(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	registration, err := s.repo.FindLatest(ctx, eventID, userID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.FindLatest -> %w", err)
	}

	return registration, nil
}

func (s *RegistrationService) IsRegistered(ctx context.Context, eventID, userID uint) (bool, error) {
	_, err := s.repo.FindActive(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	return true, nil
}

func (s *RegistrationService) ListRegistrationsByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	registrations, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByUser -> %w", err)
	}

	return registrations, nil
}

func (s *RegistrationService) ListRegistrationsByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	registrations, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	return registrations, nil
}

// publish runs after commit. A broker failure never undoes a committed transition.
func (s *RegistrationService) publish(ctx context.Context, transition string, r domain.Registration) {
	err := s.publisher.Publish(ctx, "registration."+transition, RegistrationMessage{
		Transition:     transition,
		RegistrationID: r.ID,
		EventID:        r.EventID,
		UserID:         r.UserID,
		TicketCode:     r.TicketCode,
		Status:         r.Status,
		OccurredAt:     s.now(),
	})
	if err != nil {
		zap.L().Error("failed to publish registration message",
			zap.String("transition", transition), zap.Uint("registration_id", r.ID), zap.Error(err))
	}
}

// lockRegisteredEvent locks the event behind an existing registration. An
// unknown event has no registrations, so it reports ErrRegistrationNotFound.
func lockRegisteredEvent(ctx context.Context, tx repository.RegistrationTx, eventID uint) (domain.Event, error) {
	event, err := tx.LockEvent(ctx, eventID)
	if errors.Is(err, ErrEventNotFound) {
		return domain.Event{}, ErrRegistrationNotFound
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("tx.LockEvent -> %w", err)
	}

	return event, nil
}

func registerOutcome(err error) string {
	switch {
	case err == nil:
		return "registered"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrAttendeeNotFound):
		return "not_found"
	default:
		return "error"
	}
}
