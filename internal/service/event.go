package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/repository"
)

var (
	ErrEventNotFound     = repository.ErrEventNotFound
	ErrNotEventOrganizer = errors.New("user is not the organizer of this event")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	List(ctx context.Context, limit, offset int) ([]domain.Event, error)
	IncrementViews(ctx context.Context, id uint) error
	IncrementInterested(ctx context.Context, id uint) error
	UpdatePromotion(ctx context.Context, id uint, featured, trending bool) error
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	event.RegisteredCount = 0
	event.InterestedCount = 0
	event.AttendeesCount = 0
	event.ViewsCount = 0

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("event created", zap.Uint("event_id", created.ID), zap.Uint("organizer_id", created.OrganizerID))

	return created, nil
}

// GetEvent counts a view and returns the event with the new count.
func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.IncrementViews -> %w", err)
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, page, pageSize int) ([]domain.Event, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)
	page = max(page, 1)

	events, err := s.repo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return events, nil
}

func (s *EventService) ExpressInterest(ctx context.Context, id uint) error {
	if err := s.repo.IncrementInterested(ctx, id); err != nil {
		return fmt.Errorf("s.repo.IncrementInterested -> %w", err)
	}

	return nil
}

// IsOrganizer reports whether userID organizes the event.
func (s *EventService) IsOrganizer(ctx context.Context, eventID, userID uint) (bool, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event.OrganizerID == userID, nil
}

func (s *EventService) UpdatePromotion(ctx context.Context, eventID, organizerID uint, featured, trending bool) (domain.Event, error) {
	ok, err := s.IsOrganizer(ctx, eventID, organizerID)
	if err != nil {
		return domain.Event{}, err
	}
	if !ok {
		return domain.Event{}, ErrNotEventOrganizer
	}

	if err = s.repo.UpdatePromotion(ctx, eventID, featured, trending); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.UpdatePromotion -> %w", err)
	}

	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}
