package repository

import (
	"context"
	"fmt"

	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

const (
	viewsColumn      = "views_count"
	interestedColumn = "interested_count"
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	List(ctx context.Context, limit, offset int) ([]dao.Event, error)
	IncrementCounter(ctx context.Context, id uint, column string) error
	UpdatePromotion(ctx context.Context, id uint, featured, trending bool) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventDomainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDaoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventDaoToDomain(found), nil
}

func (r *EventRepository) List(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	found, err := r.dao.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, eventDaoToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) IncrementViews(ctx context.Context, id uint) error {
	if err := r.dao.IncrementCounter(ctx, id, viewsColumn); err != nil {
		return fmt.Errorf("r.dao.IncrementCounter -> %w", err)
	}

	return nil
}

func (r *EventRepository) IncrementInterested(ctx context.Context, id uint) error {
	if err := r.dao.IncrementCounter(ctx, id, interestedColumn); err != nil {
		return fmt.Errorf("r.dao.IncrementCounter -> %w", err)
	}

	return nil
}

func (r *EventRepository) UpdatePromotion(ctx context.Context, id uint, featured, trending bool) error {
	if err := r.dao.UpdatePromotion(ctx, id, featured, trending); err != nil {
		return fmt.Errorf("r.dao.UpdatePromotion -> %w", err)
	}

	return nil
}

func eventDomainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:              e.ID,
		OrganizerID:     e.OrganizerID,
		Title:           e.Title,
		Description:     e.Description,
		Category:        string(e.Category),
		Type:            string(e.Type),
		Capacity:        e.Capacity,
		RegisteredCount: e.RegisteredCount,
		InterestedCount: e.InterestedCount,
		AttendeesCount:  e.AttendeesCount,
		ViewsCount:      e.ViewsCount,
		StartDate:       e.StartDate,
		IsFree:          e.IsFree,
		Price:           e.Price,
		IsFeatured:      e.IsFeatured,
		IsTrending:      e.IsTrending,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:              e.ID,
		OrganizerID:     e.OrganizerID,
		Title:           e.Title,
		Description:     e.Description,
		Category:        domain.EventCategory(e.Category),
		Type:            domain.EventType(e.Type),
		Capacity:        e.Capacity,
		RegisteredCount: e.RegisteredCount,
		InterestedCount: e.InterestedCount,
		AttendeesCount:  e.AttendeesCount,
		ViewsCount:      e.ViewsCount,
		StartDate:       e.StartDate,
		IsFree:          e.IsFree,
		Price:           e.Price,
		IsFeatured:      e.IsFeatured,
		IsTrending:      e.IsTrending,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
