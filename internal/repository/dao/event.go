package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID          uint   `gorm:"primaryKey"`
	OrganizerID uint   `gorm:"not null;index"`
	Organizer   *User  `gorm:"foreignKey:OrganizerID"`
	Title       string `gorm:"not null"`
	Description string
	Category    string `gorm:"type:varchar(30);not null"`
	Type        string `gorm:"type:varchar(20);not null"`

	Capacity        int `gorm:"not null;check:capacity > 0"`
	RegisteredCount int `gorm:"not null;default:0;check:registered_count >= 0"`
	InterestedCount int `gorm:"not null;default:0"`
	AttendeesCount  int `gorm:"not null;default:0"`
	ViewsCount      int `gorm:"not null;default:0"`

	StartDate  time.Time `gorm:"not null;index"`
	IsFree     bool      `gorm:"not null"`
	Price      float64   `gorm:"not null;default:0"`
	IsFeatured bool      `gorm:"not null"`
	IsTrending bool      `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) List(ctx context.Context, limit, offset int) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Order("start_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// IncrementCounter adds one to a counter column without reading the row first.
func (d *EventDAO) IncrementCounter(ctx context.Context, id uint, column string) error {
	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) UpdatePromotion(ctx context.Context, id uint, featured, trending bool) error {
	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_featured": featured,
			"is_trending": trending,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}
