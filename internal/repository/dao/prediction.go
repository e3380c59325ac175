package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrPredictionNotFound = errors.New("prediction not found")

// Prediction rows are append-only.
type Prediction struct {
	ID                uint      `gorm:"primaryKey"`
	EventID           uint      `gorm:"not null;index:idx_predictions_event_calculated,priority:1"`
	Event             *Event    `gorm:"foreignKey:EventID"`
	Probability       int       `gorm:"not null"`
	Level             string    `gorm:"type:varchar(10);not null"`
	Confidence        int       `gorm:"not null"`
	EstimatedMin      int       `gorm:"not null"`
	EstimatedMax      int       `gorm:"not null"`
	EstimatedExpected int       `gorm:"not null"`
	Trend             string    `gorm:"type:varchar(10);not null"`
	TrendChange       float64   `gorm:"not null"`
	CalculatedAt      time.Time `gorm:"not null;index:idx_predictions_event_calculated,priority:2,sort:desc"`
	Factors           []PredictionFactor
	CreatedAt         time.Time
}

type PredictionFactor struct {
	ID           uint    `gorm:"primaryKey"`
	PredictionID uint    `gorm:"not null;index"`
	Position     int     `gorm:"not null"`
	Name         string  `gorm:"not null"`
	Type         string  `gorm:"type:varchar(10);not null"`
	Impact       string  `gorm:"type:varchar(10);not null"`
	Weight       float64 `gorm:"not null"`
	Score        float64 `gorm:"not null"`
	Description  string
}

type PredictionDAO struct {
	db *gorm.DB
}

func NewPredictionDAO(db *gorm.DB) *PredictionDAO {
	return &PredictionDAO{
		db: db,
	}
}

// Transaction gives fn a consistent snapshot to read the event and write the prediction.
func (d *PredictionDAO) Transaction(ctx context.Context, fn func(tx *PredictionDAO) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PredictionDAO{db: tx})
	})
}

func (d *PredictionDAO) FindEvent(ctx context.Context, eventID uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, eventID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// Insert stores the prediction together with its factors.
func (d *PredictionDAO) Insert(ctx context.Context, prediction Prediction) (Prediction, error) {
	if err := d.db.WithContext(ctx).Omit("Event").Create(&prediction).Error; err != nil {
		return Prediction{}, err
	}

	return prediction, nil
}

func (d *PredictionDAO) FindLatestByEventID(ctx context.Context, eventID uint) (Prediction, error) {
	var prediction Prediction

	result := d.db.WithContext(ctx).
		Preload("Factors", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("event_id = ?", eventID).
		Order("calculated_at DESC, id DESC").
		First(&prediction)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Prediction{}, ErrPredictionNotFound
		}

		return Prediction{}, result.Error
	}

	return prediction, nil
}
