package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/metrics"
	"github.com/predictifylabs/predictify-api/internal/prediction"
	"github.com/predictifylabs/predictify-api/internal/repository"
)

var ErrPredictionNotFound = repository.ErrPredictionNotFound

type PredictionRepository interface {
	Generate(ctx context.Context, eventID uint, build func(event domain.Event) domain.Prediction) (domain.Prediction, error)
	FindLatestByEventID(ctx context.Context, eventID uint) (domain.Prediction, error)
}

// PredictionNotifier is told about every stored prediction.
type PredictionNotifier interface {
	PredictionGenerated(p domain.Prediction)
}

type PredictionService struct {
	repo     PredictionRepository
	notifier PredictionNotifier
	now      func() time.Time
}

func NewPredictionService(repo PredictionRepository, notifier PredictionNotifier) *PredictionService {
	return &PredictionService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// GeneratePrediction scores the event as it is now and appends a new prediction.
func (s *PredictionService) GeneratePrediction(ctx context.Context, eventID uint) (domain.Prediction, error) {
	p, err := s.repo.Generate(ctx, eventID, func(event domain.Event) domain.Prediction {
		return prediction.Build(event, s.now())
	})
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("s.repo.Generate -> %w", err)
	}

	metrics.PredictionsGenerated.WithLabelValues(string(p.Level)).Inc()
	zap.L().Info("prediction generated",
		zap.Uint("event_id", eventID), zap.Int("probability", p.Probability), zap.String("level", string(p.Level)))

	if s.notifier != nil {
		s.notifier.PredictionGenerated(p)
	}

	return p, nil
}

// GetLatestPrediction reports false when the event has no prediction yet.
func (s *PredictionService) GetLatestPrediction(ctx context.Context, eventID uint) (domain.Prediction, bool, error) {
	p, err := s.repo.FindLatestByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrPredictionNotFound) {
			return domain.Prediction{}, false, nil
		}

		return domain.Prediction{}, false, fmt.Errorf("s.repo.FindLatestByEventID -> %w", err)
	}

	return p, true, nil
}
