package repository

import (
	"context"
	"fmt"

	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/repository/dao"
)

var ErrPredictionNotFound = dao.ErrPredictionNotFound

type PredictionRepository struct {
	dao *dao.PredictionDAO
}

func NewPredictionRepository(dao *dao.PredictionDAO) *PredictionRepository {
	return &PredictionRepository{
		dao: dao,
	}
}

// Generate reads the event and stores the prediction computed by build in one transaction.
func (r *PredictionRepository) Generate(ctx context.Context, eventID uint, build func(event domain.Event) domain.Prediction) (domain.Prediction, error) {
	var stored domain.Prediction

	err := r.dao.Transaction(ctx, func(tx *dao.PredictionDAO) error {
		event, err := tx.FindEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("tx.FindEvent -> %w", err)
		}

		created, err := tx.Insert(ctx, predictionDomainToDao(build(eventDaoToDomain(event))))
		if err != nil {
			return fmt.Errorf("tx.Insert -> %w", err)
		}

		stored = predictionDaoToDomain(created)

		return nil
	})
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("r.dao.Transaction -> %w", err)
	}

	return stored, nil
}

func (r *PredictionRepository) FindLatestByEventID(ctx context.Context, eventID uint) (domain.Prediction, error) {
	found, err := r.dao.FindLatestByEventID(ctx, eventID)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("r.dao.FindLatestByEventID -> %w", err)
	}

	return predictionDaoToDomain(found), nil
}

func predictionDomainToDao(p domain.Prediction) dao.Prediction {
	factors := make([]dao.PredictionFactor, 0, len(p.Factors))
	for i, f := range p.Factors {
		factors = append(factors, dao.PredictionFactor{
			Position:    i,
			Name:        f.Name,
			Type:        string(f.Type),
			Impact:      string(f.Impact),
			Weight:      f.Weight,
			Score:       f.Score,
			Description: f.Description,
		})
	}

	return dao.Prediction{
		ID:                p.ID,
		EventID:           p.EventID,
		Probability:       p.Probability,
		Level:             string(p.Level),
		Confidence:        p.Confidence,
		EstimatedMin:      p.EstimatedMin,
		EstimatedMax:      p.EstimatedMax,
		EstimatedExpected: p.EstimatedExpected,
		Trend:             string(p.Trend),
		TrendChange:       p.TrendChange,
		CalculatedAt:      p.CalculatedAt,
		Factors:           factors,
	}
}

func predictionDaoToDomain(p dao.Prediction) domain.Prediction {
	factors := make([]domain.PredictionFactor, 0, len(p.Factors))
	for _, f := range p.Factors {
		factors = append(factors, domain.PredictionFactor{
			Name:        f.Name,
			Type:        domain.FactorType(f.Type),
			Impact:      domain.FactorImpact(f.Impact),
			Weight:      f.Weight,
			Score:       f.Score,
			Description: f.Description,
		})
	}

	return domain.Prediction{
		ID:                p.ID,
		EventID:           p.EventID,
		Probability:       p.Probability,
		Level:             domain.PredictionLevel(p.Level),
		Confidence:        p.Confidence,
		EstimatedMin:      p.EstimatedMin,
		EstimatedMax:      p.EstimatedMax,
		EstimatedExpected: p.EstimatedExpected,
		Trend:             domain.PredictionTrend(p.Trend),
		TrendChange:       p.TrendChange,
		CalculatedAt:      p.CalculatedAt,
		Factors:           factors,
	}
}
