package prediction

import (
	"time"

	"github.com/predictifylabs/predictify-api/internal/domain"
)

// Build runs the factor, aggregation and classification steps and stamps the result with now.
func Build(event domain.Event, now time.Time) domain.Prediction {
	factors := CalculateFactors(event, now)
	probability := Aggregate(factors)
	c := Classify(event, probability)

	return domain.Prediction{
		EventID:           event.ID,
		Probability:       probability,
		Level:             c.Level,
		Confidence:        c.Confidence,
		EstimatedMin:      c.EstimatedMin,
		EstimatedMax:      c.EstimatedMax,
		EstimatedExpected: c.EstimatedExpected,
		Trend:             c.Trend,
		TrendChange:       c.TrendChange,
		CalculatedAt:      now,
		Factors:           factors,
	}
}
