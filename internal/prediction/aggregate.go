package prediction

import (
	"math"

	"github.com/predictifylabs/predictify-api/internal/domain"
)

const fallbackProbability = 50

// meanPrecision snaps the weighted mean to 1e-9 before rounding, so a mean
// that is exactly x.5 is not seen as x.4999.
const meanPrecision = 1e9

// Aggregate is the weighted mean of the factor scores, rounded half away from zero.
// Weights are taken in whole hundredths.
func Aggregate(factors []domain.PredictionFactor) int {
	var sum float64
	var weight int64
	for _, f := range factors {
		w := int64(math.Round(f.Weight * 100))
		sum += f.Score * float64(w)
		weight += w
	}

	if weight <= 0 {
		return fallbackProbability
	}

	mean := math.Round(sum/float64(weight)*meanPrecision) / meanPrecision

	return clamp(int(math.Round(mean)), 0, 100)
}
