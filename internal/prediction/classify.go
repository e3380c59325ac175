package prediction

import "github.com/predictifylabs/predictify-api/internal/domain"

type Classification struct {
	Level             domain.PredictionLevel
	Confidence        int
	EstimatedMin      int
	EstimatedMax      int
	EstimatedExpected int
	Trend             domain.PredictionTrend
	TrendChange       float64
}

func Classify(event domain.Event, probability int) Classification {
	c := Classification{
		Level:      LevelFor(probability),
		Confidence: Confidence(event),
		Trend:      TrendFor(event),
	}
	c.EstimatedMin, c.EstimatedExpected, c.EstimatedMax = Estimate(event, probability)
	c.TrendChange = TrendChangeFor(event.RegistrationRate())

	return c
}

func LevelFor(probability int) domain.PredictionLevel {
	switch {
	case probability >= 65:
		return domain.LevelHigh
	case probability >= 35:
		return domain.LevelMedium
	default:
		return domain.LevelLow
	}
}

// Estimate returns min, expected and max attendance. Registrations count twice
// against the capacity share implied by the probability. Expected is raised to
// the registered count so that min <= expected <= max <= capacity holds.
// Min is taken from the unraised expected, max from the raised one.
func Estimate(event domain.Event, probability int) (int, int, int) {
	capacity := max(event.Capacity, 0)
	registered := min(max(event.RegisteredCount, 0), capacity)

	expected := (capacity*probability/100 + 2*registered) / 3
	low := max(registered, expected*7/10)
	expected = max(expected, registered)
	high := min(capacity, expected*13/10)

	return low, expected, high
}

func Confidence(event domain.Event) int {
	c := 30 +
		min(30, event.RegisteredCount/2) +
		min(20, event.ViewsCount/50) +
		min(20, event.InterestedCount)

	return min(100, c)
}

// TrendFor compares registrations against half and a fifth of capacity.
// Values exactly on a boundary are stable.
func TrendFor(event domain.Event) domain.PredictionTrend {
	switch {
	case event.RegisteredCount*2 > event.Capacity:
		return domain.TrendUp
	case event.RegisteredCount*5 < event.Capacity:
		return domain.TrendDown
	default:
		return domain.TrendStable
	}
}

func TrendChangeFor(rate float64) float64 {
	switch {
	case rate > 50:
		return 5.0
	case rate > 25:
		return 0.0
	default:
		return -3.0
	}
}
