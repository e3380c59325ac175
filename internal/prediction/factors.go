// Package prediction scores an event's live signals into an attendance prediction.
// Everything here is a pure function of the event and the clock.
package prediction

import (
	"fmt"
	"time"

	"github.com/predictifylabs/predictify-api/internal/domain"
)

const (
	FactorTimeUntilEvent     = "Time Until Event"
	FactorRegistrationRate   = "Registration Rate"
	FactorInterestLevel      = "Interest Level"
	FactorVisibility         = "Visibility"
	FactorPriceAccessibility = "Price Accessibility"
	FactorPromotionStatus    = "Promotion Status"
)

const (
	weightTimeUntil    = 0.20
	weightRegistration = 0.30
	weightInterest     = 0.15
	weightVisibility   = 0.10
	weightPrice        = 0.15
	weightPromotion    = 0.10
)

const day = 24 * time.Hour

// DaysUntil counts calendar days in UTC from now to start. It is negative for past events.
func DaysUntil(start, now time.Time) int {
	from := now.UTC().Truncate(day)
	to := start.UTC().Truncate(day)

	return int(to.Sub(from) / day)
}

// CalculateFactors returns the six factors in a fixed order.
func CalculateFactors(event domain.Event, now time.Time) []domain.PredictionFactor {
	return []domain.PredictionFactor{
		timeUntilFactor(DaysUntil(event.StartDate, now)),
		registrationRateFactor(event),
		interestFactor(event.InterestedCount),
		visibilityFactor(event.ViewsCount),
		priceFactor(event.IsFree),
		promotionFactor(event.IsFeatured, event.IsTrending),
	}
}

func timeUntilFactor(days int) domain.PredictionFactor {
	score := clamp(100-days, 0, 100)

	impact := domain.ImpactLow
	switch {
	case days < 7:
		impact = domain.ImpactHigh
	case days < 30:
		impact = domain.ImpactMedium
	}

	return domain.PredictionFactor{
		Name:        FactorTimeUntilEvent,
		Type:        domain.FactorPositive,
		Impact:      impact,
		Weight:      weightTimeUntil,
		Score:       float64(score),
		Description: fmt.Sprintf("%d days until event", days),
	}
}

func registrationRateFactor(event domain.Event) domain.PredictionFactor {
	rate := event.RegistrationRate()

	return domain.PredictionFactor{
		Name:        FactorRegistrationRate,
		Type:        domain.FactorPositive,
		Impact:      impactFor(rate, 70, 40),
		Weight:      weightRegistration,
		Score:       rate,
		Description: fmt.Sprintf("%.1f%% of capacity registered", rate),
	}
}

func interestFactor(interested int) domain.PredictionFactor {
	score := float64(min(100, interested*2))

	return domain.PredictionFactor{
		Name:        FactorInterestLevel,
		Type:        domain.FactorPositive,
		Impact:      impactFor(score, 50, 20),
		Weight:      weightInterest,
		Score:       score,
		Description: fmt.Sprintf("%d people interested", interested),
	}
}

func visibilityFactor(views int) domain.PredictionFactor {
	score := float64(min(100, views/10))

	return domain.PredictionFactor{
		Name:        FactorVisibility,
		Type:        domain.FactorPositive,
		Impact:      impactFor(score, 50, 20),
		Weight:      weightVisibility,
		Score:       score,
		Description: fmt.Sprintf("%d views", views),
	}
}

func priceFactor(free bool) domain.PredictionFactor {
	f := domain.PredictionFactor{
		Name:        FactorPriceAccessibility,
		Type:        domain.FactorPositive,
		Impact:      domain.ImpactHigh,
		Weight:      weightPrice,
		Score:       80,
		Description: "Free event",
	}
	if !free {
		f.Type = domain.FactorNeutral
		f.Impact = domain.ImpactMedium
		f.Score = 50
		f.Description = "Paid event"
	}

	return f
}

func promotionFactor(featured, trending bool) domain.PredictionFactor {
	var score float64
	if featured {
		score += 50
	}
	if trending {
		score += 50
	}

	description := "Standard listing"
	switch {
	case featured:
		description = "Featured event"
	case trending:
		description = "Trending event"
	}

	return domain.PredictionFactor{
		Name:        FactorPromotionStatus,
		Type:        domain.FactorPositive,
		Impact:      impactFor(score, 50, 0),
		Weight:      weightPromotion,
		Score:       score,
		Description: description,
	}
}

// impactFor applies the strict "greater than" thresholds shared by most factors.
func impactFor(score, high, medium float64) domain.FactorImpact {
	switch {
	case score > high:
		return domain.ImpactHigh
	case score > medium:
		return domain.ImpactMedium
	default:
		return domain.ImpactLow
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
