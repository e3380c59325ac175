package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictifylabs/predictify-api/internal/domain"
)

var now = time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)

func scenarioEvent() domain.Event {
	return domain.Event{
		ID:              42,
		Capacity:        10,
		RegisteredCount: 7,
		InterestedCount: 20,
		ViewsCount:      100,
		IsFree:          true,
		StartDate:       now.AddDate(0, 0, 3),
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  int
	}{
		{"same day later", now.Add(5 * time.Hour), 0},
		{"next calendar day under 24h", time.Date(2026, 5, 11, 1, 0, 0, 0, time.UTC), 1},
		{"three days", now.AddDate(0, 0, 3), 3},
		{"past", now.AddDate(0, 0, -4), -4},
		{"other zone", time.Date(2026, 5, 12, 23, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.start, now))
		})
	}
}

func TestCalculateFactors_Scenario(t *testing.T) {
	factors := CalculateFactors(scenarioEvent(), now)
	require.Len(t, factors, 6)

	want := []domain.PredictionFactor{
		{Name: FactorTimeUntilEvent, Type: domain.FactorPositive, Impact: domain.ImpactHigh, Weight: 0.20, Score: 97, Description: "3 days until event"},
		{Name: FactorRegistrationRate, Type: domain.FactorPositive, Impact: domain.ImpactMedium, Weight: 0.30, Score: 70, Description: "70.0% of capacity registered"},
		{Name: FactorInterestLevel, Type: domain.FactorPositive, Impact: domain.ImpactMedium, Weight: 0.15, Score: 40, Description: "20 people interested"},
		{Name: FactorVisibility, Type: domain.FactorPositive, Impact: domain.ImpactLow, Weight: 0.10, Score: 10, Description: "100 views"},
		{Name: FactorPriceAccessibility, Type: domain.FactorPositive, Impact: domain.ImpactHigh, Weight: 0.15, Score: 80, Description: "Free event"},
		{Name: FactorPromotionStatus, Type: domain.FactorPositive, Impact: domain.ImpactLow, Weight: 0.10, Score: 0, Description: "Standard listing"},
	}

	for i := range want {
		assert.Equal(t, want[i].Name, factors[i].Name)
		assert.Equal(t, want[i].Type, factors[i].Type, want[i].Name)
		assert.Equal(t, want[i].Impact, factors[i].Impact, want[i].Name)
		assert.InDelta(t, want[i].Weight, factors[i].Weight, 1e-9, want[i].Name)
		assert.InDelta(t, want[i].Score, factors[i].Score, 1e-9, want[i].Name)
		assert.Equal(t, want[i].Description, factors[i].Description)
	}
}

func TestTimeUntilFactor(t *testing.T) {
	tests := []struct {
		days   int
		score  float64
		impact domain.FactorImpact
	}{
		{-10, 100, domain.ImpactHigh},
		{0, 100, domain.ImpactHigh},
		{6, 94, domain.ImpactHigh},
		{7, 93, domain.ImpactMedium},
		{29, 71, domain.ImpactMedium},
		{30, 70, domain.ImpactLow},
		{100, 0, domain.ImpactLow},
		{250, 0, domain.ImpactLow},
	}

	for _, tt := range tests {
		f := timeUntilFactor(tt.days)
		assert.Equal(t, tt.score, f.Score, "days=%d", tt.days)
		assert.Equal(t, tt.impact, f.Impact, "days=%d", tt.days)
	}
}

func TestRegistrationRateFactor(t *testing.T) {
	tests := []struct {
		name   string
		event  domain.Event
		score  float64
		impact domain.FactorImpact
	}{
		{"no capacity", domain.Event{RegisteredCount: 5}, 0, domain.ImpactLow},
		{"forty is low", domain.Event{Capacity: 10, RegisteredCount: 4}, 40, domain.ImpactLow},
		{"above forty is medium", domain.Event{Capacity: 100, RegisteredCount: 41}, 41, domain.ImpactMedium},
		{"seventy is medium", domain.Event{Capacity: 10, RegisteredCount: 7}, 70, domain.ImpactMedium},
		{"above seventy is high", domain.Event{Capacity: 10, RegisteredCount: 8}, 80, domain.ImpactHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := registrationRateFactor(tt.event)
			assert.InDelta(t, tt.score, f.Score, 1e-9)
			assert.Equal(t, tt.impact, f.Impact)
		})
	}
}

func TestInterestAndVisibilityCaps(t *testing.T) {
	assert.Equal(t, 100.0, interestFactor(80).Score)
	assert.Equal(t, domain.ImpactHigh, interestFactor(26).Impact)
	assert.Equal(t, domain.ImpactMedium, interestFactor(25).Impact)

	assert.Equal(t, 100.0, visibilityFactor(5000).Score)
	assert.Equal(t, 9.0, visibilityFactor(99).Score)
	assert.Equal(t, domain.ImpactHigh, visibilityFactor(510).Impact)
}

func TestPriceFactor_Paid(t *testing.T) {
	f := priceFactor(false)

	assert.Equal(t, domain.FactorNeutral, f.Type)
	assert.Equal(t, domain.ImpactMedium, f.Impact)
	assert.Equal(t, 50.0, f.Score)
	assert.Equal(t, "Paid event", f.Description)
}

func TestPromotionFactor(t *testing.T) {
	tests := []struct {
		featured, trending bool
		score              float64
		impact             domain.FactorImpact
		description        string
	}{
		{false, false, 0, domain.ImpactLow, "Standard listing"},
		{true, false, 50, domain.ImpactMedium, "Featured event"},
		{false, true, 50, domain.ImpactMedium, "Trending event"},
		{true, true, 100, domain.ImpactHigh, "Featured event"},
	}

	for _, tt := range tests {
		f := promotionFactor(tt.featured, tt.trending)
		assert.Equal(t, tt.score, f.Score)
		assert.Equal(t, tt.impact, f.Impact)
		assert.Equal(t, tt.description, f.Description)
		assert.Equal(t, domain.FactorPositive, f.Type)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	var total float64
	for _, f := range CalculateFactors(scenarioEvent(), now) {
		total += f.Weight
	}

	assert.InDelta(t, 1.0, total, 1e-9)
}
