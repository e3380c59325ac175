package domain

import "time"

type PredictionLevel string

const (
	LevelHigh   PredictionLevel = "high"
	LevelMedium PredictionLevel = "medium"
	LevelLow    PredictionLevel = "low"
)

type PredictionTrend string

const (
	TrendUp     PredictionTrend = "up"
	TrendDown   PredictionTrend = "down"
	TrendStable PredictionTrend = "stable"
)

type FactorType string

const (
	FactorPositive FactorType = "positive"
	FactorNegative FactorType = "negative"
	FactorNeutral  FactorType = "neutral"
)

type FactorImpact string

const (
	ImpactHigh   FactorImpact = "high"
	ImpactMedium FactorImpact = "medium"
	ImpactLow    FactorImpact = "low"
)

type PredictionFactor struct {
	Name        string       `json:"name"`
	Type        FactorType   `json:"type"`
	Impact      FactorImpact `json:"impact"`
	Weight      float64      `json:"weight"`
	Score       float64      `json:"score"`
	Description string       `json:"description"`
}

// Prediction is an immutable snapshot. A recomputation always produces a new one.
type Prediction struct {
	ID                uint               `json:"id"`
	EventID           uint               `json:"event_id"`
	Probability       int                `json:"probability"`
	Level             PredictionLevel    `json:"level"`
	Confidence        int                `json:"confidence"`
	EstimatedMin      int                `json:"estimated_min"`
	EstimatedMax      int                `json:"estimated_max"`
	EstimatedExpected int                `json:"estimated_expected"`
	Trend             PredictionTrend    `json:"trend"`
	TrendChange       float64            `json:"trend_change"`
	CalculatedAt      time.Time          `json:"calculated_at"`
	Factors           []PredictionFactor `json:"factors"`
}
