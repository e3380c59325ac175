package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/metrics"
)

const (
	InsightUnavailable = "Prediction analysis is currently unavailable."

	insightPrompt = "Based on the following event data, provide a brief insight (2-3 sentences) about the expected attendance:\n"
)

type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type InsightEventReader interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type InsightService struct {
	events      InsightEventReader
	predictions *PredictionService
	generator   TextGenerator
	timeout     time.Duration
}

func NewInsightService(events InsightEventReader, predictions *PredictionService, generator TextGenerator, timeout time.Duration) *InsightService {
	return &InsightService{
		events:      events,
		predictions: predictions,
		generator:   generator,
		timeout:     timeout,
	}
}

// DescribePrediction narrates the latest prediction of the event. It never
// fails: any error is logged and answered with InsightUnavailable.
func (s *InsightService) DescribePrediction(ctx context.Context, eventID uint) string {
	text, err := s.describe(ctx, eventID)
	if err != nil {
		metrics.InsightFallbacks.Inc()
		zap.L().Error("failed to describe prediction", zap.Uint("event_id", eventID), zap.Error(err))

		return InsightUnavailable
	}

	return text
}

func (s *InsightService) describe(ctx context.Context, eventID uint) (string, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("s.events.FindByID -> %w", err)
	}

	var latest *domain.Prediction
	p, found, err := s.predictions.GetLatestPrediction(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("s.predictions.GetLatestPrediction -> %w", err)
	}
	if found {
		latest = &p
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(ctx, insightPrompt+InsightContext(event, latest))
	if err != nil {
		return "", fmt.Errorf("s.generator.Generate -> %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("s.generator.Generate -> empty text")
	}

	return text, nil
}

// InsightContext renders the plain-text facts handed to the text generator.
func InsightContext(event domain.Event, latest *domain.Prediction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Event: %s\n", event.Title)
	fmt.Fprintf(&b, "Category: %s\n", event.Category)
	fmt.Fprintf(&b, "Type: %s\n", event.Type)
	fmt.Fprintf(&b, "Capacity: %d\n", event.Capacity)
	fmt.Fprintf(&b, "Registered: %d\n", event.RegisteredCount)
	fmt.Fprintf(&b, "Interested: %d\n", event.InterestedCount)
	fmt.Fprintf(&b, "Views: %d\n", event.ViewsCount)
	fmt.Fprintf(&b, "Is Free: %t\n", event.IsFree)
	fmt.Fprintf(&b, "Start Date: %s\n", event.StartDate.Format(time.DateOnly))

	if latest != nil {
		fmt.Fprintf(&b, "Predicted Probability: %d%%\n", latest.Probability)
		fmt.Fprintf(&b, "Prediction Level: %s\n", latest.Level)
	}

	return b.String()
}
