package response

import (
	"time"

	"github.com/predictifylabs/predictify-api/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type RegisteredResponse struct {
	Registered bool `json:"registered"`
}

type InsightResponse struct {
	EventID uint   `json:"event_id"`
	Insight string `json:"insight"`
}

type GenerateTextResponse struct {
	GeneratedText string    `json:"generated_text"`
	Model         string    `json:"model"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// FeedMessage is pushed to prediction feed subscribers. The first message of
// every connection has type "subscribed" and no prediction.
type FeedMessage struct {
	Type       string             `json:"type"`
	EventID    uint               `json:"event_id"`
	Prediction *domain.Prediction `json:"prediction,omitempty"`
}
