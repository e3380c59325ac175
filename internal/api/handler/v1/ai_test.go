package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictifylabs/predictify-api/internal/api/handler/v1/request"
	"github.com/predictifylabs/predictify-api/internal/api/handler/v1/response"
)

type fakeAIService struct {
	err         error
	lastContext string
}

func (f *fakeAIService) GenerateText(_ context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	return "echo: " + prompt, nil
}

func (f *fakeAIService) GenerateEventDescription(_ context.Context, eventContext string) (string, error) {
	f.lastContext = eventContext
	if f.err != nil {
		return "", f.err
	}

	return "A great event.", nil
}

func newAIRouter(svc *fakeAIService) http.Handler {
	h := NewAIHandler(svc, "gemini-1.5-flash")

	r := newTestRouter()
	r.POST("/ai/generate", h.HandleGenerateText)
	r.POST("/ai/generate/event-description", h.HandleGenerateEventDescription)

	return r
}

func TestAIHandler_HandleGenerateText(t *testing.T) {
	w := doRequest(t, newAIRouter(&fakeAIService{}), http.MethodPost, "/ai/generate", attendee,
		request.GenerateTextRequest{Prompt: "write a haiku about go"})
	require.Equal(t, http.StatusOK, w.Code)

	var body response.GenerateTextResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "echo: write a haiku about go", body.GeneratedText)
	assert.Equal(t, "gemini-1.5-flash", body.Model)
	assert.False(t, body.GeneratedAt.IsZero())
}

func TestAIHandler_HandleGenerateText_Validation(t *testing.T) {
	for _, prompt := range []string{"", "too short", strings.Repeat("x", 5001)} {
		w := doRequest(t, newAIRouter(&fakeAIService{}), http.MethodPost, "/ai/generate", attendee,
			request.GenerateTextRequest{Prompt: prompt})
		assert.Equal(t, http.StatusBadRequest, w.Code, "prompt of length %d", len(prompt))
	}
}

func TestAIHandler_UpstreamFailureIsBadGateway(t *testing.T) {
	svc := &fakeAIService{err: errors.New("circuit breaker is open")}

	w := doRequest(t, newAIRouter(svc), http.MethodPost, "/ai/generate", attendee,
		request.GenerateTextRequest{Prompt: "write a haiku about go"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doRequest(t, newAIRouter(svc), http.MethodPost, "/ai/generate/event-description", attendee,
		request.GenerateEventDescriptionRequest{EventTitle: "GopherCon"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "circuit breaker")
}

func TestAIHandler_HandleGenerateEventDescription(t *testing.T) {
	svc := &fakeAIService{}

	w := doRequest(t, newAIRouter(svc), http.MethodPost, "/ai/generate/event-description", attendee,
		request.GenerateEventDescriptionRequest{EventTitle: "GopherCon", Technologies: "Go, gRPC"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Title: GopherCon\nTechnologies: Go, gRPC", svc.lastContext)
}
