package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIService_GenerateEventDescription(t *testing.T) {
	gen := &stubGenerator{text: "A hands-on Go workshop."}
	svc := NewAIService(gen)

	text, err := svc.GenerateEventDescription(context.Background(), "Go workshop, 30 seats")
	require.NoError(t, err)
	assert.Equal(t, "A hands-on Go workshop.", text)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "\nGo workshop, 30 seats\n")
	assert.Contains(t, gen.prompts[0], "Respond ONLY with the description")
}

func TestAIService_GenerateText_Error(t *testing.T) {
	svc := NewAIService(&stubGenerator{err: errors.New("unavailable")})

	_, err := svc.GenerateText(context.Background(), "hello")
	assert.Error(t, err)
}
