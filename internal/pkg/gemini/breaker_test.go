package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	calls int
	text  string
	err   error
}

func (s *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestBreakerGenerator_PassesThrough(t *testing.T) {
	stub := &stubGenerator{text: "ok"}
	b := NewBreakerGenerator("test-pass", stub)

	text, err := b.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerGenerator_OpensAfterFailures(t *testing.T) {
	stub := &stubGenerator{err: errors.New("boom")}
	b := NewBreakerGenerator("test-open", stub)

	for i := 0; i < 10; i++ {
		_, err := b.Generate(context.Background(), "prompt")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 10, stub.calls)
}
