package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const eventDescriptionPrompt = `You are an expert assistant in tech communities and programming events.
Generate an attractive and professional description for a technology event with the following context:

%s

The description should:
- Be concise (maximum 3 paragraphs)
- Include benefits for attendees
- Have a professional yet approachable tone
- Be in English

Respond ONLY with the description, without additional explanations.
`

// AIService exposes the text generator directly. Unlike InsightService its
// failures reach the caller.
type AIService struct {
	generator TextGenerator
}

func NewAIService(generator TextGenerator) *AIService {
	return &AIService{
		generator: generator,
	}
}

func (s *AIService) GenerateText(ctx context.Context, prompt string) (string, error) {
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("s.generator.Generate -> %w", err)
	}

	return text, nil
}

func (s *AIService) GenerateEventDescription(ctx context.Context, eventContext string) (string, error) {
	zap.L().Info("generating event description", zap.Int("context_length", len(eventContext)))

	text, err := s.generator.Generate(ctx, fmt.Sprintf(eventDescriptionPrompt, eventContext))
	if err != nil {
		return "", fmt.Errorf("s.generator.Generate -> %w", err)
	}

	return text, nil
}
