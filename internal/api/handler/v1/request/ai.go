package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

type GenerateTextRequest struct {
	Prompt string `json:"prompt"`
}

func (req *GenerateTextRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Prompt, validation.Required, validation.Length(10, 5000)),
	)
}

type GenerateEventDescriptionRequest struct {
	EventTitle        string `json:"event_title"`
	EventType         string `json:"event_type"`
	Technologies      string `json:"technologies"`
	AdditionalContext string `json:"additional_context"`
}

func (req *GenerateEventDescriptionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventTitle, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.EventType, validation.Length(0, 100)),
		validation.Field(&req.Technologies, validation.Length(0, 500)),
		validation.Field(&req.AdditionalContext, validation.Length(0, 1000)),
	)
}

// EventContext renders the non-blank fields as labelled lines.
func (req *GenerateEventDescriptionRequest) EventContext() string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(req.EventTitle)

	optional := []struct{ label, value string }{
		{"Event type", req.EventType},
		{"Technologies", req.Technologies},
		{"Additional context", req.AdditionalContext},
	}
	for _, o := range optional {
		if strings.TrimSpace(o.value) == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(o.label)
		b.WriteString(": ")
		b.WriteString(o.value)
	}

	return b.String()
}
