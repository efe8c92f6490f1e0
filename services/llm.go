package services

import (
	"context"
	"fmt"
	"strings"
)

// Prompt is one generation request. WebSearch asks the backend to
// consult live web search before answering; backends without search
// support ignore it.
type Prompt struct {
	System    string
	User      string
	WebSearch bool
}

// SchemaField declares one named string field of a constrained reply.
type SchemaField struct {
	Name        string
	Description string
}

// ResponseSchema declares the output shape for a structured generation
// request, independent of any particular backend SDK. Backends without
// native constrained output render it into prompt instructions.
type ResponseSchema struct {
	Fields   []SchemaField
	Required []string
}

// Instructions renders the schema as reply-format instructions.
func (s *ResponseSchema) Instructions() string {
	var sb strings.Builder
	sb.WriteString("Reply with a single JSON object and nothing else. All fields are strings:\n")
	for _, f := range s.Fields {
		if f.Description != "" {
			sb.WriteString(fmt.Sprintf("- %q: %s\n", f.Name, f.Description))
		} else {
			sb.WriteString(fmt.Sprintf("- %q\n", f.Name))
		}
	}
	if len(s.Required) > 0 {
		sb.WriteString("Required fields: " + strings.Join(s.Required, ", ") + ".\n")
	}
	sb.WriteString("Do not wrap the JSON in markdown fences.")
	return sb.String()
}

// LLMService defines the interface for generative AI operations
type LLMService interface {
	InvokeWithPrompt(ctx context.Context, p Prompt) (string, error)
	InvokeStructured(ctx context.Context, p Prompt, schema *ResponseSchema, result any) error
}

// extractJSON strips markdown fences some models wrap around JSON
// replies despite instructions.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}

// categorizeAPIError categorizes an error for metrics purposes
func categorizeAPIError(err error) string {
	if err == nil {
		return "none"
	}
	errStr := err.Error()
	switch {
	case containsAny(errStr, "timeout", "deadline"):
		return "timeout"
	case containsAny(errStr, "rate limit", "429"):
		return "rate_limit"
	case containsAny(errStr, "unauthorized", "401"):
		return "auth_error"
	case containsAny(errStr, "connection", "network"):
		return "connection_error"
	default:
		return "unknown"
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
