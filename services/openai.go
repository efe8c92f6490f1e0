package services

import (
	"context"
	"encoding/json"
	"fmt"

	appconfig "bond-terminal/config"
	"bond-terminal/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// openaiClient defines the interface for OpenAI API calls (for testing)
type openaiClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// openaiClientWrapper wraps the openai.Client to implement our interface
type openaiClientWrapper struct {
	client openai.Client
}

func (w *openaiClientWrapper) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return w.client.Chat.Completions.New(ctx, params)
}

// OpenAIService handles communication with the OpenAI API
type OpenAIService struct {
	client      openaiClient
	model       string
	searchModel string
	maxTokens   int
}

// NewOpenAIService creates a new OpenAIService instance. The API key is
// a fatal startup requirement, not a per-request fault.
func NewOpenAIService(cfg *appconfig.Config) (*OpenAIService, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAI.APIKey))

	return &OpenAIService{
		client:      &openaiClientWrapper{client: client},
		model:       cfg.OpenAI.Model,
		searchModel: cfg.OpenAI.SearchModel,
		maxTokens:   cfg.OpenAI.MaxTokens,
	}, nil
}

// newOpenAIServiceWithClient creates an OpenAIService with a custom client (for testing)
func newOpenAIServiceWithClient(client openaiClient, model, searchModel string, maxTokens int) *OpenAIService {
	return &OpenAIService{
		client:      client,
		model:       model,
		searchModel: searchModel,
		maxTokens:   maxTokens,
	}
}

// InvokeWithPrompt sends a prompt to OpenAI and returns the response
// text. Web-grounded prompts are routed to the search-enabled model
// variant.
func (s *OpenAIService) InvokeWithPrompt(ctx context.Context, p Prompt) (string, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerOpenAI, "invoke")
	timer := metrics.NewTimer()

	result, err := WithCircuitBreaker(ctx, BreakerOpenAI, func() (string, error) {
		model := s.model
		if p.WebSearch {
			model = s.searchModel
		}

		params := openai.ChatCompletionNewParams{
			Model:     shared.ChatModel(model),
			MaxTokens: openai.Int(int64(s.maxTokens)),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(p.System),
				openai.UserMessage(p.User),
			},
		}

		completion, err := s.client.CreateChatCompletion(ctx, params)
		if err != nil {
			return "", fmt.Errorf("failed to invoke OpenAI: %w", err)
		}

		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("empty response from OpenAI")
		}

		return completion.Choices[0].Message.Content, nil
	})

	timer.ObserveExternalAPI(BreakerOpenAI, "invoke")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerOpenAI, "invoke", categorizeAPIError(err))
	}
	return result, err
}

// InvokeStructured sends a schema-constrained prompt and parses the JSON
// response into the provided struct
func (s *OpenAIService) InvokeStructured(ctx context.Context, p Prompt, schema *ResponseSchema, result any) error {
	if schema != nil {
		p.System = p.System + "\n\n" + schema.Instructions()
	}

	text, err := s.InvokeWithPrompt(ctx, p)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(extractJSON(text)), result); err != nil {
		return fmt.Errorf("failed to parse response as JSON: %w", err)
	}

	return nil
}

var _ LLMService = (*OpenAIService)(nil)
