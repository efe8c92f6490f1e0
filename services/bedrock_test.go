package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	appconfig "bond-terminal/config"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// mockBedrockClient implements bedrockClient for testing
type mockBedrockClient struct {
	invokeFunc func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

func (m *mockBedrockClient) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	return m.invokeFunc(ctx, params, optFns...)
}

func newTestBedrockService(client bedrockClient) *BedrockService {
	return &BedrockService{
		client:    client,
		model:     "anthropic.claude-3-sonnet",
		maxTokens: 4096,
	}
}

func claudeOutput(t *testing.T, text string) *bedrockruntime.InvokeModelOutput {
	t.Helper()
	body, err := json.Marshal(claudeResponse{
		Content: []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{{Type: "text", Text: text}},
		StopReason: "end_turn",
	})
	if err != nil {
		t.Fatalf("marshal claude response: %v", err)
	}
	return &bedrockruntime.InvokeModelOutput{Body: body}
}

func TestNewBedrockService_MissingConfig(t *testing.T) {
	cfg := appconfig.NewTestConfig()

	_, err := NewBedrockService(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error when region and model are missing")
	}
	if !strings.Contains(err.Error(), "AWS_REGION and BEDROCK_MODEL_ID are required") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestBedrockInvokeWithPrompt_Success(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	var gotRequest claudeRequest
	mockClient := &mockBedrockClient{
		invokeFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
			if err := json.Unmarshal(params.Body, &gotRequest); err != nil {
				t.Fatalf("unmarshal request body: %v", err)
			}
			return claudeOutput(t, "Desk commentary."), nil
		},
	}

	service := newTestBedrockService(mockClient)

	result, err := service.InvokeWithPrompt(context.Background(), Prompt{System: "You are a trader", User: "Comment"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Desk commentary." {
		t.Errorf("unexpected result: %s", result)
	}
	if gotRequest.AnthropicVersion != anthropicVersion {
		t.Errorf("anthropic_version = %s, want %s", gotRequest.AnthropicVersion, anthropicVersion)
	}
	if gotRequest.System != "You are a trader" {
		t.Errorf("system = %s, want the system prompt", gotRequest.System)
	}
	if len(gotRequest.Messages) != 1 || gotRequest.Messages[0].Content != "Comment" {
		t.Errorf("unexpected messages: %+v", gotRequest.Messages)
	}
}

func TestBedrockInvokeWithPrompt_WebSearchIgnored(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockBedrockClient{
		invokeFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
			return claudeOutput(t, "plain generation"), nil
		},
	}

	service := newTestBedrockService(mockClient)

	result, err := service.InvokeWithPrompt(context.Background(), Prompt{User: "query", WebSearch: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "plain generation" {
		t.Errorf("unexpected result: %s", result)
	}
}

func TestBedrockInvokeWithPrompt_APIError(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockBedrockClient{
		invokeFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
			return nil, errors.New("API error")
		},
	}

	service := newTestBedrockService(mockClient)

	_, err := service.InvokeWithPrompt(context.Background(), Prompt{User: "query"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed to invoke model") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestBedrockInvokeWithPrompt_EmptyContent(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockBedrockClient{
		invokeFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
			return &bedrockruntime.InvokeModelOutput{Body: []byte(`{"content": []}`)}, nil
		},
	}

	service := newTestBedrockService(mockClient)

	_, err := service.InvokeWithPrompt(context.Background(), Prompt{User: "query"})
	if err == nil {
		t.Fatal("expected error for empty content")
	}
	if !strings.Contains(err.Error(), "empty response from model") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestBedrockInvokeStructured_Success(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockBedrockClient{
		invokeFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
			return claudeOutput(t, `{"debtRatio": "45.2"}`), nil
		},
	}

	service := newTestBedrockService(mockClient)

	var result map[string]string
	if err := service.InvokeStructured(context.Background(), Prompt{User: "extract"}, nil, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["debtRatio"] != "45.2" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestBedrockInvokeStructured_InvalidJSON(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockBedrockClient{
		invokeFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
			return claudeOutput(t, "not valid json"), nil
		},
	}

	service := newTestBedrockService(mockClient)

	var result map[string]interface{}
	err := service.InvokeStructured(context.Background(), Prompt{User: "extract"}, nil, &result)
	if err == nil {
		t.Fatal("expected error for invalid structured JSON")
	}
}

func TestBedrockService_ImplementsLLMService(t *testing.T) {
	var _ LLMService = &BedrockService{}
}
