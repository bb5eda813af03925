package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	MistralChatName    = "mistral"
	MistralChatModel   = "mistral-large-latest"
	mistralChatTimeout = 120 * time.Second
)

// MistralChatConfig holds configuration for the Mistral chat client.
type MistralChatConfig struct {
	APIKey     string
	Model      string
	BaseURL    string        // Optional (tests)
	Timeout    time.Duration // HTTP timeout
	MaxRetries int           // Retry attempts for SDK transport
	HTTPClient *http.Client  // Optional (tests)
}

// MistralChatClient implements LLMClient using the official OpenAI SDK
// pointed at Mistral's OpenAI-compatible chat completion endpoint.
type MistralChatClient struct {
	defaultModel string
	client       openai.Client
}

// NewMistralChatClient creates a new Mistral chat client.
func NewMistralChatClient(cfg MistralChatConfig) *MistralChatClient {
	if cfg.Model == "" {
		cfg.Model = MistralChatModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = MistralBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = mistralChatTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	return &MistralChatClient{
		defaultModel: cfg.Model,
		client:       openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *MistralChatClient) Name() string {
	return MistralChatName
}

// Chat sends a chat completion request.
func (c *MistralChatClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in chat response")
	}

	return &ChatResult{
		Content:          completion.Choices[0].Message.Content,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
		ExecutionTime:    time.Since(start),
		Provider:         MistralChatName,
		ModelUsed:        completion.Model,
		RequestID:        requestID,
	}, nil
}

// Verify interface
var _ LLMClient = (*MistralChatClient)(nil)
