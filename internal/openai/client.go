package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the chat model used for recommendation generation
	DefaultModel = openai.GPT4oMini
	// DefaultMaxTokens bounds the model's output size
	DefaultMaxTokens = 2000
	// DefaultTemperature keeps suggestions varied but mostly grounded
	DefaultTemperature = 0.7
	// CallTimeout is the hard deadline for a single completion call
	CallTimeout = 5 * time.Second
)

// ErrNoAPIKey is returned when the OpenAI API key is not set
var ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")

// FailureKind classifies a failed completion call for the caller.
type FailureKind string

const (
	FailureTimeout     FailureKind = "TIMEOUT"
	FailureRateLimited FailureKind = "RATE_LIMITED"
	FailureServerError FailureKind = "SERVER_ERROR"
	FailureUnknown     FailureKind = "UNKNOWN"
)

// CallError is a classified transport failure from the completion API.
type CallError struct {
	Kind FailureKind
	Err  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("openai call failed (%s): %v", e.Kind, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Completion is the raw model output plus token-usage accounting.
type Completion struct {
	Content    string
	TokensUsed *int
}

// ChatAPI defines the interface for chat completion calls
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client wraps the OpenAI chat completion API behind a bounded-timeout call.
// It performs no retries; retry policy belongs to the caller.
type Client struct {
	api         ChatAPI
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = CallTimeout
	}
	return &Client{
		api:         openai.NewClient(cfg.APIKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
	}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// NewClientWithAPI creates a client around an injected ChatAPI, used in tests.
func NewClientWithAPI(api ChatAPI) *Client {
	return &Client{
		api:         api,
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		timeout:     CallTimeout,
	}
}

// Model returns the configured chat model name.
func (c *Client) Model() string {
	return c.model
}

// Complete runs one chat completion with the configured deadline and
// translates transport failures into classified CallErrors.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, &CallError{Kind: classify(err), Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &CallError{Kind: FailureUnknown, Err: errors.New("no completion choices returned")}
	}

	completion := &Completion{Content: resp.Choices[0].Message.Content}
	if resp.Usage.TotalTokens > 0 {
		tokens := resp.Usage.TotalTokens
		completion.TokensUsed = &tokens
	}
	return completion, nil
}

func classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return FailureRateLimited
		case apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			return FailureServerError
		}
	}

	return FailureUnknown
}
