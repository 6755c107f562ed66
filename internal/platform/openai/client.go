package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/httpx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/promptstyle"
)

// Client is the chat-completion client shared by the generation services.
// Any OpenAI-compatible endpoint works (OpenAI, Groq, OpenRouter).
type Client interface {
	// GenerateJSON asks for a single JSON object. With structured output
	// enabled the schema is sent as a strict json_schema response format;
	// otherwise json_object mode is used. The raw model text is returned so
	// callers can run it through ExtractJSONObject.
	GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (string, error)

	GenerateText(ctx context.Context, system, user string) (string, error)
}

type Config struct {
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float32
	Timeout          time.Duration
	MaxRetries       int
	RetryBackoff     time.Duration
	StructuredOutput bool
}

var ErrMissingAPIKey = errors.New("missing OPENAI_API_KEY")

type client struct {
	log         *logger.Logger
	api         *goopenai.Client
	model       string
	temperature float32
	timeout     time.Duration
	maxRetries  int
	backoff     time.Duration
	structured  bool
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	apiCfg := goopenai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		apiCfg.BaseURL = base
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4oMini
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 180 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	return &client{
		log:         log.With("client", "OpenAIClient", "model", cfg.Model),
		api:         goopenai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		maxRetries:  cfg.MaxRetries,
		backoff:     cfg.RetryBackoff,
		structured:  cfg.StructuredOutput,
	}, nil
}

func (c *client) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (string, error) {
	if schemaName == "" {
		return "", errors.New("schemaName required")
	}
	req := c.request(promptstyle.ApplySystem(system, "json"), user)
	if c.structured && schema != nil {
		raw, err := json.Marshal(schema)
		if err != nil {
			return "", fmt.Errorf("marshal schema %s: %w", schemaName, err)
		}
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: json.RawMessage(raw),
				Strict: true,
			},
		}
	} else {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return c.complete(ctx, "openai.generate_json", req)
}

func (c *client) GenerateText(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, "openai.generate_text", c.request(promptstyle.ApplySystem(system, "text"), user))
}

func (c *client) request(system, user string) goopenai.ChatCompletionRequest {
	return goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
	}
}

func (c *client) complete(ctx context.Context, spanName string, req goopenai.ChatCompletionRequest) (text string, err error) {
	ctx, span := observability.StartSpan(ctx, spanName, attribute.String("llm.model", c.model))
	defer func() { observability.EndSpan(span, err) }()

	start := time.Now()
	backoff := c.backoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		resp, callErr := c.once(ctx, req)
		if callErr == nil {
			observability.ObserveLLMRequest(c.model, "ok", time.Since(start), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
			span.SetAttributes(attribute.Int("llm.attempts", attempt+1))
			return firstChoice(resp)
		}

		retryable := httpx.IsRetryableError(callErr)
		if !retryable || attempt == c.maxRetries {
			observability.ObserveLLMRequest(c.model, statusLabel(callErr), time.Since(start), 0, 0)
			return "", callErr
		}

		sleepFor := httpx.JitterSleep(backoff)
		c.log.Warn("OpenAI request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", callErr.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return "", err
		}
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return "", fmt.Errorf("unreachable retry loop")
}

func (c *client) once(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.api.CreateChatCompletion(callCtx, req)
	if err != nil {
		return resp, wrapAPIError(err)
	}
	return resp, nil
}

func firstChoice(resp goopenai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", msg.Refusal)
	}
	if strings.TrimSpace(msg.Content) == "" {
		return "", errors.New("model returned empty content")
	}
	return msg.Content, nil
}

// statusError exposes the upstream HTTP status to httpx.IsRetryableError.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string       { return e.err.Error() }
func (e *statusError) Unwrap() error       { return e.err }
func (e *statusError) HTTPStatusCode() int { return e.status }

func wrapAPIError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &statusError{status: apiErr.HTTPStatusCode, err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &statusError{status: reqErr.HTTPStatusCode, err: err}
	}
	return err
}

func statusLabel(err error) string {
	var se *statusError
	if errors.As(err, &se) {
		return strconv.Itoa(se.status)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}
