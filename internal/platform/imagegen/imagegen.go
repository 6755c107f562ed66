package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// Image is a generated raster. Providers fill URL, Bytes, or both.
type Image struct {
	URL      string
	Bytes    []byte
	MimeType string
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (Image, error)
	Provider() string
}

const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
)

type Config struct {
	Provider string
	APIKey   string
	// URL is the generation endpoint for the http provider.
	URL     string
	Model   string
	Timeout time.Duration

	// OpenAIBaseURL and OpenAISize apply to the openai provider.
	OpenAIBaseURL string
	OpenAISize    string
}

var ErrMissingAPIKey = errors.New("missing IMAGE_API_KEY")

func New(log *logger.Logger, cfg Config) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderHTTP:
		return newHTTPGenerator(log, cfg)
	case ProviderOpenAI:
		return newOpenAIGenerator(log, cfg), nil
	default:
		return nil, fmt.Errorf("unsupported IMAGE_PROVIDER %q", cfg.Provider)
	}
}

func tracedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
