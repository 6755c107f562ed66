package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type openAIGenerator struct {
	log   *logger.Logger
	api   *goopenai.Client
	model string
	size  string
}

func newOpenAIGenerator(log *logger.Logger, cfg Config) *openAIGenerator {
	apiCfg := goopenai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if base := strings.TrimRight(strings.TrimSpace(cfg.OpenAIBaseURL), "/"); base != "" {
		apiCfg.BaseURL = base
	}
	apiCfg.HTTPClient = tracedHTTPClient(cfg.Timeout)
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = goopenai.CreateImageModelDallE3
	}
	size := strings.TrimSpace(cfg.OpenAISize)
	if size == "" {
		size = goopenai.CreateImageSize1792x1024
	}
	return &openAIGenerator{
		log:   log.With("client", "ImageOpenAIGenerator"),
		api:   goopenai.NewClientWithConfig(apiCfg),
		model: model,
		size:  size,
	}
}

func (g *openAIGenerator) Provider() string { return ProviderOpenAI }

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (img Image, err error) {
	start := time.Now()
	defer func() { observability.ObserveImageGeneration(ProviderOpenAI, observability.StatusLabel(err), time.Since(start)) }()

	resp, err := g.api.CreateImage(ctx, goopenai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		Size:           g.size,
		N:              1,
		ResponseFormat: goopenai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return Image{}, fmt.Errorf("openai image: %w", err)
	}
	if len(resp.Data) == 0 {
		return Image{}, errors.New("openai image: empty response")
	}
	d := resp.Data[0]
	if d.B64JSON != "" {
		b, err := base64.StdEncoding.DecodeString(d.B64JSON)
		if err != nil {
			return Image{}, fmt.Errorf("openai image: decode b64: %w", err)
		}
		return Image{Bytes: b, MimeType: "image/png", URL: d.URL}, nil
	}
	if d.URL == "" {
		return Image{}, errors.New("openai image: no data")
	}
	return Image{URL: d.URL}, nil
}
