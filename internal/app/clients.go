package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/coursegen-backend/internal/platform/imagegen"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/openai"
	"github.com/yungbote/coursegen-backend/internal/platform/youtube"
	"github.com/yungbote/coursegen-backend/internal/realtime/bus"
)

type Clients struct {
	LLM     openai.Client
	Videos  youtube.Client
	Images  imagegen.Generator
	SSEBus  bus.Bus
	Banners BannerStorage
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Openai
	llm, err := openai.NewClient(log, openai.Config{
		APIKey:           cfg.OpenAI.APIKey,
		BaseURL:          cfg.OpenAI.BaseURL,
		Model:            cfg.OpenAI.Model,
		Temperature:      cfg.OpenAI.Temperature,
		Timeout:          time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
		MaxRetries:       cfg.OpenAI.MaxRetries,
		StructuredOutput: cfg.OpenAI.StructuredOutput,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}
	out := Clients{LLM: llm}

	// YouTube
	if strings.TrimSpace(cfg.YouTube.APIKey) != "" {
		videos, err := youtube.NewClient(ctx, log, youtube.Config{
			APIKey:     cfg.YouTube.APIKey,
			MaxResults: cfg.YouTube.MaxResults,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init youtube client: %w", err)
		}
		out.Videos = videos
	} else {
		log.Warn("YOUTUBE_API_KEY not set; chapters will have no videos")
	}

	// Images
	if strings.TrimSpace(cfg.Image.APIKey) != "" {
		images, err := imagegen.New(log, imagegen.Config{
			Provider:      cfg.Image.Provider,
			APIKey:        cfg.Image.APIKey,
			URL:           cfg.Image.URL,
			Model:         cfg.Image.Model,
			OpenAIBaseURL: cfg.OpenAI.BaseURL,
			OpenAISize:    cfg.Image.Size,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init image client: %w", err)
		}
		out.Images = images
	} else {
		log.Warn("IMAGE_API_KEY not set; banners use the fallback renderer")
	}

	// Redis
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		b, err := bus.NewRedisBus(ctx, log, bus.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			Channel:  cfg.Redis.Channel,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		out.SSEBus = b
	}

	// Object storage
	banners, err := resolveBannerStorage(ctx, log, cfg)
	if err != nil {
		_ = out.Close()
		return Clients{}, err
	}
	out.Banners = banners

	return out, nil
}

func (c Clients) Close() error {
	var errs []error
	if c.SSEBus != nil {
		errs = append(errs, c.SSEBus.Close())
	}
	errs = append(errs, c.Banners.Close())
	return errors.Join(errs...)
}
