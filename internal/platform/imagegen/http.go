package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/httpx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const defaultHTTPURL = "https://aigurulab.tech/api/generate-image"

type httpGenerator struct {
	log    *logger.Logger
	hc     *http.Client
	url    string
	apiKey string
	model  string
}

type httpRequest struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Input       string `json:"input"`
	Model       string `json:"model"`
	AspectRatio string `json:"aspectRatio"`
}

type httpResponse struct {
	Image string `json:"image"`
}

func newHTTPGenerator(log *logger.Logger, cfg Config) (*httpGenerator, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		u = defaultHTTPURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "flux"
	}
	return &httpGenerator{
		log:    log.With("client", "ImageHTTPGenerator"),
		hc:     tracedHTTPClient(cfg.Timeout),
		url:    u,
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  model,
	}, nil
}

func (g *httpGenerator) Provider() string { return ProviderHTTP }

func (g *httpGenerator) Generate(ctx context.Context, prompt string) (img Image, err error) {
	start := time.Now()
	defer func() { observability.ObserveImageGeneration(ProviderHTTP, observability.StatusLabel(err), time.Since(start)) }()

	body, err := json.Marshal(httpRequest{
		Width:       1024,
		Height:      1024,
		Input:       prompt,
		Model:       g.model,
		AspectRatio: "16:9",
	})
	if err != nil {
		return Image{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return Image{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.apiKey)

	resp, err := g.hc.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("image generation request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Image{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Image{}, &httpx.StatusError{Service: "image generation", Status: resp.StatusCode, Body: string(raw)}
	}
	var out httpResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Image{}, fmt.Errorf("decode image generation response: %w", err)
	}
	if strings.TrimSpace(out.Image) == "" {
		return Image{}, errors.New("image generation returned no image")
	}
	return Image{URL: strings.TrimSpace(out.Image)}, nil
}
