package youtube

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/observability"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// Client searches for videos that accompany a chapter.
type Client interface {
	Search(ctx context.Context, query string, max int) ([]domain.VideoRef, error)
}

type Config struct {
	APIKey     string
	MaxResults int
	Timeout    time.Duration
}

var ErrMissingAPIKey = errors.New("missing YOUTUBE_API_KEY")

type client struct {
	log        *logger.Logger
	svc        *yt.Service
	maxResults int
	timeout    time.Duration
}

// NewClient builds a YouTube Data API client. Extra options are appended
// after the API key (tests point WithEndpoint at an httptest server).
func NewClient(ctx context.Context, log *logger.Logger, cfg Config, extra ...option.ClientOption) (Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" && len(extra) == 0 {
		return nil, ErrMissingAPIKey
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	opts := []option.ClientOption{}
	if key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}
	opts = append(opts, extra...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &client{
		log:        log.With("client", "YouTubeClient"),
		svc:        svc,
		maxResults: cfg.MaxResults,
		timeout:    cfg.Timeout,
	}, nil
}

func (c *client) Search(ctx context.Context, query string, max int) (out []domain.VideoRef, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.VideoRef{}, nil
	}
	if max <= 0 {
		max = c.maxResults
	}

	ctx, span := observability.StartSpan(ctx, "youtube.search", attribute.String("youtube.query", query))
	start := time.Now()
	defer func() {
		observability.ObserveVideoSearch(observability.StatusLabel(err), time.Since(start))
		observability.EndSpan(span, err)
	}()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(max)).
		Context(callCtx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, fmt.Errorf("youtube search %d: %s", gerr.Code, gerr.Message)
		}
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	out = make([]domain.VideoRef, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		title := ""
		if item.Snippet != nil {
			title = html.UnescapeString(item.Snippet.Title)
		}
		out = append(out, domain.VideoRef{VideoID: item.Id.VideoId, Title: title})
	}
	c.log.Debug("YouTube search complete", "query", query, "results", len(out))
	return out, nil
}
