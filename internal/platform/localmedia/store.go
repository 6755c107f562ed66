package localmedia

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

var ErrInvalidKey = errors.New("invalid object key")

// Store writes objects under a directory that the HTTP server exposes at URLPrefix.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
	Dir() string
}

type store struct {
	log       *logger.Logger
	dir       string
	urlPrefix string
}

func NewStore(log *logger.Logger, dir, urlPrefix string) (Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("local media dir required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve local media dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create local media dir: %w", err)
	}
	urlPrefix = "/" + strings.Trim(strings.TrimSpace(urlPrefix), "/")
	if urlPrefix == "/" {
		urlPrefix = "/media"
	}
	return &store{
		log:       log.With("service", "LocalMediaStore"),
		dir:       abs,
		urlPrefix: urlPrefix,
	}, nil
}

func (s *store) Dir() string { return s.dir }

func (s *store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("commit object: %w", err)
	}
	s.log.Debug("Object stored", "key", clean, "bytes", len(data), "content_type", contentType)
	return s.PublicURL(clean), nil
}

func (s *store) PublicURL(key string) string {
	clean, err := cleanKey(key)
	if err != nil {
		return ""
	}
	return s.urlPrefix + "/" + clean
}

// cleanKey rejects keys that would escape the media dir.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	clean := strings.TrimLeft(path.Clean("/"+key), "/")
	if clean == "" || clean == "." {
		return "", ErrInvalidKey
	}
	return clean, nil
}
