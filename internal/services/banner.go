package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/webp"

	"github.com/yungbote/coursegen-backend/internal/platform/imagegen"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

const (
	bannerWidth  = 1280
	bannerHeight = 720
)

// ObjectStore persists generated media and returns a URL browsers can load.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type BannerService interface {
	// CreateBanner returns a banner URL for the course, or "" when none could
	// be produced. It never fails the caller.
	CreateBanner(ctx context.Context, cid, title, prompt string) string
}

type BannerOptions struct {
	FallbackEnabled bool
}

type bannerService struct {
	log      *logger.Logger
	images   imagegen.Generator
	store    ObjectStore
	opts     BannerOptions
	fontData *truetype.Font
	now      func() time.Time
}

// NewBannerService accepts a nil generator or store; the matching step is skipped.
func NewBannerService(log *logger.Logger, images imagegen.Generator, store ObjectStore, opts BannerOptions) (BannerService, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse banner font: %w", err)
	}
	return &bannerService{
		log:      log.With("service", "BannerService"),
		images:   images,
		store:    store,
		opts:     opts,
		fontData: f,
		now:      time.Now,
	}, nil
}

func (bs *bannerService) CreateBanner(ctx context.Context, cid, title, prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt != "" && bs.images != nil {
		url, err := bs.fromProvider(ctx, cid, prompt)
		if err == nil && url != "" {
			return url
		}
		if err != nil {
			bs.log.Warn("Banner generation failed", "cid", cid, "provider", bs.images.Provider(), "error", err)
		}
	}
	if !bs.opts.FallbackEnabled || bs.store == nil {
		return ""
	}
	url, err := bs.fallback(ctx, cid, title)
	if err != nil {
		bs.log.Warn("Fallback banner failed", "cid", cid, "error", err)
		return ""
	}
	return url
}

func (bs *bannerService) fromProvider(ctx context.Context, cid, prompt string) (string, error) {
	img, err := bs.images.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if len(img.Bytes) > 0 && bs.store != nil {
		png, err := fitBanner(img.Bytes)
		if err != nil {
			if img.URL != "" {
				bs.log.Warn("Provider image undecodable; keeping provider URL", "cid", cid, "error", err)
				return img.URL, nil
			}
			return "", err
		}
		return bs.store.Put(ctx, bs.key(cid), png, "image/png")
	}
	return img.URL, nil
}

func (bs *bannerService) fallback(ctx context.Context, cid, title string) (string, error) {
	png, err := bs.renderFallback(title)
	if err != nil {
		return "", err
	}
	return bs.store.Put(ctx, bs.key(cid), png, "image/png")
}

func (bs *bannerService) key(cid string) string {
	return fmt.Sprintf("banners/%s/%d.png", cid, bs.now().Unix())
}

// fitBanner center-crops raw to the banner aspect and re-encodes as PNG.
func fitBanner(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	dst := imaging.Fill(src, bannerWidth, bannerHeight, imaging.Center, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

var bannerPalette = [][2]color.NRGBA{
	{{0x3B, 0x82, 0xF6, 0xFF}, {0x8B, 0x5C, 0xF6, 0xFF}},
	{{0x10, 0xB9, 0x81, 0xFF}, {0x06, 0x5F, 0x46, 0xFF}},
	{{0xF5, 0x9E, 0x0B, 0xFF}, {0xDC, 0x26, 0x26, 0xFF}},
	{{0x0E, 0xA5, 0xE9, 0xFF}, {0x1E, 0x3A, 0x8A, 0xFF}},
}

func (bs *bannerService) renderFallback(title string) ([]byte, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled course"
	}
	pair := bannerPalette[paletteIndex(title)]

	dc := gg.NewContext(bannerWidth, bannerHeight)
	grad := gg.NewLinearGradient(0, 0, bannerWidth, bannerHeight)
	grad.AddColorStop(0, pair[0])
	grad.AddColorStop(1, pair[1])
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, bannerWidth, bannerHeight)
	dc.Fill()

	dc.SetFontFace(truetype.NewFace(bs.fontData, &truetype.Options{
		Size:    72,
		DPI:     72,
		Hinting: font.HintingNone,
	}))
	dc.SetColor(color.White)
	dc.DrawStringWrapped(title, bannerWidth/2, bannerHeight/2, 0.5, 0.5, bannerWidth-160, 1.3, gg.AlignCenter)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func paletteIndex(s string) int {
	h := 0
	for _, r := range s {
		h = (h*31 + int(r)) & 0x7fffffff
	}
	return h % len(bannerPalette)
}
