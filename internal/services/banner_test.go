package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/platform/imagegen"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestBanner(t *testing.T, images imagegen.Generator, store ObjectStore, fallback bool) *bannerService {
	t.Helper()
	svc, err := NewBannerService(logger.NewNop(), images, store, BannerOptions{FallbackEnabled: fallback})
	require.NoError(t, err)
	bs := svc.(*bannerService)
	bs.now = func() time.Time { return time.Unix(1700000000, 0) }
	return bs
}

func decodeSize(t *testing.T, raw []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestBannerKeepsProviderURLWithoutStore(t *testing.T) {
	images := &fakeImages{img: imagegen.Image{URL: "https://img.test/banner.png"}}
	bs := newTestBanner(t, images, nil, true)
	assert.Equal(t, "https://img.test/banner.png", bs.CreateBanner(context.Background(), "cid1", "Go", "a gopher"))
}

func TestBannerUploadsResizedProviderBytes(t *testing.T) {
	images := &fakeImages{img: imagegen.Image{Bytes: samplePNG(t, 400, 400), MimeType: "image/png"}}
	store := &fakeStore{}
	bs := newTestBanner(t, images, store, false)

	url := bs.CreateBanner(context.Background(), "cid1", "Go", "a gopher")
	assert.Equal(t, "https://cdn.test/banners/cid1/1700000000.png", url)
	require.Len(t, store.objects, 1)
	assert.Equal(t, "image/png", store.objects[0].ContentType)
	w, h := decodeSize(t, store.objects[0].Data)
	assert.Equal(t, bannerWidth, w)
	assert.Equal(t, bannerHeight, h)
}

func TestBannerFallbackOnProviderError(t *testing.T) {
	images := &fakeImages{err: errors.New("quota")}
	store := &fakeStore{}
	bs := newTestBanner(t, images, store, true)

	url := bs.CreateBanner(context.Background(), "cid2", "Distributed Systems", "servers")
	assert.True(t, strings.HasPrefix(url, "https://cdn.test/banners/cid2/"))
	require.Len(t, store.objects, 1)
	w, h := decodeSize(t, store.objects[0].Data)
	assert.Equal(t, bannerWidth, w)
	assert.Equal(t, bannerHeight, h)
}

func TestBannerEmptyWithoutPromptOrFallback(t *testing.T) {
	images := &fakeImages{img: imagegen.Image{URL: "https://img.test/x.png"}}
	bs := newTestBanner(t, images, &fakeStore{}, false)
	assert.Equal(t, "", bs.CreateBanner(context.Background(), "cid3", "Go", "  "))
	assert.Equal(t, 0, images.calls)

	failing := newTestBanner(t, &fakeImages{err: errors.New("down")}, &fakeStore{err: errors.New("disk full")}, true)
	assert.Equal(t, "", failing.CreateBanner(context.Background(), "cid4", "Go", "p"))
}

func TestPaletteIndexStable(t *testing.T) {
	assert.Equal(t, paletteIndex("Go basics"), paletteIndex("Go basics"))
	assert.GreaterOrEqual(t, paletteIndex(""), 0)
}
