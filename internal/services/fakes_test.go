package services

import (
	"context"
	"strings"
	"sync"

	"github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/platform/imagegen"
	"github.com/yungbote/coursegen-backend/internal/realtime"
)

type llmCall struct {
	System     string
	User       string
	SchemaName string
}

type fakeLLM struct {
	mu      sync.Mutex
	calls   []llmCall
	respond func(call llmCall) (string, error)
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (string, error) {
	call := llmCall{System: system, User: user, SchemaName: schemaName}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.respond(call)
}

func (f *fakeLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	return f.GenerateJSON(ctx, system, user, "text", nil)
}

func (f *fakeLLM) Calls() []llmCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llmCall(nil), f.calls...)
}

type fakeVideos struct {
	mu      sync.Mutex
	queries []string
	err     error
}

func (f *fakeVideos) Search(ctx context.Context, query string, max int) ([]domain.VideoRef, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []domain.VideoRef{{VideoID: "yt-" + strings.ReplaceAll(query, " ", "-"), Title: query + " explained"}}, nil
}

type fakeImages struct {
	img   imagegen.Image
	err   error
	calls int
}

func (f *fakeImages) Generate(ctx context.Context, prompt string) (imagegen.Image, error) {
	f.calls++
	return f.img, f.err
}

func (f *fakeImages) Provider() string { return "fake" }

type storedObject struct {
	Key         string
	Data        []byte
	ContentType string
}

type fakeStore struct {
	objects []storedObject
	err     error
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.objects = append(f.objects, storedObject{Key: key, Data: data, ContentType: contentType})
	return "https://cdn.test/" + key, nil
}

type fakeBanners struct {
	url     string
	prompts []string
}

func (f *fakeBanners) CreateBanner(ctx context.Context, cid, title, prompt string) string {
	f.prompts = append(f.prompts, prompt)
	return f.url
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (p *recordingPublisher) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) Events() []realtime.SSEEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, m.Event)
	}
	return out
}
