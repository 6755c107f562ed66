package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func TestSearchMapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Intro to Go", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "4", q.Get("maxResults"))
		assert.Equal(t, "snippet", q.Get("part"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":{"kind":"youtube#video","videoId":"abc"},"snippet":{"title":"Go &amp; You"}},
			{"id":{"kind":"youtube#channel","channelId":"zzz"},"snippet":{"title":"channel"}},
			{"id":{"kind":"youtube#video","videoId":"def"},"snippet":{"title":"Second"}}
		]}`))
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), logger.NewNop(), Config{},
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	got, err := c.Search(context.Background(), "Intro to Go", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "abc", got[0].VideoID)
	assert.Equal(t, "Go & You", got[0].Title)
	assert.Equal(t, "def", got[1].VideoID)
}

func TestSearchPropagatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), logger.NewNop(), Config{},
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "anything", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSearchEmptyQuery(t *testing.T) {
	c := &client{log: logger.NewNop(), maxResults: 4}
	got, err := c.Search(context.Background(), "  ", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), logger.NewNop(), Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
