package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edutube/infrastructure/cache"
	pkgerrors "edutube/pkg/errors"
)

func TestTruncateDescription(t *testing.T) {
	exact := strings.Repeat("a", 150)
	assert.Equal(t, exact, TruncateDescription(exact, 150, "..."))
	assert.Equal(t, "short", TruncateDescription("short", 150, "..."))

	words := strings.Repeat("word ", 40) // 200 chars
	got := TruncateDescription(words, 150, "...")
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), 153)
	assert.Equal(t, strings.Repeat("word ", 29)+"word...", got)

	noSpace := strings.Repeat("x", 160)
	assert.Equal(t, strings.Repeat("x", 150)+"...", TruncateDescription(noSpace, 150, "..."))
}

func TestClient_OfflineModeServesDemoData(t *testing.T) {
	for _, key := range []string{"", "my-demo-key"} {
		c := NewClient(Config{APIKey: key, BaseURL: "http://127.0.0.1:1"}, nil, zap.NewNop())
		require.True(t, c.Offline())

		meta, err := c.FetchPlaylistMetadata(context.Background(), "PL1")
		require.NoError(t, err)
		assert.Equal(t, "Playlist PL1", meta.Title)
		assert.Equal(t, "Demo playlist description for PL1", meta.Description)

		items, err := c.FetchPlaylistItems(context.Background(), "PL1")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Introduction to the Course", items[0].Title)
		assert.Equal(t, "https://www.youtube.com/watch?v=Tn6-PIqc4UM", items[0].VideoLink)
		assert.Equal(t, 1, items[0].Position)
		assert.Equal(t, "Advanced Topics", items[1].Title)
		assert.Equal(t, 2, items[1].Position)
	}
}

func TestClient_FetchPlaylistItemsMapsDegradedEntries(t *testing.T) {
	longDesc := strings.Repeat("lorem ", 40)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playlistItems", r.URL.Path)
		assert.Equal(t, "PL1", r.URL.Query().Get("playlistId"))
		assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "real-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"items":[
			{"snippet":{"title":"One","description":"` + longDesc + `","resourceId":{"videoId":"abc"}}},
			{"snippet":{"title":"","description":"d","resourceId":{}}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "real-key", BaseURL: srv.URL}, nil, zap.NewNop())

	items, err := c.FetchPlaylistItems(context.Background(), "PL1")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", items[0].VideoLink)
	assert.True(t, strings.HasSuffix(items[0].Description, "..."))
	assert.Equal(t, "Chapter 2", items[1].Title)
	assert.Equal(t, "no video", items[1].VideoLink)
	assert.Equal(t, 2, items[1].Position)
}

func TestClient_UpstreamFailureIsSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "real-key", BaseURL: srv.URL}, nil, zap.NewNop())

	_, err := c.FetchPlaylistMetadata(context.Background(), "PL1")

	assert.True(t, pkgerrors.IsSourceUnavailable(err))
}

func TestClient_EmptyResultIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "real-key", BaseURL: srv.URL}, nil, zap.NewNop())

	_, err := c.FetchPlaylistMetadata(context.Background(), "PL1")
	require.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, "Playlist not found", pkgerrors.GetAppError(err).Message)

	_, err = c.FetchPlaylistItems(context.Background(), "PL1")
	require.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, "No videos found in playlist", pkgerrors.GetAppError(err).Message)
}

func TestClient_CachesSuccessfulFetches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"items":[{"snippet":{"title":"Course","description":"About"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "real-key", BaseURL: srv.URL, CacheTTL: time.Minute},
		cache.NewMemoryCache(time.Minute, time.Minute), zap.NewNop())

	for i := 0; i < 3; i++ {
		meta, err := c.FetchPlaylistMetadata(context.Background(), "PL1")
		require.NoError(t, err)
		assert.Equal(t, "Course", meta.Title)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestVideoID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=Tn6-PIqc4UM": "Tn6-PIqc4UM",
		"https://youtu.be/dQw4w9WgXcQ":                "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/abc123":        "abc123",
	}
	for link, want := range cases {
		got, err := VideoID(link)
		require.NoError(t, err, link)
		assert.Equal(t, want, got)
	}

	_, err := VideoID("no video")
	assert.ErrorIs(t, err, ErrNoVideo)
	_, err = VideoID("https://example.com/page")
	assert.ErrorIs(t, err, ErrNoVideo)
}

func TestTranscriptEnricher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		_, _ = w.Write([]byte(`{"items":[{"snippet":{"description":"  Full lecture notes  "}}]}`))
	}))
	defer srv.Close()

	online := NewTranscriptEnricher(NewClient(Config{APIKey: "real-key", BaseURL: srv.URL}, nil, zap.NewNop()))
	text, err := online.Enrich(context.Background(), "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)
	assert.Equal(t, "Full lecture notes", text)

	offline := NewTranscriptEnricher(NewClient(Config{}, nil, zap.NewNop()))
	text, err = offline.Enrich(context.Background(), "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)
	assert.Contains(t, text, "abc")

	_, err = offline.Enrich(context.Background(), "no video")
	assert.ErrorIs(t, err, ErrNoVideo)
}
