package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"edutube/application/ports"
	"edutube/domain/config"
	pkgerrors "edutube/pkg/errors"
	"edutube/pkg/resilience"
)

// DefaultBaseURL is the YouTube Data API v3 root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

const watchURL = "https://www.youtube.com/watch?v="

// Config configures the catalog client.
type Config struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Client fetches playlist metadata from the YouTube Data API. Without a
// usable API key it serves fixed demo data and never touches the network.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	cache      ports.Cache
	cacheTTL   time.Duration
	domain     *config.DomainConfig
	logger     *zap.Logger
}

// NewClient creates a catalog client. cache may be nil.
func NewClient(cfg Config, cache ports.Cache, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	breakerCfg := resilience.DefaultBreakerConfig("youtube")
	breakerCfg.IsSuccessful = func(err error) bool {
		return err == nil || pkgerrors.IsNotFound(err)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    resilience.NewCircuitBreaker(breakerCfg, logger),
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
		domain:     config.DefaultDomainConfig(),
		logger:     logger,
	}
}

// Offline reports whether the client serves demo data.
func (c *Client) Offline() bool {
	return IsOfflineKey(c.apiKey)
}

// IsOfflineKey reports whether key is absent or a demo placeholder.
func IsOfflineKey(key string) bool {
	return key == "" || strings.Contains(key, "demo")
}

type snippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ResourceID  struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
}

type listResponse struct {
	Items []struct {
		ID      string  `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

// FetchPlaylistMetadata returns the playlist's title and description.
func (c *Client) FetchPlaylistMetadata(ctx context.Context, playlistID string) (ports.PlaylistMetadata, error) {
	if c.Offline() {
		return ports.PlaylistMetadata{
			Title:       fmt.Sprintf("Playlist %s", playlistID),
			Description: fmt.Sprintf("Demo playlist description for %s", playlistID),
		}, nil
	}

	cacheKey := "youtube:playlist:" + playlistID
	if v, ok := c.cached(ctx, cacheKey); ok {
		if meta, ok := v.(ports.PlaylistMetadata); ok {
			return meta, nil
		}
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", playlistID)

	const notFound = "Playlist not found"

	var resp listResponse
	if err := c.get(ctx, "playlists", params, notFound, &resp); err != nil {
		return ports.PlaylistMetadata{}, err
	}
	if len(resp.Items) == 0 {
		return ports.PlaylistMetadata{}, pkgerrors.NewNotFoundMessage(notFound)
	}

	s := resp.Items[0].Snippet
	meta := ports.PlaylistMetadata{Title: s.Title, Description: s.Description}
	c.store(ctx, cacheKey, meta)
	return meta, nil
}

// FetchPlaylistItems returns up to 50 playlist videos in source order.
// Degraded entries are kept: a missing video id becomes the "no video"
// sentinel and a missing title becomes "Chapter <n>".
func (c *Client) FetchPlaylistItems(ctx context.Context, playlistID string) ([]ports.PlaylistItem, error) {
	if c.Offline() {
		return demoItems(), nil
	}

	cacheKey := "youtube:items:" + playlistID
	if v, ok := c.cached(ctx, cacheKey); ok {
		if items, ok := v.([]ports.PlaylistItem); ok {
			return append([]ports.PlaylistItem(nil), items...), nil
		}
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(c.domain.MaxPlaylistItems))

	const notFound = "No videos found in playlist"

	var resp listResponse
	if err := c.get(ctx, "playlistItems", params, notFound, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, pkgerrors.NewNotFoundMessage(notFound)
	}

	items := make([]ports.PlaylistItem, 0, len(resp.Items))
	for i, raw := range resp.Items {
		s := raw.Snippet
		title := s.Title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		link := c.domain.NoVideoLink
		if s.ResourceID.VideoID != "" {
			link = watchURL + s.ResourceID.VideoID
		}
		items = append(items, ports.PlaylistItem{
			Title:       title,
			VideoLink:   link,
			Description: TruncateDescription(s.Description, c.domain.MaxDescriptionLength, c.domain.DescriptionEllipsis),
			Position:    i + 1,
		})
	}

	c.store(ctx, cacheKey, items)
	return items, nil
}

func demoItems() []ports.PlaylistItem {
	return []ports.PlaylistItem{
		{
			Title:       "Introduction to the Course",
			VideoLink:   watchURL + "Tn6-PIqc4UM",
			Description: "First chapter introducing basic concepts.",
			Position:    1,
		},
		{
			Title:       "Advanced Topics",
			VideoLink:   watchURL + "dQw4w9WgXcQ",
			Description: "Deep dive into advanced topics.",
			Position:    2,
		},
	}
}

// get calls an API resource through the circuit breaker and decodes the JSON
// body into out. A 404 is reported as NotFound with notFound as message and
// does not count against the breaker.
func (c *Client) get(ctx context.Context, resource string, params url.Values, notFound string, out interface{}) error {
	params.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, resource, params.Encode())

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, pkgerrors.NewNotFoundMessage(notFound)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("youtube %s returned %d: %s", resource, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode youtube %s response: %w", resource, err)
		}
		return nil, nil
	})
	if pkgerrors.IsNotFound(err) {
		return err
	}
	if err != nil {
		c.logger.Warn("YouTube request failed",
			zap.String("resource", resource),
			zap.Bool("breaker_open", resilience.IsOpen(err)),
			zap.Error(err),
		)
		return pkgerrors.NewSourceUnavailableError("YouTube", err)
	}
	return nil
}

func (c *Client) cached(ctx context.Context, key string) (interface{}, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(ctx, key)
}

func (c *Client) store(ctx context.Context, key string, v interface{}) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, v, c.cacheTTL); err != nil {
		c.logger.Debug("Failed to cache youtube response", zap.String("key", key), zap.Error(err))
	}
}

var _ ports.PlaylistSource = (*Client)(nil)
