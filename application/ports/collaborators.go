package ports

import (
	"context"
	"time"

	"edutube/domain/events"
)

// PlaylistMetadata is the title and description of an external playlist.
type PlaylistMetadata struct {
	Title       string
	Description string
}

// PlaylistItem is one video of an external playlist, in source order.
type PlaylistItem struct {
	Title       string
	VideoLink   string
	Description string
	Position    int
}

// PlaylistSource fetches ordered video metadata from the external catalog.
type PlaylistSource interface {
	FetchPlaylistMetadata(ctx context.Context, playlistID string) (PlaylistMetadata, error)
	FetchPlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error)
}

// ContentEnricher derives supplementary text (a transcript or similar) for a video.
type ContentEnricher interface {
	Enrich(ctx context.Context, videoLink string) (string, error)
}

// EnrichmentJob is one unit of background work: every video link of a
// journey, in chapter order.
type EnrichmentJob struct {
	JourneyID  string
	VideoLinks []string
}

// EnrichmentQueue accepts jobs for the background worker.
type EnrichmentQueue interface {
	Submit(job EnrichmentJob) error
}

// ChatCompleter answers a chat message using an external model.
type ChatCompleter interface {
	Configured() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache; a zero ttl uses the cache default
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}

// EnrichmentMetrics records per-item outcomes of the background worker.
type EnrichmentMetrics interface {
	RecordEnrichment(ctx context.Context, outcome string)
	RecordQueueDepth(depth int)
}
