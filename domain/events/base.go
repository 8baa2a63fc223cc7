package events

import "time"

// SourceBackend is the EventBridge source for everything this service publishes.
const SourceBackend = "edutube.backend"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, ts time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   ts,
		Version:     1,
	}
}

// JourneyForked is raised after a fork cascade finishes, including partial ones.
type JourneyForked struct {
	BaseEvent
	SourceJourneyID string `json:"source_journey_id"`
	UserID          string `json:"user_id"`
	ChaptersCopied  int    `json:"chapters_copied"`
	NotesCopied     int    `json:"notes_copied"`
	NotesSkipped    int    `json:"notes_skipped"`
	Complete        bool   `json:"complete"`
}

// NewJourneyForked creates a JourneyForked event
func NewJourneyForked(newJourneyID, sourceJourneyID, userID string, chapters, notes, skipped int, complete bool, ts time.Time) JourneyForked {
	return JourneyForked{
		BaseEvent:       newBase(newJourneyID, "journey.forked", ts),
		SourceJourneyID: sourceJourneyID,
		UserID:          userID,
		ChaptersCopied:  chapters,
		NotesCopied:     notes,
		NotesSkipped:    skipped,
		Complete:        complete,
	}
}

// PlaylistImported is raised once a playlist has been materialized as a journey.
type PlaylistImported struct {
	BaseEvent
	PlaylistID string `json:"playlist_id"`
	UserID     string `json:"user_id"`
	Chapters   int    `json:"chapters"`
}

// NewPlaylistImported creates a PlaylistImported event
func NewPlaylistImported(journeyID, playlistID, userID string, chapters int, ts time.Time) PlaylistImported {
	return PlaylistImported{
		BaseEvent:  newBase(journeyID, "journey.playlist_imported", ts),
		PlaylistID: playlistID,
		UserID:     userID,
		Chapters:   chapters,
	}
}

// EnrichmentCompleted is raised when the worker finishes one job.
type EnrichmentCompleted struct {
	BaseEvent
	Enriched int `json:"enriched"`
	Failed   int `json:"failed"`
}

// NewEnrichmentCompleted creates an EnrichmentCompleted event
func NewEnrichmentCompleted(journeyID string, enriched, failed int, ts time.Time) EnrichmentCompleted {
	return EnrichmentCompleted{
		BaseEvent: newBase(journeyID, "journey.enrichment_completed", ts),
		Enriched:  enriched,
		Failed:    failed,
	}
}
