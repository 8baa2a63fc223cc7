package ports

import (
	"context"
	"errors"

	"edutube/domain/core/entities"
)

// ErrStoreClosed is returned by every repository call made on a store that
// has not been opened, or has already been closed.
var ErrStoreClosed = errors.New("store is not open")

// Store is the process-wide handle over the entity collections. It is built
// by the container, opened at startup and closed at shutdown.
type Store interface {
	Open(ctx context.Context) error
	Close(ctx context.Context) error
	Ping(ctx context.Context) error

	Journeys() JourneyRepository
	Chapters() ChapterRepository
	Notes() NoteRepository
	Users() UserRepository
}

// JourneyRepository defines persistence for journeys.
//
// GetByID returns (nil, nil) when the id is unknown or not a valid identifier.
// Owner-scoped writes carry the owner in the storage predicate, so a caller
// who does not own the journey sees the same result as for a missing one.
type JourneyRepository interface {
	// Insert assigns an ID to j, stores it and returns the ID.
	Insert(ctx context.Context, j *entities.Journey) (string, error)

	GetByID(ctx context.Context, id string) (*entities.Journey, error)

	// ListByOwner returns the journeys owned by userID.
	ListByOwner(ctx context.Context, userID string) ([]*entities.Journey, error)

	// ListPublic returns every public journey.
	ListPublic(ctx context.Context) ([]*entities.Journey, error)

	// UpdateOwned applies patch when id exists and is owned by ownerID.
	// An empty patch reports true without contacting storage.
	UpdateOwned(ctx context.Context, id, ownerID string, patch entities.JourneyPatch) (bool, error)

	// DeleteOwned removes the journey when owned by ownerID. Chapters and notes are kept.
	DeleteOwned(ctx context.Context, id, ownerID string) (bool, error)
}

// ChapterRepository defines persistence for chapters.
type ChapterRepository interface {
	Insert(ctx context.Context, c *entities.Chapter) (string, error)
	GetByID(ctx context.Context, id string) (*entities.Chapter, error)

	// ListByJourney returns chapters ordered by chapter number, ties by insertion order.
	ListByJourney(ctx context.Context, journeyID string) ([]*entities.Chapter, error)

	// Update applies patch; an empty patch reports true without contacting storage.
	Update(ctx context.Context, id string, patch entities.ChapterPatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// NoteRepository defines persistence for notes.
type NoteRepository interface {
	Insert(ctx context.Context, n *entities.Note) (string, error)
	GetByID(ctx context.Context, id string) (*entities.Note, error)

	// ListByChapter returns notes ordered by creation time.
	ListByChapter(ctx context.Context, chapterID string) ([]*entities.Note, error)

	// ListByJourney returns notes ordered by chapter, then creation time.
	ListByJourney(ctx context.Context, journeyID string) ([]*entities.Note, error)

	// Update applies patch and refreshes UpdatedAt; an empty patch reports
	// true without contacting storage.
	Update(ctx context.Context, id string, patch entities.NotePatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Insert(ctx context.Context, u *entities.User) (string, error)
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	List(ctx context.Context) ([]*entities.User, error)
}
