package memory

import (
	"context"
	"sync"

	"edutube/application/ports"
	"edutube/domain/core/entities"
	"edutube/domain/core/valueobjects"
)

// Store is an in-process implementation of ports.Store used for local
// development and tests. All collections share one lock.
type Store struct {
	mu       sync.RWMutex
	open     bool
	seq      int64
	journeys map[string]*entities.Journey
	chapters map[string]*entities.Chapter
	notes    map[string]*entities.Note
	users    map[string]*entities.User
}

// NewStore creates a closed store; call Open before use.
func NewStore() *Store {
	return &Store{
		journeys: make(map[string]*entities.Journey),
		chapters: make(map[string]*entities.Chapter),
		notes:    make(map[string]*entities.Note),
		users:    make(map[string]*entities.User),
	}
}

// NewOpenStore creates a store that is ready for use.
func NewOpenStore() *Store {
	s := NewStore()
	s.open = true
	return s
}

// Open marks the store usable.
func (s *Store) Open(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	return nil
}

// Close marks the store unusable. Data is kept so a reopened store sees it.
func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

// Ping reports ErrStoreClosed when the store is not open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return ports.ErrStoreClosed
	}
	return nil
}

// Counts reports how many journeys, chapters and notes are stored.
func (s *Store) Counts() (journeys, chapters, notes int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.journeys), len(s.chapters), len(s.notes)
}

func (s *Store) Journeys() ports.JourneyRepository { return &journeyRepository{s: s} }
func (s *Store) Chapters() ports.ChapterRepository { return &chapterRepository{s: s} }
func (s *Store) Notes() ports.NoteRepository       { return &noteRepository{s: s} }
func (s *Store) Users() ports.UserRepository       { return &userRepository{s: s} }

// checkOpen must be called with the lock held.
func (s *Store) checkOpen() error {
	if !s.open {
		return ports.ErrStoreClosed
	}
	return nil
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// key normalizes a caller-supplied id; ok is false for ids that can never exist.
func key(id string) (string, bool) {
	parsed, err := valueobjects.ParseEntityID(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

var _ ports.Store = (*Store)(nil)
