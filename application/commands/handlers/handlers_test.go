package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"edutube/application/ports"
	"edutube/domain/core/entities"
	"edutube/domain/events"
	"edutube/infrastructure/persistence/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) PublishBatch(ctx context.Context, es []events.DomainEvent) error {
	for _, e := range es {
		_ = p.Publish(ctx, e)
	}
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type recordingQueue struct {
	jobs []ports.EnrichmentJob
	err  error
}

func (q *recordingQueue) Submit(job ports.EnrichmentJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchPlaylistMetadata(ctx context.Context, id string) (ports.PlaylistMetadata, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.PlaylistMetadata), args.Error(1)
}

func (m *mockSource) FetchPlaylistItems(ctx context.Context, id string) ([]ports.PlaylistItem, error) {
	args := m.Called(ctx, id)
	items, _ := args.Get(0).([]ports.PlaylistItem)
	return items, args.Error(1)
}

// flakyStore fails chapter inserts after failAfter successful ones. With
// failDelete set, chapter deletes fail too.
type flakyStore struct {
	*memory.Store
	failAfter  int
	failDelete bool
}

func (s *flakyStore) Chapters() ports.ChapterRepository {
	return &flakyChapters{ChapterRepository: s.Store.Chapters(), left: s.failAfter, failDelete: s.failDelete}
}

type flakyChapters struct {
	ports.ChapterRepository
	left       int
	failDelete bool
}

var (
	errInsert = errors.New("insert failed")
	errDelete = errors.New("delete failed")
)

func (c *flakyChapters) Delete(ctx context.Context, id string) (bool, error) {
	if c.failDelete {
		return false, errDelete
	}
	return c.ChapterRepository.Delete(ctx, id)
}

func (c *flakyChapters) Insert(ctx context.Context, ch *entities.Chapter) (string, error) {
	if c.left <= 0 {
		return "", errInsert
	}
	c.left--
	return c.ChapterRepository.Insert(ctx, ch)
}

func strPtr(s string) *string { return &s }

func seedJourney(t *testing.T, store *memory.Store, title string, isPublic bool, owner string) string {
	t.Helper()
	id, err := store.Journeys().Insert(context.Background(), entities.NewJourney(title, "desc", isPublic, owner))
	require.NoError(t, err)
	return id
}

func seedChapter(t *testing.T, store *memory.Store, journeyID, title string, no int) string {
	t.Helper()
	id, err := store.Chapters().Insert(context.Background(),
		entities.NewChapter(journeyID, title, "", "https://www.youtube.com/watch?v="+title, "", no))
	require.NoError(t, err)
	return id
}
