package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edutube/application/ports"
	"edutube/domain/core/entities"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestStore_ClosedStoreRejectsCalls(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Journeys().Insert(ctx, entities.NewJourney("x", "", false, "u1"))
	assert.ErrorIs(t, err, ports.ErrStoreClosed)
	assert.ErrorIs(t, s.Ping(ctx), ports.ErrStoreClosed)

	require.NoError(t, s.Open(ctx))
	_, err = s.Journeys().Insert(ctx, entities.NewJourney("x", "", false, "u1"))
	assert.NoError(t, err)

	require.NoError(t, s.Close(ctx))
	_, err = s.Chapters().ListByJourney(ctx, "j")
	assert.ErrorIs(t, err, ports.ErrStoreClosed)
}

func TestJourneyRepository_UnparseableIDIsAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewOpenStore().Journeys()

	j, err := repo.GetByID(ctx, "not-a-uuid")
	assert.NoError(t, err)
	assert.Nil(t, j)

	ok, err := repo.UpdateOwned(ctx, "not-a-uuid", "u1", entities.JourneyPatch{Title: strPtr("t")})
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DeleteOwned(ctx, "not-a-uuid", "u1")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestJourneyRepository_OwnerScopedWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewOpenStore().Journeys()
	id, err := repo.Insert(ctx, entities.NewJourney("Algebra", "", false, "owner"))
	require.NoError(t, err)

	ok, err := repo.UpdateOwned(ctx, id, "intruder", entities.JourneyPatch{IsPublic: boolPtr(true)})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DeleteOwned(ctx, id, "intruder")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UpdateOwned(ctx, id, "owner", entities.JourneyPatch{IsPublic: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, ok)

	j, _ := repo.GetByID(ctx, id)
	assert.True(t, j.IsPublic)
	assert.Equal(t, "Algebra", j.Title)

	public, err := repo.ListPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, public, 1)
}

func TestChapterRepository_ListOrdersByPositionThenInsertion(t *testing.T) {
	ctx := context.Background()
	repo := NewOpenStore().Chapters()

	for _, c := range []struct {
		title string
		no    int
	}{{"third", 3}, {"first", 1}, {"second-a", 2}, {"second-b", 2}} {
		_, err := repo.Insert(ctx, entities.NewChapter("j1", c.title, "", "v", "", c.no))
		require.NoError(t, err)
	}
	_, _ = repo.Insert(ctx, entities.NewChapter("other", "elsewhere", "", "v", "", 1))

	chapters, err := repo.ListByJourney(ctx, "j1")
	require.NoError(t, err)

	var titles []string
	for _, c := range chapters {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"first", "second-a", "second-b", "third"}, titles)
}

func TestChapterRepository_EmptyPatchIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewOpenStore()
	repo := s.Chapters()
	id, _ := repo.Insert(ctx, entities.NewChapter("j1", "Intro", "d", "v", "", 1))

	// Even an unknown id succeeds: storage is never consulted.
	ok, err := repo.Update(ctx, "missing", entities.ChapterPatch{})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Update(ctx, id, entities.ChapterPatch{})
	assert.NoError(t, err)
	assert.True(t, ok)

	c, _ := repo.GetByID(ctx, id)
	assert.Equal(t, "Intro", c.Title)
	assert.Equal(t, "d", c.Description)
}

func TestNoteRepository_JourneyListingOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewOpenStore().Notes()
	base := time.Now().UTC()

	insert := func(chapter string, offset time.Duration, content string) {
		n := entities.NewNote(chapter, "j1", content, "")
		n.CreatedAt = base.Add(offset)
		_, err := repo.Insert(ctx, n)
		require.NoError(t, err)
	}
	insert("b", 0, "b-1")
	insert("a", 2*time.Second, "a-2")
	insert("a", time.Second, "a-1")

	notes, err := repo.ListByJourney(ctx, "j1")
	require.NoError(t, err)
	var contents []string
	for _, n := range notes {
		contents = append(contents, n.Content)
	}
	assert.Equal(t, []string{"a-1", "a-2", "b-1"}, contents)

	byChapter, err := repo.ListByChapter(ctx, "a")
	require.NoError(t, err)
	require.Len(t, byChapter, 2)
	assert.Equal(t, "a-1", byChapter[0].Content)
}

func TestNoteRepository_UpdateRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := NewOpenStore().Notes()
	n := entities.NewNote("c", "j", "old", " My title ")
	n.UpdatedAt = n.UpdatedAt.Add(-time.Hour)
	id, _ := repo.Insert(ctx, n)

	ok, err := repo.Update(ctx, id, entities.NotePatch{Content: strPtr("new")})
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := repo.GetByID(ctx, id)
	assert.Equal(t, "new", got.Content)
	require.NotNil(t, got.Title)
	assert.Equal(t, "My title", *got.Title)
	assert.True(t, got.UpdatedAt.After(n.UpdatedAt))
}

func TestUserRepository_GetByEmailNormalizes(t *testing.T) {
	ctx := context.Background()
	repo := NewOpenStore().Users()
	id, _ := repo.Insert(ctx, entities.NewUser("ana", "Ana@Example.com", "hash"))

	u, err := repo.GetByEmail(ctx, " ana@example.COM ")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
}
