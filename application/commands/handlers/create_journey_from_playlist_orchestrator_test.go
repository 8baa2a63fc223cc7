package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edutube/application/commands"
	"edutube/application/ports"
	"edutube/infrastructure/persistence/memory"
	"edutube/infrastructure/youtube"
	pkgerrors "edutube/pkg/errors"
)

func TestPlaylistImport_OfflineCatalog(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewOpenStore()
	queue := &recordingQueue{}
	pub := &recordingPublisher{}
	source := youtube.NewClient(youtube.Config{}, nil, zap.NewNop())
	orch := NewCreateJourneyFromPlaylistOrchestrator(store, source, queue, pub, zap.NewNop())
	hooked := false
	orch.OnImport(func(context.Context) { hooked = true })

	// Act
	id, err := orch.Handle(ctx, commands.CreateJourneyFromPlaylistCommand{PlaylistID: "PL123", UserID: "u1", IsPublic: true})

	// Assert
	require.NoError(t, err)
	journey, err := store.Journeys().GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, journey)
	assert.Equal(t, "Playlist PL123", journey.Title)
	assert.Equal(t, "Demo playlist description for PL123", journey.Description)
	assert.True(t, journey.IsPublic)
	assert.Equal(t, "u1", journey.UserID)

	chapters, err := store.Chapters().ListByJourney(ctx, id)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Introduction to the Course", chapters[0].Title)
	assert.Equal(t, 1, chapters[0].ChapterNo)
	assert.Equal(t, "Advanced Topics", chapters[1].Title)
	assert.Equal(t, 2, chapters[1].ChapterNo)
	assert.Equal(t, "", chapters[0].ExternalLink)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, id, queue.jobs[0].JourneyID)
	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=Tn6-PIqc4UM",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}, queue.jobs[0].VideoLinks)
	assert.Equal(t, 1, pub.count())
	assert.True(t, hooked)
}

func TestPlaylistImport_EmptyPlaylistID(t *testing.T) {
	store := memory.NewOpenStore()
	source := &mockSource{}
	queue := &recordingQueue{}
	orch := NewCreateJourneyFromPlaylistOrchestrator(store, source, queue, &recordingPublisher{}, zap.NewNop())

	_, err := orch.Handle(context.Background(), commands.CreateJourneyFromPlaylistCommand{PlaylistID: "  ", UserID: "u1"})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, "Playlist ID is required", pkgerrors.GetAppError(err).Message)
	j, _, _ := store.Counts()
	assert.Zero(t, j)
	assert.Empty(t, queue.jobs)
	source.AssertNotCalled(t, "FetchPlaylistMetadata", mock.Anything, mock.Anything)
}

func TestPlaylistImport_ItemsFailureLeavesNoJourney(t *testing.T) {
	store := memory.NewOpenStore()
	source := &mockSource{}
	source.On("FetchPlaylistMetadata", mock.Anything, "PL1").
		Return(ports.PlaylistMetadata{Title: "T"}, nil)
	source.On("FetchPlaylistItems", mock.Anything, "PL1").
		Return(nil, pkgerrors.NewSourceUnavailableError("YouTube", errors.New("503")))
	queue := &recordingQueue{}
	orch := NewCreateJourneyFromPlaylistOrchestrator(store, source, queue, &recordingPublisher{}, zap.NewNop()).
		WithFetchRetry(2, time.Millisecond)

	_, err := orch.Handle(context.Background(), commands.CreateJourneyFromPlaylistCommand{PlaylistID: "PL1", UserID: "u1"})

	assert.True(t, pkgerrors.IsSourceUnavailable(err))
	j, c, _ := store.Counts()
	assert.Zero(t, j+c)
	assert.Empty(t, queue.jobs)
	source.AssertExpectations(t)
	source.AssertNumberOfCalls(t, "FetchPlaylistItems", 2)
}

func TestPlaylistImport_RetriesUnavailableCatalog(t *testing.T) {
	ctx := context.Background()
	store := memory.NewOpenStore()
	source := &mockSource{}
	source.On("FetchPlaylistMetadata", mock.Anything, "PL1").
		Return(ports.PlaylistMetadata{Title: "T"}, nil)
	source.On("FetchPlaylistItems", mock.Anything, "PL1").
		Return(nil, pkgerrors.NewSourceUnavailableError("YouTube", errors.New("503"))).Once()
	source.On("FetchPlaylistItems", mock.Anything, "PL1").
		Return([]ports.PlaylistItem{{Title: "a", VideoLink: "https://youtu.be/a", Position: 1}}, nil).Once()
	orch := NewCreateJourneyFromPlaylistOrchestrator(store, source, &recordingQueue{}, &recordingPublisher{}, zap.NewNop()).
		WithFetchRetry(3, time.Millisecond)

	id, err := orch.Handle(ctx, commands.CreateJourneyFromPlaylistCommand{PlaylistID: "PL1", UserID: "u1"})

	require.NoError(t, err)
	chapters, err := store.Chapters().ListByJourney(ctx, id)
	require.NoError(t, err)
	assert.Len(t, chapters, 1)
	source.AssertNumberOfCalls(t, "FetchPlaylistItems", 2)
}

func TestPlaylistImport_NotFoundIsNotRetried(t *testing.T) {
	source := &mockSource{}
	source.On("FetchPlaylistMetadata", mock.Anything, "PL1").
		Return(ports.PlaylistMetadata{}, pkgerrors.NewNotFoundMessage("Playlist not found"))
	orch := NewCreateJourneyFromPlaylistOrchestrator(memory.NewOpenStore(), source, &recordingQueue{}, &recordingPublisher{}, zap.NewNop()).
		WithFetchRetry(3, time.Millisecond)

	_, err := orch.Handle(context.Background(), commands.CreateJourneyFromPlaylistCommand{PlaylistID: "PL1", UserID: "u1"})

	assert.True(t, pkgerrors.IsNotFound(err))
	source.AssertNumberOfCalls(t, "FetchPlaylistMetadata", 1)
	source.AssertNotCalled(t, "FetchPlaylistItems", mock.Anything, mock.Anything)
}

func TestPlaylistImport_MissingPositionDefaultsToFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewOpenStore()
	source := &mockSource{}
	source.On("FetchPlaylistMetadata", mock.Anything, "PL1").Return(ports.PlaylistMetadata{Title: "T"}, nil)
	source.On("FetchPlaylistItems", mock.Anything, "PL1").Return([]ports.PlaylistItem{
		{Title: "unnumbered", VideoLink: "https://youtu.be/a"},
	}, nil)
	orch := NewCreateJourneyFromPlaylistOrchestrator(store, source, &recordingQueue{}, &recordingPublisher{}, zap.NewNop())

	id, err := orch.Handle(ctx, commands.CreateJourneyFromPlaylistCommand{PlaylistID: "PL1", UserID: "u1"})

	require.NoError(t, err)
	chapters, err := store.Chapters().ListByJourney(ctx, id)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, 1, chapters[0].ChapterNo)
}

func TestPlaylistImport_ChapterFailureRollsBack(t *testing.T) {
	base := memory.NewOpenStore()
	source := &mockSource{}
	source.On("FetchPlaylistMetadata", mock.Anything, "PL1").Return(ports.PlaylistMetadata{Title: "T"}, nil)
	source.On("FetchPlaylistItems", mock.Anything, "PL1").Return([]ports.PlaylistItem{
		{Title: "a", VideoLink: "https://youtu.be/a", Position: 1},
		{Title: "b", VideoLink: "https://youtu.be/b", Position: 2},
		{Title: "c", VideoLink: "https://youtu.be/c", Position: 3},
	}, nil)
	queue := &recordingQueue{}
	orch := NewCreateJourneyFromPlaylistOrchestrator(&flakyStore{Store: base, failAfter: 2}, source, queue, &recordingPublisher{}, zap.NewNop())

	_, err := orch.Handle(context.Background(), commands.CreateJourneyFromPlaylistCommand{PlaylistID: "PL1", UserID: "u1"})

	assert.ErrorIs(t, err, errInsert)
	j, c, _ := base.Counts()
	assert.Zero(t, j)
	assert.Zero(t, c)
	assert.Empty(t, queue.jobs)
}

func TestPlaylistImport_RollbackRemovesJourneyWhenChapterDeleteFails(t *testing.T) {
	base := memory.NewOpenStore()
	source := &mockSource{}
	source.On("FetchPlaylistMetadata", mock.Anything, "PL1").Return(ports.PlaylistMetadata{Title: "T"}, nil)
	source.On("FetchPlaylistItems", mock.Anything, "PL1").Return([]ports.PlaylistItem{
		{Title: "a", VideoLink: "https://youtu.be/a", Position: 1},
		{Title: "b", VideoLink: "https://youtu.be/b", Position: 2},
		{Title: "c", VideoLink: "https://youtu.be/c", Position: 3},
	}, nil)
	store := &flakyStore{Store: base, failAfter: 2, failDelete: true}
	orch := NewCreateJourneyFromPlaylistOrchestrator(store, source, &recordingQueue{}, &recordingPublisher{}, zap.NewNop())

	_, err := orch.Handle(context.Background(), commands.CreateJourneyFromPlaylistCommand{PlaylistID: "PL1", UserID: "u1"})

	assert.ErrorIs(t, err, errInsert)
	j, c, _ := base.Counts()
	assert.Zero(t, j)
	assert.Equal(t, 2, c)
}

func TestPlaylistImport_RemoveJourneyReportsEveryFailure(t *testing.T) {
	ctx := context.Background()
	base := memory.NewOpenStore()
	journeyID := seedJourney(t, base, "T", false, "u1")
	a := seedChapter(t, base, journeyID, "a", 1)
	b := seedChapter(t, base, journeyID, "b", 2)
	orch := NewCreateJourneyFromPlaylistOrchestrator(&flakyStore{Store: base, failAfter: 0, failDelete: true},
		&mockSource{}, &recordingQueue{}, &recordingPublisher{}, zap.NewNop())
	state := &playlistImport{
		cmd:        commands.CreateJourneyFromPlaylistCommand{PlaylistID: "PL1", UserID: "u1"},
		journeyID:  journeyID,
		chapterIDs: []string{a, b},
	}

	err := orch.removeJourney(ctx, state)

	require.Error(t, err)
	assert.ErrorIs(t, err, errDelete)
	assert.Contains(t, err.Error(), a)
	assert.Contains(t, err.Error(), b)
	journey, err := base.Journeys().GetByID(ctx, journeyID)
	require.NoError(t, err)
	assert.Nil(t, journey)
}

func TestPlaylistImport_RejectedSubmissionIsNotSurfaced(t *testing.T) {
	store := memory.NewOpenStore()
	queue := &recordingQueue{err: errors.New("queue full")}
	source := youtube.NewClient(youtube.Config{APIKey: "demo-key"}, nil, zap.NewNop())
	orch := NewCreateJourneyFromPlaylistOrchestrator(store, source, queue, &recordingPublisher{}, zap.NewNop())

	id, err := orch.Handle(context.Background(), commands.CreateJourneyFromPlaylistCommand{PlaylistID: "PL9", UserID: "u1"})

	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
