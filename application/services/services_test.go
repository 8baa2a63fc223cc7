package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"edutube/domain/core/entities"
	"edutube/infrastructure/cache"
	"edutube/infrastructure/persistence/memory"
	"edutube/pkg/auth"
	pkgerrors "edutube/pkg/errors"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestJourneyService_ListPublicWithUsernames(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewOpenStore()
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	svc := NewJourneyService(store, c, time.Minute, zap.NewNop())
	ownerID, err := store.Users().Insert(ctx, entities.NewUser("ada", "ada@example.com", "x"))
	require.NoError(t, err)

	_, err = svc.ListPublic(ctx)
	require.True(t, pkgerrors.IsNotFound(err))

	_, err = svc.Create(ctx, ownerID, "Public", "", true)
	require.NoError(t, err)
	_, err = svc.Create(ctx, ownerID, "Private", "", false)
	require.NoError(t, err)

	// Act
	list, err := svc.ListPublic(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Public", list[0].Title)
	assert.Equal(t, "ada", list[0].Username)
}

func TestJourneyService_PublicCacheInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.NewOpenStore()
	svc := NewJourneyService(store, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, zap.NewNop())
	id, err := svc.Create(ctx, "u1", "First", "", true)
	require.NoError(t, err)

	list, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Update(ctx, id, "u1", entities.JourneyPatch{Title: strPtr("Renamed")}))

	list, err = svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", list[0].Title)

	require.NoError(t, svc.Delete(ctx, id, "u1"))
	_, err = svc.ListPublic(ctx)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestJourneyService_OwnerScopedWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewOpenStore()
	svc := NewJourneyService(store, nil, 0, zap.NewNop())
	id, err := svc.Create(ctx, "owner", "", "", false)
	require.NoError(t, err)

	j, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Untitled Journey", j.Title)

	err = svc.Update(ctx, id, "intruder", entities.JourneyPatch{IsPublic: boolPtr(true)})
	assert.True(t, pkgerrors.IsNotFound(err))
	err = svc.Delete(ctx, id, "intruder")
	assert.True(t, pkgerrors.IsNotFound(err))

	// empty patch succeeds without a lookup
	assert.NoError(t, svc.Update(ctx, "does-not-exist", "intruder", entities.JourneyPatch{}))

	_, err = svc.Get(ctx, "does-not-exist")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestChapterService_RequiresJourney(t *testing.T) {
	ctx := context.Background()
	store := memory.NewOpenStore()
	svc := NewChapterService(store, zap.NewNop())

	_, err := svc.Create(ctx, "6f1c1c1e-8a9b-4c1d-9e2f-0a1b2c3d4e5f", CreateChapterInput{Title: "t", VideoLink: "v", ChapterNo: 1})
	require.Error(t, err)
	assert.Equal(t, "Journey not found", pkgerrors.GetAppError(err).Message)

	jid, err := store.Journeys().Insert(ctx, entities.NewJourney("J", "", false, "u"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, jid, CreateChapterInput{Title: "second", VideoLink: "v", ChapterNo: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, jid, CreateChapterInput{Title: "first", VideoLink: "v", ChapterNo: 1})
	require.NoError(t, err)

	chapters, err := svc.ListByJourney(ctx, jid)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "first", chapters[0].Title)

	require.NoError(t, svc.SetCompleted(ctx, second, true))
	ch, err := svc.Get(ctx, second)
	require.NoError(t, err)
	assert.True(t, ch.IsCompleted)

	require.NoError(t, svc.Delete(ctx, second))
	assert.True(t, pkgerrors.IsNotFound(svc.Delete(ctx, second)))
}

func TestChapterService_ExplicitZeroPositionIsStored(t *testing.T) {
	ctx := context.Background()
	store := memory.NewOpenStore()
	svc := NewChapterService(store, zap.NewNop())
	jid, err := store.Journeys().Insert(ctx, entities.NewJourney("J", "", false, "u"))
	require.NoError(t, err)

	id, err := svc.Create(ctx, jid, CreateChapterInput{Title: "prelude", VideoLink: "v", ChapterNo: 0})
	require.NoError(t, err)

	ch, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, ch.ChapterNo)
}

func TestNoteService_ChapterMustBelongToJourney(t *testing.T) {
	ctx := context.Background()
	store := memory.NewOpenStore()
	svc := NewNoteService(store, zap.NewNop())
	j1, _ := store.Journeys().Insert(ctx, entities.NewJourney("A", "", false, "u"))
	j2, _ := store.Journeys().Insert(ctx, entities.NewJourney("B", "", false, "u"))
	ch, _ := store.Chapters().Insert(ctx, entities.NewChapter(j1, "c", "", "v", "", 1))

	_, err := svc.Create(ctx, j2, ch, "text", "")
	require.Error(t, err)
	assert.Equal(t, "Chapter not found or does not belong to the specified journey", pkgerrors.GetAppError(err).Message)

	_, err = svc.Create(ctx, "missing", ch, "text", "")
	assert.Equal(t, "Journey not found", pkgerrors.GetAppError(err).Message)

	id, err := svc.Create(ctx, j1, ch, "text", "  title ")
	require.NoError(t, err)
	note, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, j1, note.JourneyID)
	assert.Equal(t, "title", *note.Title)

	require.NoError(t, svc.Update(ctx, id, entities.NotePatch{Title: strPtr("")}))
	note, _ = svc.Get(ctx, id)
	assert.Nil(t, note.Title)

	_, err = svc.ListByChapter(ctx, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
	_, err = svc.ListByJourney(ctx, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))

	notes, err := svc.ListByJourney(ctx, j1)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func newUserService(t *testing.T) (*UserService, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)
	svc := NewUserService(memory.NewOpenStore(), tokens, zap.NewNop())
	svc.cost = bcrypt.MinCost
	return svc, tokens
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newUserService(t)

	_, err := svc.List(ctx)
	assert.Equal(t, "Users not found", pkgerrors.GetAppError(err).Message)

	id, err := svc.Register(ctx, "ada", "Ada@Example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "other", "ada@example.com", "x")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	appErr := pkgerrors.GetAppError(err)
	assert.Equal(t, "Email already in use", appErr.Message)
	assert.Equal(t, CodeEmailInUse, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)

	token, err := svc.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.ID)
	assert.Equal(t, "ada", claims.Username)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.Equal(t, "Invalid credentials", pkgerrors.GetAppError(err).Message)
	_, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.Equal(t, "Invalid credentials", pkgerrors.GetAppError(err).Message)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.NotEmpty(t, users[0].PasswordHash)
}

func TestUserService_LongPasswordsUseFirst72Bytes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)
	long := strings.Repeat("a", 80)

	_, err := svc.Register(ctx, "long", "long@example.com", long)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "long@example.com", long)
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "long@example.com", strings.Repeat("a", 72)+"different")
	assert.NoError(t, err)
}

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestChatbotService(t *testing.T) {
	ctx := context.Background()

	t.Run("empty message", func(t *testing.T) {
		svc := NewChatbotService(&mockCompleter{}, zap.NewNop())
		_, err := svc.Chat(ctx, " ", "")
		assert.Equal(t, "Message is required", pkgerrors.GetAppError(err).Message)
	})

	t.Run("not configured", func(t *testing.T) {
		completer := &mockCompleter{}
		completer.On("Configured").Return(false)
		svc := NewChatbotService(completer, zap.NewNop())

		_, err := svc.Chat(ctx, "hi", "")

		assert.True(t, pkgerrors.IsUnavailable(err))
		assert.False(t, svc.Health().GeminiConfigured)
	})

	t.Run("answers with default context", func(t *testing.T) {
		completer := &mockCompleter{}
		completer.On("Configured").Return(true)
		completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "Current context: General query") && strings.Contains(p, "User question: hi")
		})).Return("hello", nil)
		svc := NewChatbotService(completer, zap.NewNop())

		answer, err := svc.Chat(ctx, "hi", "")

		require.NoError(t, err)
		assert.Equal(t, "hello", answer)
		completer.AssertExpectations(t)
	})

	t.Run("upstream failure", func(t *testing.T) {
		completer := &mockCompleter{}
		completer.On("Configured").Return(true)
		completer.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("boom"))
		svc := NewChatbotService(completer, zap.NewNop())

		_, err := svc.Chat(ctx, "hi", "journey page")

		assert.Equal(t, "Failed to process request", pkgerrors.GetAppError(err).Message)
	})
}
