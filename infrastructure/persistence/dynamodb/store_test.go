package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edutube/application/ports"
	"edutube/domain/core/entities"
)

type fakeAPI struct {
	puts      []*dynamodb.PutItemInput
	updates   []*dynamodb.UpdateItemInput
	deletes   []*dynamodb.DeleteItemInput
	queries   []*dynamodb.QueryInput
	calls     int
	queryOut  []map[string]types.AttributeValue
	updateErr error
	getItem   map[string]types.AttributeValue
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.calls++
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.calls++
	return &dynamodb.GetItemOutput{Item: f.getItem}, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.calls++
	f.updates = append(f.updates, in)
	return &dynamodb.UpdateItemOutput{}, f.updateErr
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.calls++
	f.deletes = append(f.deletes, in)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.calls++
	f.queries = append(f.queries, in)
	return &dynamodb.QueryOutput{Items: f.queryOut}, nil
}

func (f *fakeAPI) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.calls++
	return &dynamodb.ScanOutput{}, nil
}

func (f *fakeAPI) DescribeTable(_ context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.calls++
	return &dynamodb.DescribeTableOutput{}, nil
}

func openStore(t *testing.T, api *fakeAPI) *Store {
	t.Helper()
	s := NewStore(api, "edutube", zap.NewNop())
	require.NoError(t, s.Open(context.Background()))
	api.calls = 0
	return s
}

func stringAttr(t *testing.T, item map[string]types.AttributeValue, name string) string {
	t.Helper()
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return ""
	}
	return v.Value
}

func TestStore_UseBeforeOpen(t *testing.T) {
	api := &fakeAPI{}
	s := NewStore(api, "edutube", zap.NewNop())

	_, err := s.Journeys().GetByID(context.Background(), "3b241101-e2bb-4255-8caf-4136c566a962")

	assert.ErrorIs(t, err, ports.ErrStoreClosed)
	assert.Zero(t, api.calls)
}

func TestJourneyRepository_InsertPublicIndexesVisibility(t *testing.T) {
	api := &fakeAPI{}
	s := openStore(t, api)

	id, err := s.Journeys().Insert(context.Background(), entities.NewJourney("Algebra", "", true, "u1"))
	require.NoError(t, err)

	require.Len(t, api.puts, 1)
	item := api.puts[0].Item
	assert.Equal(t, "JOURNEY#"+id, stringAttr(t, item, "PK"))
	assert.Equal(t, "USER#u1", stringAttr(t, item, "GSI1PK"))
	assert.Equal(t, publicPartition, stringAttr(t, item, "GSI2PK"))
}

func TestJourneyRepository_InsertPrivateOmitsPublicIndex(t *testing.T) {
	api := &fakeAPI{}
	s := openStore(t, api)

	_, err := s.Journeys().Insert(context.Background(), entities.NewJourney("Algebra", "", false, "u1"))
	require.NoError(t, err)

	_, present := api.puts[0].Item["GSI2PK"]
	assert.False(t, present)
}

func TestJourneyRepository_NonOwnerUpdateIsNotMatched(t *testing.T) {
	api := &fakeAPI{updateErr: &types.ConditionalCheckFailedException{}}
	s := openStore(t, api)
	title := "New"

	ok, err := s.Journeys().UpdateOwned(context.Background(), "3b241101-e2bb-4255-8caf-4136c566a962", "intruder",
		entities.JourneyPatch{Title: &title})

	assert.NoError(t, err)
	assert.False(t, ok)
	require.Len(t, api.updates, 1)
	assert.Contains(t, *api.updates[0].ConditionExpression, "attribute_exists")
}

func TestJourneyRepository_UpdatePropagatesOtherErrors(t *testing.T) {
	api := &fakeAPI{updateErr: errors.New("throttled")}
	s := openStore(t, api)
	title := "New"

	_, err := s.Journeys().UpdateOwned(context.Background(), "3b241101-e2bb-4255-8caf-4136c566a962", "u1",
		entities.JourneyPatch{Title: &title})

	assert.Error(t, err)
}

func TestRepositories_SkipStorageForMalformedIDsAndEmptyPatches(t *testing.T) {
	api := &fakeAPI{}
	s := openStore(t, api)
	ctx := context.Background()

	j, err := s.Journeys().GetByID(ctx, "42")
	assert.NoError(t, err)
	assert.Nil(t, j)

	ok, err := s.Chapters().Delete(ctx, "not-an-id")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Chapters().Update(ctx, "3b241101-e2bb-4255-8caf-4136c566a962", entities.ChapterPatch{})
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Notes().Update(ctx, "3b241101-e2bb-4255-8caf-4136c566a962", entities.NotePatch{})
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.Zero(t, api.calls)
}

func TestChapterRepository_ListByJourneySortsByPosition(t *testing.T) {
	now := time.Now()
	var out []map[string]types.AttributeValue
	for i, no := range []int{3, 1, 2} {
		c := entities.NewChapter("j1", "c", "", "v", "", no)
		c.ID = "id"
		c.Seq = now.Add(time.Duration(i) * time.Second).UnixNano()
		av, err := attributevalue.MarshalMap(newChapterItem(c))
		require.NoError(t, err)
		out = append(out, av)
	}
	api := &fakeAPI{queryOut: out}
	s := openStore(t, api)

	chapters, err := s.Chapters().ListByJourney(context.Background(), "j1")

	require.NoError(t, err)
	require.Len(t, chapters, 3)
	assert.Equal(t, 1, chapters[0].ChapterNo)
	assert.Equal(t, 2, chapters[1].ChapterNo)
	assert.Equal(t, 3, chapters[2].ChapterNo)
	assert.Equal(t, gsi1, *api.queries[0].IndexName)
}

func TestNoteItem_RoundTripKeepsMissingTitleAbsent(t *testing.T) {
	n := entities.NewNote("c1", "j1", "body", "  ")
	n.ID = "n1"

	av, err := attributevalue.MarshalMap(newNoteItem(n))
	require.NoError(t, err)
	_, hasTitle := av["Title"]
	assert.False(t, hasTitle)

	var item noteItem
	require.NoError(t, attributevalue.UnmarshalMap(av, &item))
	got := item.toEntity()
	assert.Nil(t, got.Title)
	assert.Equal(t, "CHAPTER#c1", item.GSI2PK)
	assert.WithinDuration(t, n.CreatedAt, got.CreatedAt, time.Microsecond)
}
