package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"edutube/application/ports"
	"edutube/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	gsi1 = "GSI1"
	gsi2 = "GSI2"
)

// API is the subset of the DynamoDB client used by the store.
type API interface {
	dynamodb.QueryAPIClient
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Store implements ports.Store on a single DynamoDB table.
//
// Every entity lives under PK=<TYPE>#<id>, SK=METADATA. GSI1 groups children
// under their parent (journeys under USER#, chapters and notes under
// JOURNEY#, users under EMAIL#); GSI2 holds the public journey listing and
// the chapter-scoped note listing.
type Store struct {
	client    API
	tableName string
	logger    *zap.Logger
	open      atomic.Bool
}

// NewStore creates a closed store; call Open before use.
func NewStore(client API, tableName string, logger *zap.Logger) *Store {
	return &Store{client: client, tableName: tableName, logger: logger}
}

// Open verifies the table is reachable and marks the store usable.
func (s *Store) Open(ctx context.Context) error {
	if err := s.describe(ctx); err != nil {
		return err
	}
	s.open.Store(true)
	s.logger.Info("DynamoDB store opened", zap.String("table", s.tableName))
	return nil
}

// Close marks the store unusable. The SDK client holds no connection to release.
func (s *Store) Close(_ context.Context) error {
	s.open.Store(false)
	return nil
}

// Ping checks the table is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if !s.open.Load() {
		return ports.ErrStoreClosed
	}
	return s.describe(ctx)
}

func (s *Store) describe(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.tableName)})
	if err != nil {
		return fmt.Errorf("failed to describe table %s: %w", s.tableName, err)
	}
	return nil
}

func (s *Store) Journeys() ports.JourneyRepository { return &JourneyRepository{s: s} }
func (s *Store) Chapters() ports.ChapterRepository { return &ChapterRepository{s: s} }
func (s *Store) Notes() ports.NoteRepository       { return &NoteRepository{s: s} }
func (s *Store) Users() ports.UserRepository       { return &UserRepository{s: s} }

func (s *Store) checkOpen() error {
	if !s.open.Load() {
		return ports.ErrStoreClosed
	}
	return nil
}

func entityKey(prefix, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: prefix + id},
		"SK": &types.AttributeValueMemberS{Value: skMetadata},
	}
}

// parseKey normalizes a caller id; ok is false when the id can never match an item.
func parseKey(id string) (string, bool) {
	parsed, err := valueobjects.ParseEntityID(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func (s *Store) put(ctx context.Context, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	cond := expression.Name("PK").AttributeNotExists()
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.tableName),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// get loads the item under key into out; found is false when absent.
func (s *Store) get(ctx context.Context, key map[string]types.AttributeValue, out interface{}) (bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       key,
	})
	if err != nil {
		return false, fmt.Errorf("failed to get item: %w", err)
	}
	if len(result.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return true, nil
}

// update runs a conditional update; matched is false when the condition failed.
func (s *Store) update(ctx context.Context, key map[string]types.AttributeValue, upd expression.UpdateBuilder, cond expression.ConditionBuilder) (bool, error) {
	expr, err := expression.NewBuilder().WithUpdate(upd).WithCondition(cond).Build()
	if err != nil {
		return false, fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update item: %w", err)
	}
	return true, nil
}

// remove runs a conditional delete; removed is false when the condition failed.
func (s *Store) remove(ctx context.Context, key map[string]types.AttributeValue, cond expression.ConditionBuilder) (bool, error) {
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return false, fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       key,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete item: %w", err)
	}
	return true, nil
}

// query pages through an index and unmarshals every item into out (a pointer to a slice).
func (s *Store) query(ctx context.Context, index string, keyCond expression.KeyConditionBuilder, out interface{}) error {
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", index, err)
		}
		items = append(items, page.Items...)
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return nil
}

// scan pages through the table with a filter and unmarshals into out.
func (s *Store) scan(ctx context.Context, filter expression.ConditionBuilder, out interface{}) error {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(s.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to scan table: %w", err)
		}
		items = append(items, page.Items...)
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return nil
}

var _ ports.Store = (*Store)(nil)
