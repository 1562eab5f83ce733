package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-marketing-api/internal/domain"
)

// BatchRepo provides typed DynamoDB operations for the verification_batches
// table. PK: batch_id. GSI: user_id-created_at-index.
type BatchRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBatchRepo(client *dynamodb.Client, tableName string) *BatchRepo {
	return &BatchRepo{client: client, tableName: tableName}
}

func (r *BatchRepo) Put(ctx context.Context, b *domain.VerificationBatch) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put batch: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}

func (r *BatchRepo) Get(ctx context.Context, batchID string) (*domain.VerificationBatch, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("batch_id", batchID),
	})
	if err != nil {
		return nil, fmt.Errorf("get batch: %v: %w", err, domain.ErrPersistenceFailed)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("batch not found: %w", domain.ErrNotFound)
	}
	var b domain.VerificationBatch
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatchRepo) ListByUser(ctx context.Context, userID string) ([]domain.VerificationBatch, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-created_at-index"),
		KeyConditionExpression:    aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: userID}},
		ScanIndexForward:          aws.Bool(false), // newest first
	})
	if err != nil {
		return nil, fmt.Errorf("query batches: %v: %w", err, domain.ErrPersistenceFailed)
	}
	var batches []domain.VerificationBatch
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &batches); err != nil {
		return nil, err
	}
	return batches, nil
}

// counterAttr maps a per-item status to its batch counter attribute.
func counterAttr(itemStatus string) string {
	switch itemStatus {
	case domain.EmailStatusValid:
		return "valid_emails"
	case domain.EmailStatusInvalid:
		return "invalid_emails"
	case domain.EmailStatusRisky:
		return "risky_emails"
	default:
		return "unknown_emails"
	}
}

// IncrementProgress atomically bumps processed_emails and the counter for
// itemStatus in a single update, so observers polling the row always see
// monotonically increasing, consistent counts. Rejected once the batch has
// left pending.
func (r *BatchRepo) IncrementProgress(ctx context.Context, batchID, itemStatus string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("batch_id", batchID),
		UpdateExpression:    aws.String("ADD processed_emails :one, #c :one"),
		ConditionExpression: aws.String("#s = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#c": counterAttr(itemStatus),
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":     &types.AttributeValueMemberN{Value: "1"},
			":pending": &types.AttributeValueMemberS{Value: domain.BatchStatusPending},
		},
	})
	if err != nil {
		return fmt.Errorf("increment batch progress: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}

// Finalize writes the terminal status, absolute counters and completed_at.
// The pending condition guarantees a batch reaches exactly one terminal
// state; a second finalize attempt fails with a conflict.
func (r *BatchRepo) Finalize(ctx context.Context, b *domain.VerificationBatch) error {
	completedAt := time.Now().UTC()
	if b.CompletedAt != nil {
		completedAt = *b.CompletedAt
	}
	ue, err := buildUpdateExpr(map[string]interface{}{
		"status":           b.Status,
		"processed_emails": b.Processed,
		"valid_emails":     b.Valid,
		"invalid_emails":   b.Invalid,
		"risky_emails":     b.Risky,
		"unknown_emails":   b.Unknown,
		"completed_at":     completedAt,
	})
	if err != nil {
		return err
	}
	ue.Names["#s"] = "status"
	ue.Values[":pending"] = &types.AttributeValueMemberS{Value: domain.BatchStatusPending}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("batch_id", b.BatchID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#s = :pending"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("batch %s already finalized: %w", b.BatchID, domain.ErrConflict)
		}
		return fmt.Errorf("finalize batch: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}
