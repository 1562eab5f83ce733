package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-marketing-api/internal/domain"
)

// ResultRepo provides typed DynamoDB operations for the email_verifications
// table. PK: verification_id. GSI: batch_id-seq-index, queried ascending so
// results come back in input order.
type ResultRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewResultRepo(client *dynamodb.Client, tableName string) *ResultRepo {
	return &ResultRepo{client: client, tableName: tableName}
}

func (r *ResultRepo) Put(ctx context.Context, res *domain.VerificationResult) error {
	item, err := attributevalue.MarshalMap(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put result: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}

func (r *ResultRepo) ListByBatch(ctx context.Context, batchID string) ([]domain.VerificationResult, error) {
	var results []domain.VerificationResult
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String("batch_id-seq-index"),
			KeyConditionExpression:    aws.String("batch_id = :b"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":b": &types.AttributeValueMemberS{Value: batchID}},
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query results: %v: %w", err, domain.ErrPersistenceFailed)
		}
		var page []domain.VerificationResult
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		results = append(results, page...)
		if out.LastEvaluatedKey == nil {
			return results, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
