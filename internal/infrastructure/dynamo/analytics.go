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

// AnalyticsRepo provides append-only DynamoDB operations for the
// campaign_analytics table. PK: analytics_id. GSI: campaign_id-created_at.
// Rows are never updated after insert.
type AnalyticsRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAnalyticsRepo(client *dynamodb.Client, tableName string) *AnalyticsRepo {
	return &AnalyticsRepo{client: client, tableName: tableName}
}

func (r *AnalyticsRepo) Put(ctx context.Context, a *domain.CampaignAnalytics) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal analytics: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put analytics: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}

func (r *AnalyticsRepo) ListByCampaign(ctx context.Context, campaignID string) ([]domain.CampaignAnalytics, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("campaign_id-created_at-index"),
		KeyConditionExpression:    aws.String("campaign_id = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":c": &types.AttributeValueMemberS{Value: campaignID}},
		ScanIndexForward:          aws.Bool(false), // newest first
	})
	if err != nil {
		return nil, fmt.Errorf("query analytics: %v: %w", err, domain.ErrPersistenceFailed)
	}
	var rows []domain.CampaignAnalytics
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
