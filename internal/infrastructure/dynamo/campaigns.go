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

// CampaignRepo provides typed DynamoDB operations for the campaigns table.
// PK: campaign_id. GSI: user_id-created_at-index.
type CampaignRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCampaignRepo(client *dynamodb.Client, tableName string) *CampaignRepo {
	return &CampaignRepo{client: client, tableName: tableName}
}

func (r *CampaignRepo) Put(ctx context.Context, c *domain.Campaign) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal campaign: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put campaign: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}

func (r *CampaignRepo) Get(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("campaign_id", campaignID),
	})
	if err != nil {
		return nil, fmt.Errorf("get campaign: %v: %w", err, domain.ErrPersistenceFailed)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("campaign not found: %w", domain.ErrNotFound)
	}
	var c domain.Campaign
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) ListByUser(ctx context.Context, userID string) ([]domain.Campaign, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-created_at-index"),
		KeyConditionExpression:    aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: userID}},
		ScanIndexForward:          aws.Bool(false), // newest first
	})
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %v: %w", err, domain.ErrPersistenceFailed)
	}
	var campaigns []domain.Campaign
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, campaignID, status string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("campaign_id", campaignID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		return fmt.Errorf("update campaign status: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}

// MarkSent transitions sending -> sent and stamps sent_at. The condition
// makes the terminal transition happen at most once per dispatch run.
func (r *CampaignRepo) MarkSent(ctx context.Context, campaignID string, sentAt time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"status":     domain.CampaignStatusSent,
		"sent_at":    sentAt,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	ue.Names["#s"] = "status"
	ue.Values[":sending"] = &types.AttributeValueMemberS{Value: domain.CampaignStatusSending}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("campaign_id", campaignID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#s = :sending"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("campaign %s is not sending: %w", campaignID, domain.ErrConflict)
		}
		return fmt.Errorf("mark campaign sent: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}

// Reset returns a campaign to draft and removes sent_at so it can be
// dispatched again.
func (r *CampaignRepo) Reset(ctx context.Context, campaignID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("campaign_id", campaignID),
		UpdateExpression: aws.String("SET #s = :draft, updated_at = :now REMOVE sent_at"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":draft": &types.AttributeValueMemberS{Value: domain.CampaignStatusDraft},
			":now":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		return fmt.Errorf("reset campaign: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}
