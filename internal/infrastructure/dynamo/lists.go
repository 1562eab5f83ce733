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

// ContactListRepo provides typed DynamoDB operations for the contact_lists
// table. PK: contact_list_id. GSI: user_id-created_at-index.
type ContactListRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewContactListRepo(client *dynamodb.Client, tableName string) *ContactListRepo {
	return &ContactListRepo{client: client, tableName: tableName}
}

func (r *ContactListRepo) Put(ctx context.Context, l *domain.ContactList) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal contact list: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put contact list: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}

func (r *ContactListRepo) Get(ctx context.Context, contactListID string) (*domain.ContactList, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("contact_list_id", contactListID),
	})
	if err != nil {
		return nil, fmt.Errorf("get contact list: %v: %w", err, domain.ErrPersistenceFailed)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("contact list not found: %w", domain.ErrNotFound)
	}
	var l domain.ContactList
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ContactListRepo) ListByUser(ctx context.Context, userID string) ([]domain.ContactList, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-created_at-index"),
		KeyConditionExpression:    aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: userID}},
		ScanIndexForward:          aws.Bool(false), // newest first
	})
	if err != nil {
		return nil, fmt.Errorf("query contact lists: %v: %w", err, domain.ErrPersistenceFailed)
	}
	var lists []domain.ContactList
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}
