package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-marketing-api/internal/domain"
)

// MembershipRepo provides DynamoDB operations for the
// contact_list_memberships join table and resolves lists to their member
// contacts. PK: membership_id. GSI: contact_list_id-created_at-index.
type MembershipRepo struct {
	client    *dynamodb.Client
	tableName string
	contacts  *ContactRepo
}

func NewMembershipRepo(client *dynamodb.Client, tableName string, contacts *ContactRepo) *MembershipRepo {
	return &MembershipRepo{client: client, tableName: tableName, contacts: contacts}
}

func (r *MembershipRepo) Put(ctx context.Context, m *domain.ContactListMembership) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal membership: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put membership: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}

func (r *MembershipRepo) ListByList(ctx context.Context, contactListID string) ([]domain.ContactListMembership, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("contact_list_id-created_at-index"),
		KeyConditionExpression:    aws.String("contact_list_id = :l"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":l": &types.AttributeValueMemberS{Value: contactListID}},
	})
	if err != nil {
		return nil, fmt.Errorf("query memberships: %v: %w", err, domain.ErrPersistenceFailed)
	}
	var memberships []domain.ContactListMembership
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListContactsForList resolves a list's members to contact rows. With a
// non-empty requiredField ("email" or "phone"), contacts missing that field
// are skipped. Dangling memberships (deleted contacts) are skipped too.
func (r *MembershipRepo) ListContactsForList(ctx context.Context, contactListID, requiredField string) ([]domain.Contact, error) {
	memberships, err := r.ListByList(ctx, contactListID)
	if err != nil {
		return nil, err
	}
	contacts := make([]domain.Contact, 0, len(memberships))
	for _, m := range memberships {
		c, err := r.contacts.Get(ctx, m.ContactID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		switch requiredField {
		case domain.ContactFieldEmail:
			if c.Email == "" {
				continue
			}
		case domain.ContactFieldPhone:
			if c.Phone == "" {
				continue
			}
		}
		contacts = append(contacts, *c)
	}
	return contacts, nil
}

func (r *MembershipRepo) Delete(ctx context.Context, membershipID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("membership_id", membershipID),
	})
	if err != nil {
		return fmt.Errorf("delete membership: %v: %w", err, domain.ErrPersistenceFailed)
	}
	return nil
}
