package dynamo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/go-training-admin/internal/domain"
)

// AdminRepo provides typed DynamoDB operations for the admins table.
type AdminRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAdminRepo(client *dynamodb.Client, tableName string) *AdminRepo {
	return &AdminRepo{client: client, tableName: tableName}
}

func (r *AdminRepo) Put(ctx context.Context, a *domain.Admin) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal admin: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AdminRepo) Get(ctx context.Context, adminID string) (*domain.Admin, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("admin_id", adminID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("admin not found: %w", domain.ErrNotFound)
	}
	var a domain.Admin
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	return r.queryGSI(ctx, "username-index", "username", username)
}

// GetByEmail matches the lower-cased address; emails are stored lower-cased.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.queryGSI(ctx, "email-index", "email", strings.ToLower(email))
}

func (r *AdminRepo) Update(ctx context.Context, adminID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("admin_id", adminID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(admin_id)"),
	})
	return notFoundOnCondition(err, "admin")
}

func (r *AdminRepo) SetPassword(ctx context.Context, adminID, hash string) error {
	return r.Update(ctx, adminID, map[string]interface{}{fieldPasswordHash: hash})
}

func (r *AdminRepo) LinkGoogle(ctx context.Context, adminID, sub string) error {
	return r.Update(ctx, adminID, map[string]interface{}{fieldGoogleSub: sub})
}

// SoftDelete disables the account and stamps deleted_at.
func (r *AdminRepo) SoftDelete(ctx context.Context, adminID string) error {
	return r.Update(ctx, adminID, map[string]interface{}{
		fieldEnable:    0,
		fieldDeletedAt: time.Now().UTC(),
	})
}

// List scans the whole table and drops soft-deleted accounts. The admins table stays small.
func (r *AdminRepo) List(ctx context.Context) ([]domain.Admin, error) {
	var admins []domain.Admin
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var page []domain.Admin
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		for _, a := range page {
			if a.DeletedAt == nil {
				admins = append(admins, a)
			}
		}
	}
	return admins, nil
}

func (r *AdminRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.Admin, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("admin not found: %w", domain.ErrNotFound)
	}
	var a domain.Admin
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}
