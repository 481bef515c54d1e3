package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/go-training-admin/internal/domain"
)

// DispatchRepo logs outbound deliveries of notifications.
type DispatchRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDispatchRepo(client *dynamodb.Client, tableName string) *DispatchRepo {
	return &DispatchRepo{client: client, tableName: tableName}
}

func (r *DispatchRepo) Put(ctx context.Context, d *domain.Dispatch) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal dispatch: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByNotification returns the deliveries of one notification, oldest first.
func (r *DispatchRepo) ListByNotification(ctx context.Context, notificationID int64) ([]domain.Dispatch, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("notification_id-created_at-index"),
		KeyConditionExpression: aws.String("notification_id = :nid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":nid": numValue(notificationID),
		},
	})
	if err != nil {
		return nil, err
	}
	dispatches := []domain.Dispatch{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &dispatches); err != nil {
		return nil, err
	}
	return dispatches, nil
}
