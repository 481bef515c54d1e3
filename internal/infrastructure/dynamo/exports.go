package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/go-training-admin/internal/domain"
)

// ExportRepo stores the metadata of generated CSV exports.
type ExportRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewExportRepo(client *dynamodb.Client, tableName string) *ExportRepo {
	return &ExportRepo{client: client, tableName: tableName}
}

func (r *ExportRepo) Put(ctx context.Context, e *domain.Export) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ExportRepo) Get(ctx context.Context, exportID string) (*domain.Export, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("export_id", exportID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("export not found: %w", domain.ErrNotFound)
	}
	var e domain.Export
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns every export in table order.
func (r *ExportRepo) List(ctx context.Context) ([]domain.Export, error) {
	exports := []domain.Export{}
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var page []domain.Export
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		exports = append(exports, page...)
	}
	return exports, nil
}

func (r *ExportRepo) Delete(ctx context.Context, exportID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("export_id", exportID),
		ConditionExpression: aws.String("attribute_exists(export_id)"),
	})
	return notFoundOnCondition(err, "export")
}
