package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoSlot persists carts in a DynamoDB table keyed by owner, one item
// per cart with the lines serialized as a JSON string attribute.
type DynamoSlot struct {
	client    *dynamodb.Client
	tableName string
}

type dynamoCartItem struct {
	Owner     string `dynamodbav:"owner"`
	Lines     string `dynamodbav:"lines"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func NewDynamoSlot(client *dynamodb.Client, tableName string) *DynamoSlot {
	return &DynamoSlot{client: client, tableName: tableName}
}

func (d *DynamoSlot) Load(ctx context.Context, owner string) ([]Line, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"owner": &types.AttributeValueMemberS{Value: owner},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamo get failed: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item dynamoCartItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal cart item failed: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(item.Lines), &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart lines failed: %w", err)
	}
	return lines, nil
}

func (d *DynamoSlot) Save(ctx context.Context, owner string, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	av, err := attributevalue.MarshalMap(dynamoCartItem{
		Owner:     owner,
		Lines:     string(data),
		UpdatedAt: time.Now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal cart item failed: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamo put failed: %w", err)
	}
	return nil
}

func (d *DynamoSlot) Clear(ctx context.Context, owner string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"owner": &types.AttributeValueMemberS{Value: owner},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamo delete failed: %w", err)
	}
	return nil
}
