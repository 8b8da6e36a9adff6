package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"stylegraph/application/ports"
	"stylegraph/domain/catalog"
)

// EdgeRepository implements ports.EdgeRepository using DynamoDB. Edge sets
// are always written whole after a rebuild; the previous set is deleted
// first.
type EdgeRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewEdgeRepository creates a new EdgeRepository
func NewEdgeRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *EdgeRepository {
	return &EdgeRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.EdgeRepository = (*EdgeRepository)(nil)

// edgeItem represents the DynamoDB item structure for a similarity edge
type edgeItem struct {
	PK              string  `dynamodbav:"PK"`
	SK              string  `dynamodbav:"SK"`
	EntityType      string  `dynamodbav:"EntityType"`
	SourceID        string  `dynamodbav:"SourceID"`
	TargetID        string  `dynamodbav:"TargetID"`
	SameBrand       bool    `dynamodbav:"SameBrand"`
	SameGender      bool    `dynamodbav:"SameGender"`
	SameColor       bool    `dynamodbav:"SameColor"`
	PriceDiff       float64 `dynamodbav:"PriceDiff"`
	SimilarityScore float64 `dynamodbav:"SimilarityScore"`
}

func toEdgeItem(e catalog.SimilarityEdge) edgeItem {
	return edgeItem{
		PK:              fmt.Sprintf("EDGE#%s", e.SourceID),
		SK:              fmt.Sprintf("TARGET#%s", e.TargetID),
		EntityType:      "EDGE",
		SourceID:        e.SourceID,
		TargetID:        e.TargetID,
		SameBrand:       e.SameBrand,
		SameGender:      e.SameGender,
		SameColor:       e.SameColor,
		PriceDiff:       e.PriceDiff,
		SimilarityScore: e.SimilarityScore,
	}
}

func (i edgeItem) toEdge() catalog.SimilarityEdge {
	return catalog.SimilarityEdge{
		SourceID:        i.SourceID,
		TargetID:        i.TargetID,
		SameBrand:       i.SameBrand,
		SameGender:      i.SameGender,
		SameColor:       i.SameColor,
		PriceDiff:       i.PriceDiff,
		SimilarityScore: i.SimilarityScore,
	}
}

// ReplaceAll deletes the stored edge set and writes the new one
func (r *EdgeRepository) ReplaceAll(ctx context.Context, edges []catalog.SimilarityEdge) error {
	existing, err := r.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading existing edges: %w", err)
	}

	deletes := make([]types.WriteRequest, 0, len(existing))
	for _, e := range existing {
		item := toEdgeItem(e)
		deletes = append(deletes, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: item.PK},
					"SK": &types.AttributeValueMemberS{Value: item.SK},
				},
			},
		})
	}

	puts := make([]types.WriteRequest, 0, len(edges))
	for _, e := range edges {
		av, err := attributevalue.MarshalMap(toEdgeItem(e))
		if err != nil {
			return fmt.Errorf("marshaling edge %s->%s: %w", e.SourceID, e.TargetID, err)
		}
		puts = append(puts, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}

	// Puts run after deletes so an edge surviving the rebuild is written
	// back, not lost.
	if err := r.writeBatches(ctx, deletes); err != nil {
		return err
	}
	if err := r.writeBatches(ctx, puts); err != nil {
		return err
	}

	r.logger.Info("edge set replaced",
		zap.Int("deleted", len(deletes)),
		zap.Int("written", len(puts)))
	return nil
}

func (r *EdgeRepository) writeBatches(ctx context.Context, writes []types.WriteRequest) error {
	const batchSize = 25

	for start := 0; start < len(writes); start += batchSize {
		end := start + batchSize
		if end > len(writes) {
			end = len(writes)
		}

		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.tableName: writes[start:end]},
		})
		if err != nil {
			return fmt.Errorf("batch writing edges: %w", err)
		}
		if unprocessed := out.UnprocessedItems[r.tableName]; len(unprocessed) > 0 {
			retry, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{r.tableName: unprocessed},
			})
			if err != nil {
				return fmt.Errorf("retrying unprocessed edges: %w", err)
			}
			if len(retry.UnprocessedItems[r.tableName]) > 0 {
				return fmt.Errorf("edges remain unprocessed after retry")
			}
		}
	}

	return nil
}

// GetAll scans every edge item
func (r *EdgeRepository) GetAll(ctx context.Context) ([]catalog.SimilarityEdge, error) {
	filt := expression.Name("EntityType").Equal(expression.Value("EDGE"))
	expr, err := expression.NewBuilder().WithFilter(filt).Build()
	if err != nil {
		return nil, fmt.Errorf("building scan expression: %w", err)
	}

	var edges []catalog.SimilarityEdge
	var lastKey map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scanning edges: %w", err)
		}

		for _, raw := range out.Items {
			var item edgeItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("skipping unreadable edge item", zap.Error(err))
				continue
			}
			edges = append(edges, item.toEdge())
		}

		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	return edges, nil
}

// GetByProductID queries outgoing edges by key and filters incoming ones
// from a scan
func (r *EdgeRepository) GetByProductID(ctx context.Context, productID string) ([]catalog.SimilarityEdge, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(fmt.Sprintf("EDGE#%s", productID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("building query expression: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("querying edges for %s: %w", productID, err)
	}

	edges := make([]catalog.SimilarityEdge, 0, len(out.Items))
	for _, raw := range out.Items {
		var item edgeItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("skipping unreadable edge item", zap.Error(err))
			continue
		}
		edges = append(edges, item.toEdge())
	}

	// Incoming edges live under the source's partition, so they need the
	// full set.
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range all {
		if e.TargetID == productID {
			edges = append(edges, e)
		}
	}

	return edges, nil
}
