// Package dynamodb implements the persistence ports against DynamoDB for
// deployments that want the catalog and derived graph to survive restarts.
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

// ProductRepository implements ports.ProductRepository using DynamoDB
type ProductRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

// productItem represents the DynamoDB item structure for a product
type productItem struct {
	PK          string  `dynamodbav:"PK"`
	SK          string  `dynamodbav:"SK"`
	EntityType  string  `dynamodbav:"EntityType"`
	ProductID   string  `dynamodbav:"ProductID"`
	Name        string  `dynamodbav:"Name"`
	Brand       string  `dynamodbav:"Brand,omitempty"`
	Gender      string  `dynamodbav:"Gender,omitempty"`
	Price       float64 `dynamodbav:"Price"`
	Color       string  `dynamodbav:"Color,omitempty"`
	Description string  `dynamodbav:"Description,omitempty"`
	NumImages   int     `dynamodbav:"NumImages,omitempty"`
	PageRank    float64 `dynamodbav:"PageRank"`
	Tag         string  `dynamodbav:"Tag"`
}

func productKey(id string) string {
	return fmt.Sprintf("PRODUCT#%s", id)
}

func toProductItem(p *catalog.Product) productItem {
	return productItem{
		PK:          productKey(p.ID),
		SK:          "METADATA",
		EntityType:  "PRODUCT",
		ProductID:   p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Gender:      p.Gender,
		Price:       p.Price,
		Color:       p.Color,
		Description: p.Description,
		NumImages:   p.NumImages,
		PageRank:    p.PageRank,
		Tag:         string(p.Tag),
	}
}

func (i productItem) toProduct() *catalog.Product {
	tag := catalog.RecommendationTag(i.Tag)
	if tag == "" {
		tag = catalog.TagOther
	}
	return &catalog.Product{
		ID:          i.ProductID,
		Name:        i.Name,
		Brand:       i.Brand,
		Gender:      i.Gender,
		Price:       i.Price,
		Color:       i.Color,
		Description: i.Description,
		NumImages:   i.NumImages,
		PageRank:    i.PageRank,
		Tag:         tag,
	}
}

// Save persists a product to DynamoDB
func (r *ProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	av, err := attributevalue.MarshalMap(toProductItem(product))
	if err != nil {
		return fmt.Errorf("marshaling product %s: %w", product.ID, err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("saving product %s: %w", product.ID, err)
	}
	return nil
}

// BulkSave persists products in batches of 25, the BatchWriteItem limit
func (r *ProductRepository) BulkSave(ctx context.Context, products []*catalog.Product) error {
	const batchSize = 25

	for start := 0; start < len(products); start += batchSize {
		end := start + batchSize
		if end > len(products) {
			end = len(products)
		}

		writes := make([]types.WriteRequest, 0, end-start)
		for _, p := range products[start:end] {
			av, err := attributevalue.MarshalMap(toProductItem(p))
			if err != nil {
				return fmt.Errorf("marshaling product %s: %w", p.ID, err)
			}
			writes = append(writes, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: av},
			})
		}

		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.tableName: writes},
		})
		if err != nil {
			return fmt.Errorf("batch writing products: %w", err)
		}
		if unprocessed := out.UnprocessedItems[r.tableName]; len(unprocessed) > 0 {
			r.logger.Warn("unprocessed items in batch write",
				zap.Int("count", len(unprocessed)))
			retry, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{r.tableName: unprocessed},
			})
			if err != nil {
				return fmt.Errorf("retrying unprocessed products: %w", err)
			}
			if len(retry.UnprocessedItems[r.tableName]) > 0 {
				return fmt.Errorf("products remain unprocessed after retry")
			}
		}
	}

	return nil
}

// GetByID retrieves a product, returning nil when absent
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: productKey(id)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting product %s: %w", id, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item productItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling product %s: %w", id, err)
	}
	return item.toProduct(), nil
}

// GetAll scans every product item
func (r *ProductRepository) GetAll(ctx context.Context) ([]*catalog.Product, error) {
	filt := expression.Name("EntityType").Equal(expression.Value("PRODUCT"))
	expr, err := expression.NewBuilder().WithFilter(filt).Build()
	if err != nil {
		return nil, fmt.Errorf("building scan expression: %w", err)
	}

	var products []*catalog.Product
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
			return nil, fmt.Errorf("scanning products: %w", err)
		}

		for _, raw := range out.Items {
			var item productItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("skipping unreadable product item", zap.Error(err))
				continue
			}
			products = append(products, item.toProduct())
		}

		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	return products, nil
}

// Search scans with attribute filters. The catalog is small, so a
// filtered scan is acceptable here.
func (r *ProductRepository) Search(ctx context.Context, criteria ports.SearchCriteria) ([]*catalog.Product, error) {
	filt := expression.Name("EntityType").Equal(expression.Value("PRODUCT"))
	if criteria.Gender != "" {
		filt = filt.And(expression.Name("Gender").Equal(expression.Value(criteria.Gender)))
	}
	if criteria.Color != "" {
		filt = filt.And(expression.Name("Color").Equal(expression.Value(criteria.Color)))
	}
	if criteria.NameLike != "" {
		filt = filt.And(expression.Name("Name").Contains(criteria.NameLike))
	}

	expr, err := expression.NewBuilder().WithFilter(filt).Build()
	if err != nil {
		return nil, fmt.Errorf("building search expression: %w", err)
	}

	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}

	products := make([]*catalog.Product, 0, len(out.Items))
	for _, raw := range out.Items {
		var item productItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("skipping unreadable product item", zap.Error(err))
			continue
		}
		products = append(products, item.toProduct())
	}

	if criteria.Limit > 0 && len(products) > criteria.Limit {
		products = products[:criteria.Limit]
	}
	return products, nil
}

// Count scans for the product count
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	filt := expression.Name("EntityType").Equal(expression.Value("PRODUCT"))
	expr, err := expression.NewBuilder().WithFilter(filt).Build()
	if err != nil {
		return 0, fmt.Errorf("building count expression: %w", err)
	}

	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Select:                    types.SelectCount,
	})
	if err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return int(out.Count), nil
}
