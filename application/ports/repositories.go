package ports

import (
	"context"

	"stylegraph/domain/catalog"
	"stylegraph/domain/events"
)

// ProductRepository defines the interface for product persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type ProductRepository interface {
	// Save persists a product (create or update)
	Save(ctx context.Context, product *catalog.Product) error

	// BulkSave saves multiple products in one operation
	BulkSave(ctx context.Context, products []*catalog.Product) error

	// GetByID retrieves a product by its ID
	GetByID(ctx context.Context, id string) (*catalog.Product, error)

	// GetAll retrieves every product in the catalog
	GetAll(ctx context.Context) ([]*catalog.Product, error)

	// Search finds products matching the given criteria
	Search(ctx context.Context, criteria SearchCriteria) ([]*catalog.Product, error)

	// Count returns the number of stored products
	Count(ctx context.Context) (int, error)
}

// EdgeRepository defines the interface for similarity edge persistence
type EdgeRepository interface {
	// ReplaceAll atomically swaps the full derived edge set
	ReplaceAll(ctx context.Context, edges []catalog.SimilarityEdge) error

	// GetAll retrieves every derived edge
	GetAll(ctx context.Context) ([]catalog.SimilarityEdge, error)

	// GetByProductID retrieves all edges touching a product
	GetByProductID(ctx context.Context, productID string) ([]catalog.SimilarityEdge, error)
}

// SearchCriteria defines search parameters
type SearchCriteria struct {
	Gender   string
	Color    string
	NameLike string
	Limit    int
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error
}

// CatalogLoader reads products from an external catalog source
type CatalogLoader interface {
	// Load parses the source and returns the products it contains
	Load(ctx context.Context, source string) ([]*catalog.Product, error)
}

// ChatProvider defines the interface for the conversational model behind
// the chat collaborator
type ChatProvider interface {
	// Complete answers a prompt with the given catalog context
	Complete(ctx context.Context, prompt, contextBlock string) (string, error)

	// Name identifies the provider in logs
	Name() string
}
