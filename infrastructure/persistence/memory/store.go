// Package memory provides in-process implementations of the persistence
// ports. This is the default backend; the catalog is small enough to hold
// resident and the graph is rebuilt from source on startup anyway.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"stylegraph/application/ports"
	"stylegraph/domain/catalog"
)

// ProductStore is the in-memory ProductRepository
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]*catalog.Product
}

// NewProductStore creates an empty product store
func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]*catalog.Product)}
}

var _ ports.ProductRepository = (*ProductStore)(nil)

// Save persists one product
func (s *ProductStore) Save(_ context.Context, product *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *product
	s.products[product.ID] = &cp
	return nil
}

// BulkSave persists a batch of products
func (s *ProductStore) BulkSave(_ context.Context, products []*catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return nil
}

// GetByID returns the product or nil when absent
func (s *ProductStore) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetAll returns every product, ordered by id for deterministic output
func (s *ProductStore) GetAll(_ context.Context) ([]*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Search filters products by the given criteria
func (s *ProductStore) Search(_ context.Context, criteria ports.SearchCriteria) ([]*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*catalog.Product, 0)
	for _, p := range s.products {
		if criteria.Gender != "" && !strings.EqualFold(p.Gender, criteria.Gender) {
			continue
		}
		if criteria.Color != "" && !strings.EqualFold(p.Color, criteria.Color) {
			continue
		}
		if criteria.NameLike != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(criteria.NameLike)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if criteria.Limit > 0 && len(out) > criteria.Limit {
		out = out[:criteria.Limit]
	}
	return out, nil
}

// Count returns the number of stored products
func (s *ProductStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

// EdgeStore is the in-memory EdgeRepository. Writes come only as full
// replacements after a rebuild, so a slice behind a lock is enough.
type EdgeStore struct {
	mu    sync.RWMutex
	edges []catalog.SimilarityEdge
}

// NewEdgeStore creates an empty edge store
func NewEdgeStore() *EdgeStore {
	return &EdgeStore{}
}

var _ ports.EdgeRepository = (*EdgeStore)(nil)

// ReplaceAll swaps the full edge set
func (s *EdgeStore) ReplaceAll(_ context.Context, edges []catalog.SimilarityEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = append([]catalog.SimilarityEdge(nil), edges...)
	return nil
}

// GetAll returns every derived edge
func (s *EdgeStore) GetAll(_ context.Context) ([]catalog.SimilarityEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.SimilarityEdge(nil), s.edges...), nil
}

// GetByProductID returns all edges touching a product
func (s *EdgeStore) GetByProductID(_ context.Context, productID string) ([]catalog.SimilarityEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.SimilarityEdge, 0)
	for _, e := range s.edges {
		if e.SourceID == productID || e.TargetID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}
