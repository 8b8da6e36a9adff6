package handlers

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"stylegraph/application/ports"
	"stylegraph/application/queries"
	"stylegraph/application/queries/bus"
	"stylegraph/domain/catalog"
	"stylegraph/pkg/errors"
	"stylegraph/pkg/observability"
)

// defaultProductLimit caps the listing when the caller does not page
const defaultProductLimit = 50

// relevanceScoreFloor is the edge strength below which a neighbor does
// not count as relevant: 3 of the 5 possible similarity points.
const relevanceScoreFloor = 3.0

// GetProductsHandler serves the catalog listing and, when an external
// recommendation set is supplied, scores the centrality-tagged products
// against their strong similarity neighborhood
type GetProductsHandler struct {
	productRepo ports.ProductRepository
	edgeRepo    ports.EdgeRepository
	collector   *observability.Collector
	logger      *zap.Logger
}

// NewGetProductsHandler creates a new handler instance
func NewGetProductsHandler(productRepo ports.ProductRepository, edgeRepo ports.EdgeRepository, collector *observability.Collector, logger *zap.Logger) *GetProductsHandler {
	return &GetProductsHandler{productRepo: productRepo, edgeRepo: edgeRepo, collector: collector, logger: logger}
}

// Handle lists products ordered by centrality
func (h *GetProductsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetProductsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	products, err := h.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	// Externally recommended products carry the ai tag in the response,
	// overriding whatever tag the build pass assigned.
	recommended := make(map[string]bool, len(q.RecommendedIDs))
	for _, id := range q.RecommendedIDs {
		recommended[id] = true
	}

	// Externally recommended products lead, then centrality order.
	sort.SliceStable(products, func(i, j int) bool {
		if recommended[products[i].ID] != recommended[products[j].ID] {
			return recommended[products[i].ID]
		}
		return products[i].PageRank > products[j].PageRank
	})

	// Quality is measured against the whole catalog, not the page.
	var quality *queries.RecommendationQuality
	if len(q.RecommendedIDs) > 0 {
		metrics, err := h.evaluateRecommendations(ctx, products, recommended)
		if err != nil {
			return nil, err
		}
		quality = &metrics
		h.collector.RecommendPrecision.Set(metrics.Precision)
		h.collector.RecommendRecall.Set(metrics.Recall)
		h.collector.RecommendF1.Set(metrics.F1)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultProductLimit
	}
	if len(products) > limit {
		products = products[:limit]
	}

	result := queries.ProductsResult{
		Products: make([]queries.ProductDTO, 0, len(products)),
	}
	for _, p := range products {
		dto := queries.ProductDTO{
			ID:       p.ID,
			Name:     p.Name,
			Brand:    p.Brand,
			Gender:   p.Gender,
			Price:    p.Price,
			Color:    p.Color,
			PageRank: p.PageRank,
		}
		switch {
		case recommended[p.ID]:
			dto.RecommendationType = string(catalog.TagAI)
		case p.Tag != catalog.TagOther:
			dto.RecommendationType = string(p.Tag)
		}
		result.Products = append(result.Products, dto)
	}

	result.Quality = quality

	return result, nil
}

// evaluateRecommendations scores the centrality-tagged products against
// the relevant neighborhood their own similarity edges span: a product is
// relevant when a strong edge leaves a tagged product toward a same-gender
// product sharing its brand or color. Precision is measured over the
// tagged set, recall over the relevant set. Externally recommended
// products carry the ai tag and are left out of the tagged set.
func (h *GetProductsHandler) evaluateRecommendations(ctx context.Context, products []*catalog.Product, recommended map[string]bool) (queries.RecommendationQuality, error) {
	byID := make(map[string]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	tagged := make(map[string]bool)
	for _, p := range products {
		if p.Tag == catalog.TagPagerank && !recommended[p.ID] {
			tagged[p.ID] = true
		}
	}

	relevant := make(map[string]bool)
	for id := range tagged {
		edges, err := h.edgeRepo.GetByProductID(ctx, id)
		if err != nil {
			return queries.RecommendationQuality{}, err
		}
		for _, e := range edges {
			if e.SourceID != id || e.SimilarityScore < relevanceScoreFloor {
				continue
			}
			if !e.SameGender || !(e.SameBrand || e.SameColor) {
				continue
			}
			if byID[e.TargetID] == nil {
				continue
			}
			relevant[e.TargetID] = true
		}
	}

	var truePositives int
	for id := range tagged {
		if relevant[id] {
			truePositives++
		}
	}

	var quality queries.RecommendationQuality
	if len(tagged) > 0 {
		quality.Precision = float64(truePositives) / float64(len(tagged))
	}
	if len(relevant) > 0 {
		quality.Recall = float64(truePositives) / float64(len(relevant))
	}
	if quality.Precision+quality.Recall > 0 {
		quality.F1 = 2 * quality.Precision * quality.Recall / (quality.Precision + quality.Recall)
	}
	return quality, nil
}

// GetProductHandler serves a single product lookup
type GetProductHandler struct {
	productRepo ports.ProductRepository
}

// NewGetProductHandler creates a new handler instance
func NewGetProductHandler(productRepo ports.ProductRepository) *GetProductHandler {
	return &GetProductHandler{productRepo: productRepo}
}

// Handle fetches one product by id
func (h *GetProductHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetProductQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	p, err := h.productRepo.GetByID(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product %s not found", q.ID))
	}

	dto := queries.ProductDTO{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Gender:   p.Gender,
		Price:    p.Price,
		Color:    p.Color,
		PageRank: p.PageRank,
	}
	if p.Tag != catalog.TagOther {
		dto.RecommendationType = string(p.Tag)
	}
	return dto, nil
}
