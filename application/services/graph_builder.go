// Package services contains the application services that orchestrate the
// domain: graph building, chat recommendations, and layout sessions.
package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"stylegraph/application/ports"
	"stylegraph/domain/catalog"
	"stylegraph/domain/events"
	"stylegraph/domain/graph"
	"stylegraph/domain/services"
	"stylegraph/pkg/observability"
)

// GraphBuilder derives the similarity graph from the catalog: edges from
// attribute overlap, centrality from weighted PageRank, and recommendation
// tags on the most central products.
type GraphBuilder struct {
	productRepo ports.ProductRepository
	edgeRepo    ports.EdgeRepository
	publisher   ports.EventPublisher
	scorer      *services.SimilarityScorer
	pagerankCfg services.PagerankConfig
	tagCount    int
	collector   *observability.Collector
	logger      *zap.Logger
}

// NewGraphBuilder creates a graph builder. tagCount is how many of the most
// central products receive the pagerank recommendation tag.
func NewGraphBuilder(
	productRepo ports.ProductRepository,
	edgeRepo ports.EdgeRepository,
	publisher ports.EventPublisher,
	scorer *services.SimilarityScorer,
	tagCount int,
	collector *observability.Collector,
	logger *zap.Logger,
) *GraphBuilder {
	if tagCount <= 0 {
		tagCount = 10
	}
	return &GraphBuilder{
		productRepo: productRepo,
		edgeRepo:    edgeRepo,
		publisher:   publisher,
		scorer:      scorer,
		pagerankCfg: services.DefaultPagerankConfig(),
		tagCount:    tagCount,
		collector:   collector,
		logger:      logger,
	}
}

// Rebuild recomputes edges, centrality and tags for the whole catalog and
// persists the results. It returns the node and edge counts of the rebuilt
// graph.
func (b *GraphBuilder) Rebuild(ctx context.Context) (int, int, error) {
	started := time.Now()

	products, err := b.productRepo.GetAll(ctx)
	if err != nil {
		return 0, 0, err
	}

	edges := b.scorer.DeriveEdges(products)
	scores := services.ComputePagerank(products, edges, b.pagerankCfg)

	for _, p := range products {
		p.PageRank = scores[p.ID]
		p.Tag = catalog.TagOther
	}
	for _, p := range topByPagerank(products, b.tagCount) {
		p.Tag = catalog.TagPagerank
	}

	if err := b.productRepo.BulkSave(ctx, products); err != nil {
		return 0, 0, err
	}
	if err := b.edgeRepo.ReplaceAll(ctx, edges); err != nil {
		return 0, 0, err
	}

	if b.publisher != nil {
		event := events.NewGraphRebuilt(len(products), len(edges), time.Now())
		if err := b.publisher.Publish(ctx, event); err != nil {
			b.logger.Warn("publishing graph rebuilt event failed", zap.Error(err))
		}
	}

	b.collector.GraphBuilds.Inc()
	b.collector.EdgesDerived.Add(float64(len(edges)))

	b.logger.Info("graph rebuilt",
		zap.Int("products", len(products)),
		zap.Int("edges", len(edges)),
		zap.Duration("elapsed", time.Since(started)))

	return len(products), len(edges), nil
}

// Reload re-reads the catalog from its source, replaces the stored
// products and rebuilds the graph.
func (b *GraphBuilder) Reload(ctx context.Context, loader ports.CatalogLoader, source string) (int, int, error) {
	products, err := loader.Load(ctx, source)
	if err != nil {
		return 0, 0, err
	}

	if err := b.productRepo.BulkSave(ctx, products); err != nil {
		return 0, 0, err
	}

	if b.publisher != nil {
		event := events.NewCatalogReloaded(source, len(products), time.Now())
		if err := b.publisher.Publish(ctx, event); err != nil {
			b.logger.Warn("publishing catalog reloaded event failed", zap.Error(err))
		}
	}

	b.logger.Info("catalog reloaded",
		zap.String("source", source),
		zap.Int("products", len(products)))

	return b.Rebuild(ctx)
}

// Snapshot assembles the current persisted graph into the wire-level node
// and link form consumed by the classifier and the layout engine.
func (b *GraphBuilder) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	products, err := b.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := b.edgeRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]*graph.Node, 0, len(products))
	for _, p := range products {
		nodes = append(nodes, &graph.Node{
			ID:     p.ID,
			Name:   p.Name,
			Brand:  p.Brand,
			Gender: p.Gender,
			Price:  p.Price,
			Color:  p.Color,
			Value:  p.PageRank,
			Hint:   hintForTag(p.Tag),
		})
	}

	links := make([]graph.Link, 0, len(edges))
	for _, e := range edges {
		links = append(links, graph.Link{
			SourceID:        e.SourceID,
			TargetID:        e.TargetID,
			SimilarityScore: e.SimilarityScore,
		})
	}

	snapshot, dropped := graph.NewSnapshot(nodes, links)
	if dropped > 0 {
		b.collector.EdgesDropped.Add(float64(dropped))
		b.logger.Warn("links dropped during snapshot assembly", zap.Int("dropped", dropped))
	}

	return snapshot, nil
}

func hintForTag(tag catalog.RecommendationTag) graph.Hint {
	switch tag {
	case catalog.TagAI:
		return graph.HintAI
	case catalog.TagPagerank:
		return graph.HintPagerank
	case catalog.TagConnected:
		return graph.HintConnected
	default:
		return graph.HintNone
	}
}

// topByPagerank returns the n most central products without reordering the
// input slice.
func topByPagerank(products []*catalog.Product, n int) []*catalog.Product {
	ranked := make([]*catalog.Product, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PageRank > ranked[j].PageRank
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
