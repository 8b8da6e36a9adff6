package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stylegraph/domain/catalog"
	"stylegraph/domain/graph"
	domainservices "stylegraph/domain/services"
	"stylegraph/infrastructure/persistence/memory"
	"stylegraph/pkg/observability"
)

func seedProducts(t *testing.T) []*catalog.Product {
	t.Helper()
	specs := []struct {
		id, brand, gender, color string
		price                    float64
	}{
		{"p1", "nike", "women", "black", 100},
		{"p2", "nike", "women", "black", 120},
		{"p3", "nike", "women", "red", 140},
		{"p4", "puma", "women", "black", 110},
		{"p5", "solo", "men", "green", 5000},
	}

	products := make([]*catalog.Product, 0, len(specs))
	for _, s := range specs {
		p, err := catalog.NewProduct(s.id, "product "+s.id, s.brand, s.gender, s.color, s.price)
		require.NoError(t, err)
		products = append(products, p)
	}
	return products
}

func newBuilder(t *testing.T) (*GraphBuilder, *memory.ProductStore, *memory.EdgeStore) {
	t.Helper()
	productStore := memory.NewProductStore()
	edgeStore := memory.NewEdgeStore()
	builder := NewGraphBuilder(
		productStore,
		edgeStore,
		nil,
		domainservices.NewSimilarityScorer(nil),
		2,
		observability.NewCollector("test"),
		zap.NewNop(),
	)
	return builder, productStore, edgeStore
}

func TestGraphBuilder_Rebuild(t *testing.T) {
	ctx := context.Background()
	builder, productStore, edgeStore := newBuilder(t)
	require.NoError(t, productStore.BulkSave(ctx, seedProducts(t)))

	nodes, edges, err := builder.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, nodes)
	assert.Greater(t, edges, 0)

	stored, err := edgeStore.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, edges)

	products, err := productStore.GetAll(ctx)
	require.NoError(t, err)

	var tagged int
	for _, p := range products {
		assert.GreaterOrEqual(t, p.PageRank, 0.0)
		assert.LessOrEqual(t, p.PageRank, 1.0)
		if p.Tag == catalog.TagPagerank {
			tagged++
		}
	}
	assert.Equal(t, 2, tagged, "exactly tagCount products carry the pagerank tag")
}

func TestGraphBuilder_Rebuild_EmptyCatalog(t *testing.T) {
	ctx := context.Background()
	builder, _, _ := newBuilder(t)

	nodes, edges, err := builder.Rebuild(ctx)
	require.NoError(t, err)
	assert.Zero(t, nodes)
	assert.Zero(t, edges)
}

func TestGraphBuilder_Snapshot(t *testing.T) {
	ctx := context.Background()
	builder, productStore, _ := newBuilder(t)
	require.NoError(t, productStore.BulkSave(ctx, seedProducts(t)))

	_, _, err := builder.Rebuild(ctx)
	require.NoError(t, err)

	snapshot, err := builder.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Nodes, 5)
	assert.NotEmpty(t, snapshot.Edges)

	var pagerankHints int
	for _, n := range snapshot.Nodes {
		if n.Hint == graph.HintPagerank {
			pagerankHints++
		}
	}
	assert.Equal(t, 2, pagerankHints, "tags survive the snapshot mapping")
}

type sliceLoader struct {
	products []*catalog.Product
}

func (l *sliceLoader) Load(_ context.Context, _ string) ([]*catalog.Product, error) {
	return l.products, nil
}

func TestGraphBuilder_Reload(t *testing.T) {
	ctx := context.Background()
	builder, productStore, _ := newBuilder(t)

	nodes, _, err := builder.Reload(ctx, &sliceLoader{products: seedProducts(t)}, "catalog.csv")
	require.NoError(t, err)
	assert.Equal(t, 5, nodes)

	n, err := productStore.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
