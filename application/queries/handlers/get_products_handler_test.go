package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stylegraph/application/queries"
	"stylegraph/domain/catalog"
	"stylegraph/infrastructure/persistence/memory"
	"stylegraph/pkg/errors"
	"stylegraph/pkg/observability"
)

func seedStore(t *testing.T) *memory.ProductStore {
	t.Helper()
	store := memory.NewProductStore()
	products := []*catalog.Product{
		{ID: "p1", Name: "Alpha Tee", Brand: "Aurora", Gender: "women", Color: "black", Price: 499, PageRank: 1.0, Tag: catalog.TagPagerank},
		{ID: "p2", Name: "Beta Dress", Brand: "Aurora", Gender: "women", Color: "black", Price: 599, PageRank: 0.8, Tag: catalog.TagPagerank},
		{ID: "p3", Name: "Gamma Top", Brand: "Nimbus", Gender: "women", Color: "black", Price: 399, PageRank: 0.5, Tag: catalog.TagConnected},
		{ID: "p4", Name: "Delta Jacket", Brand: "Granite", Gender: "men", Color: "grey", Price: 2999, PageRank: 0.1, Tag: catalog.TagOther},
	}
	require.NoError(t, store.BulkSave(context.Background(), products))
	return store
}

func seedEdges(t *testing.T, edges []catalog.SimilarityEdge) *memory.EdgeStore {
	t.Helper()
	store := memory.NewEdgeStore()
	require.NoError(t, store.ReplaceAll(context.Background(), edges))
	return store
}

func newProductsHandler(t *testing.T, edges []catalog.SimilarityEdge) *GetProductsHandler {
	t.Helper()
	return NewGetProductsHandler(seedStore(t), seedEdges(t, edges), observability.NewCollector("test"), zap.NewNop())
}

func TestGetProductsOrderedByCentrality(t *testing.T) {
	handler := newProductsHandler(t, nil)

	res, err := handler.Handle(context.Background(), queries.GetProductsQuery{})
	require.NoError(t, err)

	result := res.(queries.ProductsResult)
	require.Len(t, result.Products, 4)
	assert.Equal(t, "p1", result.Products[0].ID)
	assert.Equal(t, "p4", result.Products[3].ID)
	assert.Nil(t, result.Quality)

	assert.Equal(t, "pagerank", result.Products[0].RecommendationType)
	assert.Empty(t, result.Products[3].RecommendationType)
}

func TestGetProductsRecommendedLead(t *testing.T) {
	handler := newProductsHandler(t, nil)

	res, err := handler.Handle(context.Background(), queries.GetProductsQuery{
		RecommendedIDs: []string{"p4", "p3"},
	})
	require.NoError(t, err)

	result := res.(queries.ProductsResult)
	require.Len(t, result.Products, 4)

	// Recommended products lead regardless of centrality, ai-tagged.
	assert.Equal(t, "p3", result.Products[0].ID)
	assert.Equal(t, "p4", result.Products[1].ID)
	assert.Equal(t, "ai", result.Products[0].RecommendationType)
	assert.Equal(t, "ai", result.Products[1].RecommendationType)

	// No edges, so there is no relevant neighborhood to hit.
	require.NotNil(t, result.Quality)
	assert.Zero(t, result.Quality.Precision)
	assert.Zero(t, result.Quality.Recall)
	assert.Zero(t, result.Quality.F1)
}

func TestGetProductsQualityScoring(t *testing.T) {
	handler := newProductsHandler(t, []catalog.SimilarityEdge{
		{SourceID: "p1", TargetID: "p2", SameGender: true, SameBrand: true, SameColor: true, SimilarityScore: 4},
		{SourceID: "p2", TargetID: "p3", SameGender: true, SameColor: true, SimilarityScore: 3},
	})

	res, err := handler.Handle(context.Background(), queries.GetProductsQuery{
		RecommendedIDs: []string{"p4"},
	})
	require.NoError(t, err)

	result := res.(queries.ProductsResult)
	require.NotNil(t, result.Quality)

	// Tagged {p1,p2}, relevant {p2,p3}: one hit each way.
	assert.InDelta(t, 0.5, result.Quality.Precision, 1e-9)
	assert.InDelta(t, 0.5, result.Quality.Recall, 1e-9)
	assert.InDelta(t, 0.5, result.Quality.F1, 1e-9)
}

func TestGetProductsQualityExcludesRecommendedFromTagged(t *testing.T) {
	handler := newProductsHandler(t, []catalog.SimilarityEdge{
		{SourceID: "p1", TargetID: "p2", SameGender: true, SameBrand: true, SimilarityScore: 4},
		{SourceID: "p2", TargetID: "p3", SameGender: true, SameColor: true, SimilarityScore: 3},
	})

	res, err := handler.Handle(context.Background(), queries.GetProductsQuery{
		RecommendedIDs: []string{"p1"},
	})
	require.NoError(t, err)

	// p1 moved to the ai set, so only p2 stays tagged; its neighborhood
	// is {p3} and p2 is not in it.
	result := res.(queries.ProductsResult)
	require.NotNil(t, result.Quality)
	assert.Zero(t, result.Quality.Precision)
	assert.Zero(t, result.Quality.Recall)
}

func TestGetProductsQualityIgnoresWeakAndCrossGenderEdges(t *testing.T) {
	handler := newProductsHandler(t, []catalog.SimilarityEdge{
		{SourceID: "p1", TargetID: "p2", SameGender: true, SameBrand: true, SimilarityScore: 2},
		{SourceID: "p2", TargetID: "p4", SameBrand: true, SimilarityScore: 4},
	})

	res, err := handler.Handle(context.Background(), queries.GetProductsQuery{
		RecommendedIDs: []string{"p4"},
	})
	require.NoError(t, err)

	result := res.(queries.ProductsResult)
	require.NotNil(t, result.Quality)
	assert.Zero(t, result.Quality.Precision)
	assert.Zero(t, result.Quality.Recall)
	assert.Zero(t, result.Quality.F1)
}

func TestGetProductsLimit(t *testing.T) {
	handler := newProductsHandler(t, nil)

	res, err := handler.Handle(context.Background(), queries.GetProductsQuery{Limit: 2})
	require.NoError(t, err)

	result := res.(queries.ProductsResult)
	assert.Len(t, result.Products, 2)
}

func TestGetProductByID(t *testing.T) {
	handler := NewGetProductHandler(seedStore(t))

	res, err := handler.Handle(context.Background(), queries.GetProductQuery{ID: "p2"})
	require.NoError(t, err)

	dto := res.(queries.ProductDTO)
	assert.Equal(t, "Beta Dress", dto.Name)
	assert.Equal(t, "pagerank", dto.RecommendationType)

	_, err = handler.Handle(context.Background(), queries.GetProductQuery{ID: "missing"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}
