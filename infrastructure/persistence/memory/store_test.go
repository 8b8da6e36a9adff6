package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylegraph/application/ports"
	"stylegraph/domain/catalog"
)

func newProduct(t *testing.T, id, gender, color string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(id, "product "+id, "brand", gender, color, 100)
	require.NoError(t, err)
	return p
}

func TestProductStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewProductStore()

	p := newProduct(t, "a", "women", "black")
	require.NoError(t, store.Save(ctx, p))

	got, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)

	// Stored copies are isolated from later caller mutation.
	p.Name = "changed"
	got, err = store.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "product a", got.Name)

	missing, err := store.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductStore_GetAll_Ordered(t *testing.T) {
	ctx := context.Background()
	store := NewProductStore()

	require.NoError(t, store.BulkSave(ctx, []*catalog.Product{
		newProduct(t, "c", "women", "black"),
		newProduct(t, "a", "women", "black"),
		newProduct(t, "b", "men", "blue"),
	}))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestProductStore_Search(t *testing.T) {
	ctx := context.Background()
	store := NewProductStore()

	require.NoError(t, store.BulkSave(ctx, []*catalog.Product{
		newProduct(t, "a", "women", "black"),
		newProduct(t, "b", "women", "red"),
		newProduct(t, "c", "men", "black"),
	}))

	women, err := store.Search(ctx, ports.SearchCriteria{Gender: "women"})
	require.NoError(t, err)
	assert.Len(t, women, 2)

	womenBlack, err := store.Search(ctx, ports.SearchCriteria{Gender: "Women", Color: "BLACK"})
	require.NoError(t, err)
	require.Len(t, womenBlack, 1)
	assert.Equal(t, "a", womenBlack[0].ID)

	named, err := store.Search(ctx, ports.SearchCriteria{NameLike: "product b"})
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, "b", named[0].ID)

	limited, err := store.Search(ctx, ports.SearchCriteria{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestEdgeStore_ReplaceAndQuery(t *testing.T) {
	ctx := context.Background()
	store := NewEdgeStore()

	edges := []catalog.SimilarityEdge{
		{SourceID: "a", TargetID: "b", SimilarityScore: 3},
		{SourceID: "b", TargetID: "c", SimilarityScore: 2},
	}
	require.NoError(t, store.ReplaceAll(ctx, edges))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	touchingB, err := store.GetByProductID(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, touchingB, 2)

	touchingA, err := store.GetByProductID(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, touchingA, 1)

	// A replacement fully discards the previous set.
	require.NoError(t, store.ReplaceAll(ctx, nil))
	all, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
