package catalog

import (
	"strings"

	pkgerrors "stylegraph/pkg/errors"
)

// RecommendationTag is the tag a product carries after the recommendation
// passes have run. It is a hint for the visualization, not the final
// classification (see domain/graph for the derived role).
type RecommendationTag string

const (
	TagAI        RecommendationTag = "ai"
	TagPagerank  RecommendationTag = "pagerank"
	TagConnected RecommendationTag = "connected"
	TagOther     RecommendationTag = "other"
)

// Product is a catalog item. Fields are populated from the catalog source;
// PageRank is filled in by the graph builder after edge derivation.
type Product struct {
	ID          string
	Name        string
	Brand       string
	Gender      string
	Price       float64
	Color       string
	Description string
	NumImages   int

	// PageRank is the normalized centrality score in [0, 1]
	PageRank float64

	// Tag is the current recommendation tag, TagOther by default
	Tag RecommendationTag
}

// NewProduct validates the identifying fields and returns a product with
// the default recommendation tag.
func NewProduct(id, name, brand, gender, color string, price float64) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.NewValidationError("product id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.NewValidationError("product name cannot be empty")
	}
	if price < 0 {
		return nil, pkgerrors.NewValidationError("product price cannot be negative")
	}

	return &Product{
		ID:     id,
		Name:   name,
		Brand:  brand,
		Gender: gender,
		Price:  price,
		Color:  color,
		Tag:    TagOther,
	}, nil
}

// SimilarityEdge is a derived similarity relation between two products.
type SimilarityEdge struct {
	SourceID        string
	TargetID        string
	SameBrand       bool
	SameGender      bool
	SameColor       bool
	PriceDiff       float64
	SimilarityScore float64
}
