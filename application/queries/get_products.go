package queries

import "stylegraph/pkg/errors"

// GetProductsQuery asks for catalog products, optionally evaluating a set
// of externally recommended ids against the centrality-tagged products.
// RecommendedIDs arrives as the chat collaborator produced it.
type GetProductsQuery struct {
	RecommendedIDs []string
	Limit          int
}

// Validate implements the query bus contract
func (q GetProductsQuery) Validate() error {
	if q.Limit < 0 {
		return errors.NewValidationError("limit cannot be negative")
	}
	return nil
}

// ProductDTO is the wire form of a catalog product
type ProductDTO struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Brand              string  `json:"brand,omitempty"`
	Gender             string  `json:"gender,omitempty"`
	Price              float64 `json:"price"`
	Color              string  `json:"color,omitempty"`
	PageRank           float64 `json:"pagerank"`
	RecommendationType string  `json:"recommendation_type,omitempty"`
}

// RecommendationQuality scores the centrality-tagged recommendations
// against the relevant products their strong similarity edges reach.
type RecommendationQuality struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// ProductsResult is the response of GetProductsQuery
type ProductsResult struct {
	Products []ProductDTO           `json:"products"`
	Quality  *RecommendationQuality `json:"quality,omitempty"`
}

// GetProductQuery asks for a single product by id
type GetProductQuery struct {
	ID string
}

// Validate implements the query bus contract
func (q GetProductQuery) Validate() error {
	if q.ID == "" {
		return errors.NewValidationError("product id is required")
	}
	return nil
}
