// Package services holds the domain services that prepare the catalog for
// visualization: similarity scoring between products, centrality ranking,
// and chat query analysis. None of this runs inside the classifier or the
// layout simulation; both consume the results precomputed.
package services

import (
	"math"
	"sort"

	"stylegraph/domain/catalog"
)

// SimilarityConfig tunes similarity edge derivation.
type SimilarityConfig struct {
	BrandWeight    float64
	ColorWeight    float64
	TightPriceBand float64 // price gap under this is a strong signal
	LoosePriceBand float64 // price gap under this is a weak signal
	MinScore       float64 // edges below this are not created
	MaxNeighbors   int     // strongest edges kept per product
}

// DefaultSimilarityConfig returns the weights used for the product catalog.
func DefaultSimilarityConfig() *SimilarityConfig {
	return &SimilarityConfig{
		BrandWeight:    2,
		ColorWeight:    1,
		TightPriceBand: 200,
		LoosePriceBand: 500,
		MinScore:       2,
		MaxNeighbors:   5,
	}
}

// SimilarityScorer derives weighted similarity edges between products.
type SimilarityScorer struct {
	config *SimilarityConfig
}

// NewSimilarityScorer creates a scorer, falling back to defaults when the
// config is nil.
func NewSimilarityScorer(config *SimilarityConfig) *SimilarityScorer {
	if config == nil {
		config = DefaultSimilarityConfig()
	}
	return &SimilarityScorer{config: config}
}

// Score evaluates one ordered product pair. Only same-gender pairs within a
// plausible attribute window are comparable at all; the boolean reports
// whether the pair clears the minimum score.
func (s *SimilarityScorer) Score(p1, p2 *catalog.Product) (catalog.SimilarityEdge, bool) {
	if p1 == nil || p2 == nil || p1.ID == p2.ID {
		return catalog.SimilarityEdge{}, false
	}
	if p1.Gender != p2.Gender {
		return catalog.SimilarityEdge{}, false
	}

	sameBrand := p1.Brand == p2.Brand
	sameColor := p1.Color == p2.Color
	priceDiff := math.Abs(p1.Price - p2.Price)

	comparable := (sameBrand && priceDiff < 1000) ||
		(sameColor && priceDiff < s.config.LoosePriceBand) ||
		priceDiff < s.config.TightPriceBand
	if !comparable {
		return catalog.SimilarityEdge{}, false
	}

	score := 0.0
	if sameBrand {
		score += s.config.BrandWeight
	}
	if sameColor {
		score += s.config.ColorWeight
	}
	switch {
	case priceDiff < s.config.TightPriceBand:
		score += 2
	case priceDiff < s.config.LoosePriceBand:
		score += 1
	}

	if score < s.config.MinScore {
		return catalog.SimilarityEdge{}, false
	}

	return catalog.SimilarityEdge{
		SourceID:        p1.ID,
		TargetID:        p2.ID,
		SameBrand:       sameBrand,
		SameGender:      true,
		SameColor:       sameColor,
		PriceDiff:       priceDiff,
		SimilarityScore: score,
	}, true
}

// DeriveEdges scans every product against its lexicographic successors and
// keeps the strongest MaxNeighbors edges per source product. The one-sided
// scan avoids emitting both directions of the same pair.
func (s *SimilarityScorer) DeriveEdges(products []*catalog.Product) []catalog.SimilarityEdge {
	edges := make([]catalog.SimilarityEdge, 0, len(products)*s.config.MaxNeighbors)

	for _, p1 := range products {
		candidates := make([]catalog.SimilarityEdge, 0, s.config.MaxNeighbors)
		for _, p2 := range products {
			if p2.ID <= p1.ID {
				continue
			}
			if edge, ok := s.Score(p1, p2); ok {
				candidates = append(candidates, edge)
			}
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].SimilarityScore > candidates[j].SimilarityScore
		})
		if len(candidates) > s.config.MaxNeighbors {
			candidates = candidates[:s.config.MaxNeighbors]
		}
		edges = append(edges, candidates...)
	}

	return edges
}
