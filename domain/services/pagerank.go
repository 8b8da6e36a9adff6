package services

import (
	"math"

	"stylegraph/domain/catalog"
)

// PagerankConfig tunes the centrality computation.
type PagerankConfig struct {
	Damping       float64
	MaxIterations int
	Tolerance     float64
}

// DefaultPagerankConfig returns the tuning used for the catalog graph.
func DefaultPagerankConfig() PagerankConfig {
	return PagerankConfig{
		Damping:       0.9,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// ComputePagerank runs a weighted, personalized PageRank over the derived
// similarity digraph and returns scores normalized to [0, 1] by the maximum.
// Edge weights favor closely related pairs and well-connected endpoints;
// personalization boosts products with many relations. Products with no
// edges keep a normalized floor score rather than zero so they still render.
func ComputePagerank(products []*catalog.Product, edges []catalog.SimilarityEdge, cfg PagerankConfig) map[string]float64 {
	scores := make(map[string]float64, len(products))
	if len(products) == 0 {
		return scores
	}

	type degree struct{ in, out int }
	degrees := make(map[string]degree, len(products))
	for _, e := range edges {
		d := degrees[e.SourceID]
		d.out++
		degrees[e.SourceID] = d
		d = degrees[e.TargetID]
		d.in++
		degrees[e.TargetID] = d
	}

	// Weighted adjacency with per-source totals for normalization.
	type outEdge struct {
		target string
		weight float64
	}
	adjacency := make(map[string][]outEdge, len(products))
	outWeight := make(map[string]float64, len(products))
	for _, e := range edges {
		w := edgeWeight(e, degrees[e.SourceID].out+degrees[e.SourceID].in, degrees[e.TargetID].out+degrees[e.TargetID].in)
		adjacency[e.SourceID] = append(adjacency[e.SourceID], outEdge{target: e.TargetID, weight: w})
		outWeight[e.SourceID] += w
	}

	// Personalization favors well-connected products, normalized to sum 1.
	personalization := make(map[string]float64, len(products))
	var personalizationSum float64
	for _, p := range products {
		d := degrees[p.ID]
		v := 1 + float64(d.in+d.out)/5.0
		personalization[p.ID] = v
		personalizationSum += v
	}
	for id := range personalization {
		personalization[id] /= personalizationSum
	}

	rank := make(map[string]float64, len(products))
	for _, p := range products {
		rank[p.ID] = 1.0 / float64(len(products))
	}

	for i := 0; i < cfg.MaxIterations; i++ {
		next := make(map[string]float64, len(rank))

		// Mass from nodes with no outgoing edges is redistributed along
		// the personalization vector.
		var dangling float64
		for id, r := range rank {
			if outWeight[id] == 0 {
				dangling += r
			}
		}

		for _, p := range products {
			next[p.ID] = (1-cfg.Damping)*personalization[p.ID] + cfg.Damping*dangling*personalization[p.ID]
		}
		for id, outs := range adjacency {
			r := rank[id]
			total := outWeight[id]
			for _, oe := range outs {
				next[oe.target] += cfg.Damping * r * oe.weight / total
			}
		}

		var delta float64
		for id := range next {
			delta += math.Abs(next[id] - rank[id])
		}
		rank = next
		if delta < cfg.Tolerance {
			break
		}
	}

	var max float64
	for _, r := range rank {
		if r > max {
			max = r
		}
	}
	if max == 0 {
		max = 1
	}
	for id, r := range rank {
		scores[id] = r / max
	}

	return scores
}

// edgeWeight combines attribute agreement with endpoint connectivity the
// same way the edges themselves were scored, so central hubs accumulate
// rank faster.
func edgeWeight(e catalog.SimilarityEdge, sourceDegree, targetDegree int) float64 {
	w := 0.0
	if e.SameGender {
		w += 0.4
	}
	if e.SameColor {
		w += 0.3
	}
	if e.SameBrand {
		w += 0.3
	}
	switch {
	case e.PriceDiff < 200:
		w += 0.2
	case e.PriceDiff < 500:
		w += 0.1
	}

	connectivity := float64(sourceDegree+targetDegree) / 10.0
	return w * (1 + connectivity)
}
