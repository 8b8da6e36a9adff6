package graph

import "math"

// Edge links two resolved nodes with a non-negative similarity weight.
type Edge struct {
	Source          *Node
	Target          *Node
	SimilarityScore float64
}

const strokeScale = 1.5

// StrokeWidth maps the similarity score to a stroke width on a square-root
// scale, compressing the dynamic range while staying monotonic.
func (e *Edge) StrokeWidth() float64 {
	if e.SimilarityScore <= 0 {
		return strokeScale
	}
	return math.Sqrt(e.SimilarityScore) * strokeScale
}

// Link is the unresolved wire form of an edge: endpoint ids plus weight.
type Link struct {
	SourceID        string
	TargetID        string
	SimilarityScore float64
}
