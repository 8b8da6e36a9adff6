// Package graph holds the in-memory model the visualization works on:
// nodes, resolved edges, and the role classifier that merges the three
// recommendation signals into one tag per node.
package graph

import "math"

// Role is the final, mutually exclusive classification of a node.
type Role string

const (
	RoleRecommended Role = "recommended"
	RolePagerank    Role = "pagerank"
	RoleConnected   Role = "connected"
	RoleOther       Role = "other"
)

// Hint is the recommendation tag supplied by the data source. It feeds the
// classifier but never decides the final role on its own.
type Hint string

const (
	HintAI        Hint = "ai"
	HintPagerank  Hint = "pagerank"
	HintConnected Hint = "connected"
	HintNone      Hint = "none"
)

// ParseHint maps a wire tag to a Hint, defaulting to HintNone.
func ParseHint(s string) Hint {
	switch Hint(s) {
	case HintAI, HintPagerank, HintConnected:
		return Hint(s)
	default:
		return HintNone
	}
}

// Node is one product in the visualization graph. X and Y are owned by the
// layout simulation while it runs; everything else is set once per snapshot.
type Node struct {
	ID     string
	Name   string
	Brand  string
	Gender string
	Price  float64
	Color  string

	// Value is the centrality score in [0, 1]; drives visual size.
	Value float64

	// Hint is the tag the data source supplied, if any.
	Hint Hint

	// Role is assigned by Classify. Never unset after the first pass.
	Role Role

	// Simulation state
	X, Y   float64
	VX, VY float64
}

const (
	baseRadius      = 8.0
	valueRadiusSpan = 20.0

	promotedScale = 1.1
	connectedScale = 1.05
)

// Radius returns the node's circle radius in layout units. Promoted roles
// are drawn slightly larger, and the same radius feeds the collision force
// so emphasized nodes do not overlap their neighbors.
func (n *Node) Radius() float64 {
	r := math.Max(baseRadius, n.Value*valueRadiusSpan)
	switch n.Role {
	case RoleRecommended, RolePagerank:
		return r * promotedScale
	case RoleConnected:
		return r * connectedScale
	default:
		return r
	}
}
