package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeRadius(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want float64
	}{
		{
			name: "floor for tiny values",
			node: Node{Value: 0.1, Role: RoleOther},
			want: 8,
		},
		{
			name: "scales with value",
			node: Node{Value: 0.8, Role: RoleOther},
			want: 16,
		},
		{
			name: "recommended nodes are emphasized",
			node: Node{Value: 1.0, Role: RoleRecommended},
			want: 22,
		},
		{
			name: "pagerank nodes share the emphasis",
			node: Node{Value: 1.0, Role: RolePagerank},
			want: 22,
		},
		{
			name: "connected nodes gain a smaller bump",
			node: Node{Value: 1.0, Role: RoleConnected},
			want: 21,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.node.Radius(), 1e-9)
		})
	}
}

func TestEdgeStrokeWidthMonotonic(t *testing.T) {
	a := &Edge{SimilarityScore: 1}
	b := &Edge{SimilarityScore: 2}
	c := &Edge{SimilarityScore: 4}

	assert.Less(t, a.StrokeWidth(), b.StrokeWidth())
	assert.Less(t, b.StrokeWidth(), c.StrokeWidth())

	// Square-root scale: quadrupling the score doubles the stroke.
	assert.InDelta(t, 2*a.StrokeWidth(), c.StrokeWidth(), 1e-9)

	// Zero-weight edges still render with a hairline stroke.
	zero := &Edge{}
	assert.Greater(t, zero.StrokeWidth(), 0.0)
	assert.False(t, math.IsNaN(zero.StrokeWidth()))
}

func TestParseHint(t *testing.T) {
	assert.Equal(t, HintPagerank, ParseHint("pagerank"))
	assert.Equal(t, HintAI, ParseHint("ai"))
	assert.Equal(t, HintConnected, ParseHint("connected"))
	assert.Equal(t, HintNone, ParseHint("other"))
	assert.Equal(t, HintNone, ParseHint(""))
	assert.Equal(t, HintNone, ParseHint("garbage"))
}
