package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSnapshot(t *testing.T, nodes []*Node, links []Link) *Snapshot {
	t.Helper()
	s, dropped := NewSnapshot(nodes, links)
	require.Zero(t, dropped)
	return s
}

func TestClassifyPagerankAndConnected(t *testing.T) {
	// A pagerank-tagged node promotes its untagged neighbor to connected.
	s := buildSnapshot(t,
		[]*Node{
			{ID: "1", Hint: HintPagerank},
			{ID: "2"},
		},
		[]Link{{SourceID: "1", TargetID: "2", SimilarityScore: 2}},
	)

	Classify(s, nil)

	assert.Equal(t, RolePagerank, s.Node("1").Role)
	assert.Equal(t, RoleConnected, s.Node("2").Role)
}

func TestClassifyRecommendedOverridesConnected(t *testing.T) {
	s := buildSnapshot(t,
		[]*Node{
			{ID: "1", Hint: HintPagerank},
			{ID: "2"},
		},
		[]Link{{SourceID: "1", TargetID: "2", SimilarityScore: 2}},
	)

	Classify(s, []string{"2"})

	assert.Equal(t, RolePagerank, s.Node("1").Role)
	assert.Equal(t, RoleRecommended, s.Node("2").Role)
}

func TestClassifyAllOtherWithoutSignals(t *testing.T) {
	s := buildSnapshot(t,
		[]*Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		nil,
	)

	Classify(s, nil)

	for _, n := range s.Nodes {
		assert.Equal(t, RoleOther, n.Role, "node %s", n.ID)
	}
}

func TestClassifyPrecedenceLaw(t *testing.T) {
	// A node in both the recommended list and the pagerank set is always
	// recommended, never pagerank.
	s := buildSnapshot(t,
		[]*Node{
			{ID: "1", Hint: HintPagerank},
			{ID: "2", Hint: HintPagerank},
		},
		nil,
	)

	Classify(s, []string{"1"})

	assert.Equal(t, RoleRecommended, s.Node("1").Role)
	assert.Equal(t, RolePagerank, s.Node("2").Role)
}

func TestClassifyIsolatedNodeNeverConnected(t *testing.T) {
	s := buildSnapshot(t,
		[]*Node{
			{ID: "1", Hint: HintPagerank},
			{ID: "loner"},
		},
		nil,
	)

	Classify(s, nil)

	assert.Equal(t, RoleOther, s.Node("loner").Role)
}

func TestClassifyTotalityAndIdempotence(t *testing.T) {
	nodes := []*Node{
		{ID: "1", Hint: HintPagerank},
		{ID: "2"},
		{ID: "3"},
		{ID: "4", Hint: HintAI},
	}
	links := []Link{
		{SourceID: "1", TargetID: "2", SimilarityScore: 1},
		{SourceID: "2", TargetID: "3", SimilarityScore: 1},
	}
	s := buildSnapshot(t, nodes, links)
	recommended := []string{"4"}

	Classify(s, recommended)

	first := make(map[string]Role, len(s.Nodes))
	for _, n := range s.Nodes {
		assert.Contains(t, []Role{RoleRecommended, RolePagerank, RoleConnected, RoleOther}, n.Role)
		assert.NotEmpty(t, n.Role)
		first[n.ID] = n.Role
	}

	Classify(s, recommended)

	for _, n := range s.Nodes {
		assert.Equal(t, first[n.ID], n.Role)
	}
}

func TestClassifyEmptySnapshot(t *testing.T) {
	s, dropped := NewSnapshot(nil, nil)
	require.Zero(t, dropped)

	assert.NotPanics(t, func() { Classify(s, []string{"1"}) })
	assert.NotPanics(t, func() { Classify(nil, nil) })
	assert.True(t, s.Empty())
}

func TestSnapshotDropsUnresolvedLinks(t *testing.T) {
	s, dropped := NewSnapshot(
		[]*Node{{ID: "1"}, {ID: "2"}},
		[]Link{
			{SourceID: "1", TargetID: "2", SimilarityScore: 3},
			{SourceID: "1", TargetID: "ghost", SimilarityScore: 1},
			{SourceID: "ghost", TargetID: "2", SimilarityScore: 1},
		},
	)

	assert.Equal(t, 2, dropped)
	require.Len(t, s.Edges, 1)
	assert.Equal(t, "1", s.Edges[0].Source.ID)
	assert.Equal(t, "2", s.Edges[0].Target.ID)
}
