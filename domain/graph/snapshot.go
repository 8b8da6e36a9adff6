package graph

// Snapshot is one complete graph as fetched for a visualization mount.
// Snapshots are replaced wholesale on every fetch; there is no incremental
// patching, and any simulation over the old snapshot must be discarded
// before the new one is used.
type Snapshot struct {
	Nodes []*Node
	Edges []*Edge

	byID map[string]*Node
}

// NewSnapshot builds a snapshot from nodes and unresolved links. Links whose
// endpoints do not resolve to a known node id are dropped rather than
// failing the snapshot; the count of dropped links is returned so callers
// can log and count them.
func NewSnapshot(nodes []*Node, links []Link) (*Snapshot, int) {
	s := &Snapshot{
		Nodes: nodes,
		Edges: make([]*Edge, 0, len(links)),
		byID:  make(map[string]*Node, len(nodes)),
	}

	for _, n := range nodes {
		s.byID[n.ID] = n
	}

	dropped := 0
	for _, l := range links {
		source, okS := s.byID[l.SourceID]
		target, okT := s.byID[l.TargetID]
		if !okS || !okT {
			dropped++
			continue
		}
		s.Edges = append(s.Edges, &Edge{
			Source:          source,
			Target:          target,
			SimilarityScore: l.SimilarityScore,
		})
	}

	return s, dropped
}

// Node returns the node with the given id, or nil.
func (s *Snapshot) Node(id string) *Node {
	return s.byID[id]
}

// Empty reports whether the snapshot has nothing to show.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Nodes) == 0
}
