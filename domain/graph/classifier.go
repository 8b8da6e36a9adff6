package graph

// Classify assigns exactly one role to every node in the snapshot.
//
// Precedence, highest first:
//
//  1. recommended: node id appears in recommendedIDs
//  2. pagerank:    node carries the pagerank hint (the data tag and the
//     supplied recommendation type are unioned; provenance is
//     not distinguished)
//  3. connected:   adjacent, via any edge in either direction, to a node
//     in one of the two sets above
//  4. other:       none of the above
//
// The connected set is a one-hop derivation computed in a single edge scan,
// not full reachability. The whole pass is O(V+E), touches only the Role
// field, and is idempotent: the same inputs always produce the same roles.
// Empty graphs and empty recommendation lists are fine and produce no error.
func Classify(s *Snapshot, recommendedIDs []string) {
	if s == nil {
		return
	}

	recommended := make(map[string]struct{}, len(recommendedIDs))
	for _, id := range recommendedIDs {
		recommended[id] = struct{}{}
	}

	pagerank := make(map[string]struct{})
	for _, n := range s.Nodes {
		if n.Hint == HintPagerank {
			pagerank[n.ID] = struct{}{}
		}
	}

	// One pass over the edges: anything touching a recommended or pagerank
	// node pulls its other endpoint into the connected set. A node entering
	// this set may still end up with a higher-precedence role below.
	connected := make(map[string]struct{})
	inSets := func(id string) bool {
		if _, ok := recommended[id]; ok {
			return true
		}
		_, ok := pagerank[id]
		return ok
	}
	for _, e := range s.Edges {
		if inSets(e.Source.ID) {
			connected[e.Target.ID] = struct{}{}
		}
		if inSets(e.Target.ID) {
			connected[e.Source.ID] = struct{}{}
		}
	}

	for _, n := range s.Nodes {
		switch {
		case contains(recommended, n.ID):
			n.Role = RoleRecommended
		case contains(pagerank, n.ID):
			n.Role = RolePagerank
		case contains(connected, n.ID):
			n.Role = RoleConnected
		default:
			n.Role = RoleOther
		}
	}
}

func contains(set map[string]struct{}, id string) bool {
	_, ok := set[id]
	return ok
}
