package queries

// GetGraphDataQuery asks for the full graph in its wire form, with roles
// already assigned. RecommendedIDs comes from the chat collaborator and
// may be empty.
type GetGraphDataQuery struct {
	RecommendedIDs []string
}

// Validate implements the query bus contract
func (q GetGraphDataQuery) Validate() error {
	return nil
}

// NodeDTO is the wire form of a graph node
type NodeDTO struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Brand              string  `json:"brand,omitempty"`
	Gender             string  `json:"gender,omitempty"`
	Price              float64 `json:"price"`
	Color              string  `json:"color,omitempty"`
	Value              float64 `json:"value"`
	Type               string  `json:"type,omitempty"`
	RecommendationType string  `json:"recommendation_type,omitempty"`
	Role               string  `json:"role"`
	X                  float64 `json:"x"`
	Y                  float64 `json:"y"`
}

// LinkDTO is the wire form of a graph edge
type LinkDTO struct {
	Source          string  `json:"source"`
	Target          string  `json:"target"`
	SimilarityScore float64 `json:"similarity_score"`
}

// GraphDataResult is the response of GetGraphDataQuery
type GraphDataResult struct {
	Nodes []NodeDTO `json:"nodes"`
	Links []LinkDTO `json:"links"`
}
