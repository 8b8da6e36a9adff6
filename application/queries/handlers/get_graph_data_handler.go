// Package handlers implements the query bus handlers for the read side.
package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stylegraph/application/queries"
	"stylegraph/application/queries/bus"
	appservices "stylegraph/application/services"
	"stylegraph/domain/graph"
)

// GetGraphDataHandler assembles the classified graph in its wire form
type GetGraphDataHandler struct {
	builder *appservices.GraphBuilder
	logger  *zap.Logger
}

// NewGetGraphDataHandler creates a new handler instance
func NewGetGraphDataHandler(builder *appservices.GraphBuilder, logger *zap.Logger) *GetGraphDataHandler {
	return &GetGraphDataHandler{builder: builder, logger: logger}
}

// Handle builds the snapshot, runs role classification and maps the result
// to DTOs
func (h *GetGraphDataHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetGraphDataQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	snapshot, err := h.builder.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	graph.Classify(snapshot, q.RecommendedIDs)

	result := queries.GraphDataResult{
		Nodes: make([]queries.NodeDTO, 0, len(snapshot.Nodes)),
		Links: make([]queries.LinkDTO, 0, len(snapshot.Edges)),
	}

	for _, n := range snapshot.Nodes {
		dto := queries.NodeDTO{
			ID:     n.ID,
			Name:   n.Name,
			Brand:  n.Brand,
			Gender: n.Gender,
			Price:  n.Price,
			Color:  n.Color,
			Value:  n.Value,
			Role:   string(n.Role),
			X:      n.X,
			Y:      n.Y,
		}
		if n.Hint != graph.HintNone {
			dto.RecommendationType = string(n.Hint)
		}
		result.Nodes = append(result.Nodes, dto)
	}

	for _, e := range snapshot.Edges {
		result.Links = append(result.Links, queries.LinkDTO{
			Source:          e.Source.ID,
			Target:          e.Target.ID,
			SimilarityScore: e.SimilarityScore,
		})
	}

	h.logger.Debug("graph data assembled",
		zap.Int("nodes", len(result.Nodes)),
		zap.Int("links", len(result.Links)),
		zap.Int("recommended", len(q.RecommendedIDs)))

	return result, nil
}
