// Package handlers implements the HTTP handlers of the REST API.
package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"stylegraph/application/commands"
	commandbus "stylegraph/application/commands/bus"
	"stylegraph/application/queries"
	querybus "stylegraph/application/queries/bus"
	"stylegraph/pkg/common"
	"stylegraph/pkg/errors"
)

// GraphHandler serves graph data and rebuild requests
type GraphHandler struct {
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(commandBus *commandbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// GetGraphData handles GET /graph-data. The optional recommended_ids
// query parameter is a comma-joined id list from the chat collaborator.
func (h *GraphHandler) GetGraphData(w http.ResponseWriter, r *http.Request) {
	query := queries.GetGraphDataQuery{
		RecommendedIDs: parseIDList(r.URL.Query().Get("recommended_ids")),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("graph data query failed", zap.Error(err))
		common.RespondError(w, errors.HTTPStatusFor(err), "GRAPH_DATA_FAILED", "failed to assemble graph data")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// RebuildGraph handles POST /graph/rebuild
func (h *GraphHandler) RebuildGraph(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	// An empty body is fine; the reason is informational.
	_ = common.ParseJSONBody(r, &body, 4*1024)

	cmd := commands.RebuildGraphCommand{Reason: body.Reason}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("graph rebuild failed", zap.Error(err))
		common.RespondError(w, errors.HTTPStatusFor(err), "REBUILD_FAILED", "graph rebuild failed")
		return
	}

	common.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "rebuilt"})
}

// parseIDList splits a comma-joined id list, dropping empty entries
func parseIDList(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
