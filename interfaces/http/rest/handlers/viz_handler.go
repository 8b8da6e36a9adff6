package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"stylegraph/application/services"
	"stylegraph/pkg/common"
	"stylegraph/pkg/errors"
)

// VizHandler controls the layout session and the viewport of the shared
// rendering surface.
type VizHandler struct {
	visualizer *services.Visualizer
	builder    *services.GraphBuilder
	logger     *zap.Logger
}

// NewVizHandler creates a new visualization handler
func NewVizHandler(visualizer *services.Visualizer, builder *services.GraphBuilder, logger *zap.Logger) *VizHandler {
	return &VizHandler{
		visualizer: visualizer,
		builder:    builder,
		logger:     logger,
	}
}

type startRequest struct {
	RecommendedIDs []string `json:"recommended_ids"`
	Context        string   `json:"context"`
}

// Start handles POST /viz/start. It assembles a fresh snapshot and starts
// a layout session over it, replacing any session in flight. The request
// context only scopes the snapshot assembly; the session itself keeps
// running after the response is written. A chat reply context may be
// posted in place of explicit ids.
func (h *VizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	_ = common.ParseJSONBody(r, &body, 64*1024)

	recommendedIDs := body.RecommendedIDs
	if len(recommendedIDs) == 0 && body.Context != "" {
		recommendedIDs = services.ParseRecommendedContext(body.Context)
	}

	snapshot, err := h.builder.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("snapshot assembly failed", zap.Error(err))
		common.RespondError(w, errors.HTTPStatusFor(err), "SNAPSHOT_FAILED", "failed to assemble graph snapshot")
		return
	}

	h.visualizer.Start(snapshot, recommendedIDs)
	common.RespondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":      "started",
		"nodes":       len(snapshot.Nodes),
		"edges":       len(snapshot.Edges),
		"recommended": len(recommendedIDs),
	})
}

// Stop handles POST /viz/stop
func (h *VizHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.visualizer.Stop()
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// Frame handles GET /viz/frame, returning the current SVG frame
func (h *VizHandler) Frame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.visualizer.Frame()))
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Hover handles POST /viz/hover with a screen-space point
func (h *VizHandler) Hover(w http.ResponseWriter, r *http.Request) {
	var body pointRequest
	if err := common.ParseJSONBody(r, &body, 1024); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	hit := h.visualizer.Hover(body.X, body.Y)
	if hit == nil {
		common.RespondJSON(w, http.StatusOK, map[string]interface{}{"hit": false})
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"hit":  true,
		"id":   hit.ID,
		"name": hit.Name,
		"role": string(hit.Role),
	})
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Pan handles POST /viz/pan
func (h *VizHandler) Pan(w http.ResponseWriter, r *http.Request) {
	var body panRequest
	if err := common.ParseJSONBody(r, &body, 1024); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	h.visualizer.Pan(body.DX, body.DY)
	common.RespondJSON(w, http.StatusOK, viewportState(h.visualizer))
}

type zoomRequest struct {
	Factor float64 `json:"factor"`
	Scale  float64 `json:"scale"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Zoom handles POST /viz/zoom. Either an absolute scale or a relative
// factor about a point may be supplied; out-of-range values clamp.
func (h *VizHandler) Zoom(w http.ResponseWriter, r *http.Request) {
	var body zoomRequest
	if err := common.ParseJSONBody(r, &body, 1024); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	switch {
	case body.Scale > 0:
		h.visualizer.SetScale(body.Scale)
	case body.Factor > 0:
		h.visualizer.Zoom(body.Factor, body.X, body.Y)
	default:
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "scale or factor is required")
		return
	}

	common.RespondJSON(w, http.StatusOK, viewportState(h.visualizer))
}

// ResetView handles POST /viz/reset
func (h *VizHandler) ResetView(w http.ResponseWriter, r *http.Request) {
	h.visualizer.ResetView()
	common.RespondJSON(w, http.StatusOK, viewportState(h.visualizer))
}

func viewportState(v *services.Visualizer) map[string]float64 {
	vp := v.Surface().Viewport()
	return map[string]float64{
		"translate_x": vp.TranslateX,
		"translate_y": vp.TranslateY,
		"scale":       vp.Scale,
	}
}
