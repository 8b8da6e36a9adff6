package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stylegraph/application/services"
	domainservices "stylegraph/domain/services"
	"stylegraph/infrastructure/persistence/memory"
	"stylegraph/interfaces/render"
	"stylegraph/pkg/observability"
)

type frameSink struct {
	mu     sync.Mutex
	frames int
}

func (s *frameSink) SendFrame(_ []byte) {
	s.mu.Lock()
	s.frames++
	s.mu.Unlock()
}

func (s *frameSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func newVizHandler(t *testing.T, sink services.FrameSink) *VizHandler {
	t.Helper()
	collector := observability.NewCollector("test")
	logger := zap.NewNop()

	builder := services.NewGraphBuilder(
		memory.NewProductStore(),
		memory.NewEdgeStore(),
		nil,
		domainservices.NewSimilarityScorer(nil),
		2,
		collector,
		logger,
	)
	surface := render.NewSurface(800, 600)
	visualizer := services.NewVisualizer(surface, sink, time.Millisecond, collector, logger)
	return NewVizHandler(visualizer, builder, logger)
}

func envelopeData(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestVizPanMovesViewport(t *testing.T) {
	handler := newVizHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/viz/pan", strings.NewReader(`{"dx":40,"dy":-10}`))
	rec := httptest.NewRecorder()
	handler.Pan(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelopeData(t, rec.Body.String())
	assert.Equal(t, 40.0, data["translate_x"])
	assert.Equal(t, -10.0, data["translate_y"])
}

func TestVizZoomClampsScale(t *testing.T) {
	handler := newVizHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/viz/zoom", strings.NewReader(`{"scale":99}`))
	rec := httptest.NewRecorder()
	handler.Zoom(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelopeData(t, rec.Body.String())
	assert.Equal(t, render.MaxScale, data["scale"])
}

func TestVizZoomRequiresScaleOrFactor(t *testing.T) {
	handler := newVizHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/viz/zoom", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.Zoom(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVizResetRestoresViewport(t *testing.T) {
	handler := newVizHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/viz/pan", strings.NewReader(`{"dx":40,"dy":-10}`))
	handler.Pan(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	handler.ResetView(rec, httptest.NewRequest(http.MethodPost, "/viz/reset", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelopeData(t, rec.Body.String())
	assert.Equal(t, 0.0, data["translate_x"])
	assert.Equal(t, 0.0, data["translate_y"])
	assert.Equal(t, 1.0, data["scale"])
}

func TestVizFrameServesSVG(t *testing.T) {
	handler := newVizHandler(t, nil)

	rec := httptest.NewRecorder()
	handler.Frame(rec, httptest.NewRequest(http.MethodGet, "/viz/frame", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))
}

// A session started over HTTP keeps streaming after the request context
// is cancelled; only an explicit stop or settling ends it.
func TestVizStartOutlivesRequest(t *testing.T) {
	sink := &frameSink{}
	handler := newVizHandler(t, sink)
	defer handler.Stop(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/viz/stop", nil))

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/viz/start", strings.NewReader(`{}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.Start(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	cancel()
	before := sink.count()
	require.Eventually(t, func() bool {
		return sink.count() > before
	}, 2*time.Second, 5*time.Millisecond, "frames kept streaming after the request context ended")
}

func TestVizStartParsesChatContext(t *testing.T) {
	handler := newVizHandler(t, nil)
	defer handler.Stop(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/viz/stop", nil))

	body := `{"context":"Catalog products relevant to the question:\nrecommended:p1,p2"}`
	req := httptest.NewRequest(http.MethodPost, "/viz/start", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	data := envelopeData(t, rec.Body.String())
	assert.Equal(t, 2.0, data["recommended"])
}

func TestVizHoverMissesOnEmptyGraph(t *testing.T) {
	handler := newVizHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/viz/hover", strings.NewReader(`{"x":100,"y":100}`))
	rec := httptest.NewRecorder()
	handler.Hover(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := envelopeData(t, rec.Body.String())
	assert.Equal(t, false, data["hit"])
}
