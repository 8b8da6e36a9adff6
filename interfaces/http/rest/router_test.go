package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	commandbus "stylegraph/application/commands/bus"
	querybus "stylegraph/application/queries/bus"
	"stylegraph/application/services"
	"stylegraph/domain/catalog"
	domainservices "stylegraph/domain/services"
	"stylegraph/infrastructure/llm"
	"stylegraph/infrastructure/persistence/memory"
	"stylegraph/interfaces/render"
	"stylegraph/pkg/observability"
)

func newTestRouter(t *testing.T, enableMetrics bool) (http.Handler, *memory.ProductStore) {
	t.Helper()
	collector := observability.NewCollector("test")
	logger := zap.NewNop()

	productStore := memory.NewProductStore()
	edgeStore := memory.NewEdgeStore()
	builder := services.NewGraphBuilder(productStore, edgeStore, nil, domainservices.NewSimilarityScorer(nil), 2, collector, logger)
	recommender := services.NewRecommender(productStore, edgeStore, llm.NewMockProvider(), collector, logger)
	visualizer := services.NewVisualizer(render.NewSurface(800, 600), nil, time.Millisecond, collector, logger)

	rt := NewRouter(
		commandbus.NewCommandBus(),
		querybus.NewQueryBus(),
		recommender,
		visualizer,
		builder,
		nil,
		productStore,
		collector,
		false,
		enableMetrics,
		logger,
	)
	return rt.Setup(), productStore
}

func TestMetricsRouteGated(t *testing.T) {
	disabled, _ := newTestRouter(t, false)
	rec := httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	enabled, _ := newTestRouter(t, true)
	rec = httptest.NewRecorder()
	enabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessRequiresCatalog(t *testing.T) {
	handler, store := newTestRouter(t, false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, store.Save(context.Background(), &catalog.Product{ID: "p1", Name: "Alpha Tee"}))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"products":1`))
}
