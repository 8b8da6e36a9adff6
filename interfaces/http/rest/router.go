// Package rest wires the HTTP API of the visualization service.
package rest

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	commandbus "stylegraph/application/commands/bus"
	"stylegraph/application/ports"
	querybus "stylegraph/application/queries/bus"
	"stylegraph/application/services"
	"stylegraph/interfaces/http/rest/handlers"
	"stylegraph/interfaces/http/rest/middleware"
	"stylegraph/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus    *commandbus.CommandBus
	queryBus      *querybus.QueryBus
	recommender   *services.Recommender
	visualizer    *services.Visualizer
	builder       *services.GraphBuilder
	wsHandler     http.Handler
	productRepo   ports.ProductRepository
	collector     *observability.Collector
	enableCORS    bool
	enableMetrics bool
	logger        *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *commandbus.CommandBus,
	queryBus *querybus.QueryBus,
	recommender *services.Recommender,
	visualizer *services.Visualizer,
	builder *services.GraphBuilder,
	wsHandler http.Handler,
	productRepo ports.ProductRepository,
	collector *observability.Collector,
	enableCORS bool,
	enableMetrics bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:    commandBus,
		queryBus:      queryBus,
		recommender:   recommender,
		visualizer:    visualizer,
		builder:       builder,
		wsHandler:     wsHandler,
		productRepo:   productRepo,
		collector:     collector,
		enableCORS:    enableCORS,
		enableMetrics: enableMetrics,
		logger:        logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.collector))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.enableMetrics {
		router.Handle("/metrics", promhttp.HandlerFor(rt.collector.Registry(), promhttp.HandlerOpts{}))
	}

	if rt.wsHandler != nil {
		router.Handle("/ws", rt.wsHandler)
	}

	router.Route("/api/v1", func(r chi.Router) {
		graphHandler := handlers.NewGraphHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Get("/graph-data", graphHandler.GetGraphData)
		r.Post("/graph/rebuild", graphHandler.RebuildGraph)

		productHandler := handlers.NewProductHandler(rt.queryBus, rt.logger)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{productID}", productHandler.GetProduct)
		})

		chatHandler := handlers.NewChatHandler(rt.recommender, rt.logger)
		r.Post("/chat", chatHandler.Chat)

		vizHandler := handlers.NewVizHandler(rt.visualizer, rt.builder, rt.logger)
		r.Route("/viz", func(r chi.Router) {
			r.Post("/start", vizHandler.Start)
			r.Post("/stop", vizHandler.Stop)
			r.Get("/frame", vizHandler.Frame)
			r.Post("/hover", vizHandler.Hover)
			r.Post("/pan", vizHandler.Pan)
			r.Post("/zoom", vizHandler.Zoom)
			r.Post("/reset", vizHandler.ResetView)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the catalog holds products. Before
// the first load completes the service can serve nothing useful.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	count, err := rt.productRepo.Count(req.Context())
	if err != nil || count == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not_ready"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ready","products":%d}`, count)
}
