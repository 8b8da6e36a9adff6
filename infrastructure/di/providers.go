// Package di assembles the application graph.
package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"stylegraph/application/commands"
	commandbus "stylegraph/application/commands/bus"
	commandhandlers "stylegraph/application/commands/handlers"
	"stylegraph/application/ports"
	"stylegraph/application/queries"
	querybus "stylegraph/application/queries/bus"
	queryhandlers "stylegraph/application/queries/handlers"
	"stylegraph/application/services"
	domainservices "stylegraph/domain/services"
	"stylegraph/infrastructure/config"
	"stylegraph/infrastructure/ingest"
	"stylegraph/infrastructure/llm"
	"stylegraph/infrastructure/messaging"
	dynamostore "stylegraph/infrastructure/persistence/dynamodb"
	"stylegraph/infrastructure/persistence/memory"
	"stylegraph/interfaces/http/rest"
	"stylegraph/interfaces/render"
	"stylegraph/interfaces/websocket"
	"stylegraph/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Collector   *observability.Collector
	ProductRepo ports.ProductRepository
	EdgeRepo    ports.EdgeRepository
	Loader      ports.CatalogLoader
	Builder     *services.GraphBuilder
	Recommender *services.Recommender
	Visualizer  *services.Visualizer
	Hub         *websocket.Hub
	CommandBus  *commandbus.CommandBus
	QueryBus    *querybus.QueryBus
	Handler     http.Handler
}

// ProvideLogger creates a logger matching the configured environment and
// level.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.Set(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideCollector creates the metrics collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("stylegraph")
}

// ProvideDynamoDBClient creates a DynamoDB client from the ambient AWS
// configuration.
func ProvideDynamoDBClient(ctx context.Context, cfg *config.Config) (*awsdynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return awsdynamodb.NewFromConfig(awsCfg), nil
}

// ProvideRepositories selects the storage backend. DynamoDB when
// configured, the in-memory store otherwise.
func ProvideRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.ProductRepository, ports.EdgeRepository, error) {
	if !cfg.UseDynamoDB {
		return memory.NewProductStore(), memory.NewEdgeStore(), nil
	}

	client, err := ProvideDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return dynamostore.NewProductRepository(client, cfg.ProductsTable, logger),
		dynamostore.NewEdgeRepository(client, cfg.EdgesTable, logger),
		nil
}

// ProvideChatProvider selects the chat backend. Without an API key the
// deterministic local provider answers from the candidate context.
func ProvideChatProvider(cfg *config.Config, logger *zap.Logger) ports.ChatProvider {
	if cfg.OpenAIAPIKey == "" {
		logger.Info("no OpenAI API key configured, using local chat provider")
		return llm.NewMockProvider()
	}
	return llm.NewOpenAIProvider(llm.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: time.Duration(cfg.ChatTimeoutS) * time.Second,
	}, logger)
}

// ProvideGraphBuilder creates the graph build service
func ProvideGraphBuilder(
	productRepo ports.ProductRepository,
	edgeRepo ports.EdgeRepository,
	publisher ports.EventPublisher,
	cfg *config.Config,
	collector *observability.Collector,
	logger *zap.Logger,
) *services.GraphBuilder {
	scorer := domainservices.NewSimilarityScorer(nil)
	return services.NewGraphBuilder(productRepo, edgeRepo, publisher, scorer, cfg.PagerankTagCount, collector, logger)
}

// ProvideCommandBus creates a command bus with all handlers registered
// behind the logging pipeline.
func ProvideCommandBus(
	builder *services.GraphBuilder,
	loader ports.CatalogLoader,
	logger *zap.Logger,
) (*commandbus.CommandBus, error) {
	bus := commandbus.NewCommandBus()
	pipeline := commandbus.NewPipeline(commandbus.LoggingMiddleware(logger))

	rebuildHandler := commandhandlers.NewRebuildGraphHandler(builder, logger)
	if err := bus.Register(commands.RebuildGraphCommand{}, pipeline.Execute(rebuildHandler)); err != nil {
		return nil, err
	}

	reloadHandler := commandhandlers.NewReloadCatalogHandler(builder, loader, logger)
	if err := bus.Register(commands.ReloadCatalogCommand{}, pipeline.Execute(reloadHandler)); err != nil {
		return nil, err
	}

	return bus, nil
}

// ProvideQueryBus creates a query bus with all handlers registered behind
// the metrics middleware.
func ProvideQueryBus(
	builder *services.GraphBuilder,
	productRepo ports.ProductRepository,
	edgeRepo ports.EdgeRepository,
	collector *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	bus := querybus.NewQueryBus()
	metrics := querybus.NewMetricsMiddleware(collector)

	graphDataHandler := queryhandlers.NewGetGraphDataHandler(builder, logger)
	if err := bus.Register(queries.GetGraphDataQuery{}, metrics.Wrap(graphDataHandler)); err != nil {
		return nil, err
	}

	productsHandler := queryhandlers.NewGetProductsHandler(productRepo, edgeRepo, collector, logger)
	if err := bus.Register(queries.GetProductsQuery{}, metrics.Wrap(productsHandler)); err != nil {
		return nil, err
	}

	productHandler := queryhandlers.NewGetProductHandler(productRepo)
	if err := bus.Register(queries.GetProductQuery{}, metrics.Wrap(productHandler)); err != nil {
		return nil, err
	}

	return bus, nil
}

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	collector := ProvideCollector()

	productRepo, edgeRepo, err := ProvideRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("building repositories: %w", err)
	}

	publisher := messaging.NewLogPublisher(logger)
	loader := ingest.NewCSVLoader(logger)
	builder := ProvideGraphBuilder(productRepo, edgeRepo, publisher, cfg, collector, logger)

	provider := ProvideChatProvider(cfg, logger)
	recommender := services.NewRecommender(productRepo, edgeRepo, provider, collector, logger)

	// The hub and the layout session reference each other: the hub fans
	// frames out for the session, the session's viewport answers the
	// hub's viewer interactions. The interaction handler binds late to
	// break the cycle.
	interactions := websocket.NewInteractions(logger)
	hub := websocket.NewHub(interactions, logger)

	surface := render.NewSurface(cfg.CanvasWidth, cfg.CanvasHeight)
	interval := time.Duration(cfg.FrameIntervalMs) * time.Millisecond
	visualizer := services.NewVisualizer(surface, hub, interval, collector, logger)
	interactions.Bind(visualizer)

	commandBus, err := ProvideCommandBus(builder, loader, logger)
	if err != nil {
		return nil, fmt.Errorf("building command bus: %w", err)
	}

	queryBus, err := ProvideQueryBus(builder, productRepo, edgeRepo, collector, logger)
	if err != nil {
		return nil, fmt.Errorf("building query bus: %w", err)
	}

	wsServer := websocket.NewServer(hub, visualizer.Frame, logger)
	router := rest.NewRouter(commandBus, queryBus, recommender, visualizer, builder, wsServer, productRepo, collector, cfg.EnableCORS, cfg.EnableMetrics, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Collector:   collector,
		ProductRepo: productRepo,
		EdgeRepo:    edgeRepo,
		Loader:      loader,
		Builder:     builder,
		Recommender: recommender,
		Visualizer:  visualizer,
		Hub:         hub,
		CommandBus:  commandBus,
		QueryBus:    queryBus,
		Handler:     router.Setup(),
	}, nil
}
