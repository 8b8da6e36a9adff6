package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stylegraph/application/commands"
	"stylegraph/application/commands/bus"
	"stylegraph/application/ports"
	appservices "stylegraph/application/services"
)

// RebuildGraphHandler handles RebuildGraphCommand
type RebuildGraphHandler struct {
	builder *appservices.GraphBuilder
	logger  *zap.Logger
}

// NewRebuildGraphHandler creates a new handler instance
func NewRebuildGraphHandler(builder *appservices.GraphBuilder, logger *zap.Logger) *RebuildGraphHandler {
	return &RebuildGraphHandler{builder: builder, logger: logger}
}

// Handle executes the rebuild
func (h *RebuildGraphHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.RebuildGraphCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	nodes, edges, err := h.builder.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("graph rebuild failed: %w", err)
	}

	h.logger.Info("rebuild command completed",
		zap.String("reason", c.Reason),
		zap.Int("nodes", nodes),
		zap.Int("edges", edges))
	return nil
}

// ReloadCatalogHandler handles ReloadCatalogCommand
type ReloadCatalogHandler struct {
	builder *appservices.GraphBuilder
	loader  ports.CatalogLoader
	logger  *zap.Logger
}

// NewReloadCatalogHandler creates a new handler instance
func NewReloadCatalogHandler(builder *appservices.GraphBuilder, loader ports.CatalogLoader, logger *zap.Logger) *ReloadCatalogHandler {
	return &ReloadCatalogHandler{builder: builder, loader: loader, logger: logger}
}

// Handle re-reads the catalog source and rebuilds the graph
func (h *ReloadCatalogHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(commands.ReloadCatalogCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	nodes, edges, err := h.builder.Reload(ctx, h.loader, c.Source)
	if err != nil {
		return fmt.Errorf("catalog reload failed: %w", err)
	}

	h.logger.Info("reload command completed",
		zap.String("source", c.Source),
		zap.Int("nodes", nodes),
		zap.Int("edges", edges))
	return nil
}
