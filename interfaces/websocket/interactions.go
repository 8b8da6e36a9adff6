package websocket

import (
	"sync"

	"go.uber.org/zap"

	"stylegraph/domain/graph"
)

// ViewController is the subset of the visualization session that viewer
// interactions drive.
type ViewController interface {
	Hover(screenX, screenY float64) *graph.Node
	Pan(dx, dy float64)
	Zoom(factor, screenX, screenY float64)
	ResetView()
}

// Interactions maps decoded viewer commands onto the shared view. Every
// connected viewer manipulates the same viewport. The view is bound after
// construction because the hub and the session reference each other.
type Interactions struct {
	mu     sync.RWMutex
	view   ViewController
	logger *zap.Logger
}

// NewInteractions creates an interaction handler with no view bound yet
func NewInteractions(logger *zap.Logger) *Interactions {
	return &Interactions{logger: logger}
}

// Bind attaches the view the interactions drive
func (i *Interactions) Bind(view ViewController) {
	i.mu.Lock()
	i.view = view
	i.mu.Unlock()
}

// HandleInteraction dispatches one viewer command
func (i *Interactions) HandleInteraction(cmd Interaction) {
	i.mu.RLock()
	view := i.view
	i.mu.RUnlock()
	if view == nil {
		return
	}

	switch cmd.Type {
	case "hover":
		view.Hover(cmd.X, cmd.Y)
	case "pan":
		view.Pan(cmd.DX, cmd.DY)
	case "zoom":
		factor := cmd.Factor
		if factor <= 0 {
			factor = 1
		}
		view.Zoom(factor, cmd.X, cmd.Y)
	case "reset":
		view.ResetView()
	default:
		i.logger.Debug("ignoring unknown interaction", zap.String("type", cmd.Type))
	}
}
