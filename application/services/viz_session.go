package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"stylegraph/domain/graph"
	"stylegraph/domain/layout"
	"stylegraph/interfaces/render"
	"stylegraph/pkg/observability"
)

// FrameSink receives rendered frames from a running layout session.
type FrameSink interface {
	// SendFrame delivers one rendered SVG frame to all viewers
	SendFrame(frame []byte)
}

// Visualizer runs the layout loop for the current graph: it classifies a
// snapshot, drives the force simulation on a ticker, renders each settled
// state through the surface and pushes frames to the sink. Only one
// session runs at a time; starting a new one stops the previous session
// first.
type Visualizer struct {
	surface   *render.Surface
	sink      FrameSink
	interval  time.Duration
	collector *observability.Collector
	logger    *zap.Logger

	// mu serializes the simulation stepper against every reader of node
	// positions: rendering, hit-testing and settledness checks.
	mu       sync.Mutex
	sim      *layout.Simulation
	snapshot *graph.Snapshot
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewVisualizer creates a visualizer pushing frames at the given interval
func NewVisualizer(surface *render.Surface, sink FrameSink, interval time.Duration, collector *observability.Collector, logger *zap.Logger) *Visualizer {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	return &Visualizer{
		surface:   surface,
		sink:      sink,
		interval:  interval,
		collector: collector,
		logger:    logger,
	}
}

// Start classifies the snapshot and begins a new layout session, stopping
// any session already running. The session's lifetime belongs to the
// visualizer, not to the caller: it runs until it settles or Stop is
// called, outliving the request that started it.
func (v *Visualizer) Start(snapshot *graph.Snapshot, recommendedIDs []string) {
	v.Stop()

	graph.Classify(snapshot, recommendedIDs)

	vp := v.surface.Viewport()
	cfg := layout.DefaultConfig(vp.Width, vp.Height)
	sim := layout.NewSimulation(snapshot, cfg)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	v.mu.Lock()
	v.sim = sim
	v.snapshot = snapshot
	v.cancel = cancel
	v.done = done
	v.mu.Unlock()

	v.logger.Info("layout session started",
		zap.Int("nodes", len(snapshot.Nodes)),
		zap.Int("edges", len(snapshot.Edges)))

	go v.run(runCtx, sim, snapshot, done)
}

// run drives the simulation until it settles or the session is stopped.
// One last frame is always pushed so viewers see the settled layout.
func (v *Visualizer) run(ctx context.Context, sim *layout.Simulation, snapshot *graph.Snapshot, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.mu.Lock()
			sim.Step()
			settled := sim.Settled()
			alpha := sim.Alpha()
			v.mu.Unlock()

			v.collector.SimulationTicks.Inc()
			v.pushFrame(snapshot)

			if settled {
				v.logger.Info("layout settled", zap.Float64("alpha", alpha))
				return
			}
		}
	}
}

func (v *Visualizer) pushFrame(snapshot *graph.Snapshot) {
	if v.sink == nil {
		return
	}
	v.mu.Lock()
	frame := v.surface.RenderFrame(snapshot)
	v.mu.Unlock()
	v.sink.SendFrame([]byte(frame))
}

// Stop cancels the running session, if any, and waits for its loop to
// exit.
func (v *Visualizer) Stop() {
	v.mu.Lock()
	cancel, done, sim := v.cancel, v.done, v.sim
	v.cancel = nil
	v.done = nil
	v.sim = nil
	v.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	sim.Stop()
}

// Hover hit-tests against the current session's snapshot and re-renders a
// frame so the overlay change is visible immediately.
func (v *Visualizer) Hover(screenX, screenY float64) *graph.Node {
	v.mu.Lock()
	snapshot := v.snapshot
	hit := v.surface.Hover(snapshot, screenX, screenY)
	v.mu.Unlock()

	if snapshot != nil {
		v.pushFrame(snapshot)
	}
	return hit
}

// Pan shifts the viewport and re-renders so viewers track the move
func (v *Visualizer) Pan(dx, dy float64) {
	v.surface.Pan(dx, dy)
	v.refresh()
}

// Zoom scales the viewport around the given screen point
func (v *Visualizer) Zoom(factor, screenX, screenY float64) {
	v.surface.ZoomBy(factor, screenX, screenY)
	v.refresh()
}

// SetScale applies an absolute zoom level
func (v *Visualizer) SetScale(scale float64) {
	v.surface.SetScale(scale)
	v.refresh()
}

// ResetView restores the default viewport and clears any hover overlay
func (v *Visualizer) ResetView() {
	v.surface.ResetView()
	v.refresh()
}

func (v *Visualizer) refresh() {
	v.mu.Lock()
	snapshot := v.snapshot
	v.mu.Unlock()
	if snapshot != nil {
		v.pushFrame(snapshot)
	}
}

// Frame renders the current state on demand, for the initial page load
// and for viewers joining mid-session.
func (v *Visualizer) Frame() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.surface.RenderFrame(v.snapshot)
}

// Surface exposes the owned rendering surface for pan/zoom handlers
func (v *Visualizer) Surface() *render.Surface {
	return v.surface
}

// Running reports whether a layout session is active and still cooling
func (v *Visualizer) Running() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sim != nil && v.sim.Running() && !v.sim.Settled()
}
