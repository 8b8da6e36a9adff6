package layout

import (
	"math"
	"math/rand"

	"stylegraph/domain/graph"
)

// Simulation is one running layout over one graph snapshot. It is not safe
// for concurrent use: the goroutine driving Step owns the node positions.
// A snapshot replacement must Stop the old simulation before a new one is
// created over the same rendering surface.
type Simulation struct {
	cfg   Config
	nodes []*graph.Node
	edges []*graph.Edge

	alpha   float64
	running bool
	rng     *rand.Rand
}

// NewSimulation seeds a simulation over the classified snapshot. Nodes
// without a position are scattered across the canvas; positions already
// present are kept.
func NewSimulation(snapshot *graph.Snapshot, cfg Config) *Simulation {
	s := &Simulation{
		cfg:     cfg,
		alpha:   1.0,
		running: true,
		rng:     rand.New(rand.NewSource(rand.Int63())),
	}
	if snapshot != nil {
		s.nodes = snapshot.Nodes
		s.edges = snapshot.Edges
	}

	for _, n := range s.nodes {
		if n.X == 0 && n.Y == 0 {
			n.X = s.rng.Float64() * cfg.Width
			n.Y = s.rng.Float64() * cfg.Height
		}
		n.VX, n.VY = 0, 0
	}

	return s
}

// Alpha returns the remaining simulation energy.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Running reports whether the simulation still accepts steps.
func (s *Simulation) Running() bool {
	return s.running
}

// Settled reports whether the simulation has cooled below its minimum
// energy. Settling is asymptotic; consumers simply stop ticking.
func (s *Simulation) Settled() bool {
	return s.alpha < s.cfg.AlphaMin
}

// Stop halts the simulation and discards its hold on the node set. A
// stopped simulation ignores further steps and can never be restarted.
func (s *Simulation) Stop() {
	s.running = false
	s.nodes = nil
	s.edges = nil
}

// Step advances the simulation by one discrete tick: every force adds to
// each node's velocity, velocities decay, positions integrate, and the hard
// collision constraint separates any overlapping pairs.
func (s *Simulation) Step() {
	if !s.running || len(s.nodes) == 0 {
		return
	}

	s.alpha += (0 - s.alpha) * s.cfg.AlphaDecay

	s.applyLinks()
	s.applyManyBody()
	s.applyCentering()
	s.applyAxisGravity()

	friction := 1 - s.cfg.VelocityDecay
	for _, n := range s.nodes {
		n.VX *= friction
		n.VY *= friction
		n.X += n.VX
		n.Y += n.VY
	}

	for i := 0; i < s.cfg.CollidePasses; i++ {
		s.resolveCollisions()
	}
}

// applyLinks pulls each edge's endpoints toward a resting distance that
// shrinks as the similarity score grows.
func (s *Simulation) applyLinks() {
	for _, e := range s.edges {
		dx := e.Target.X - e.Source.X
		dy := e.Target.Y - e.Source.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dx, dy = s.jitter()
			dist = math.Hypot(dx, dy)
		}

		target := s.cfg.LinkDistance / math.Sqrt(1+e.SimilarityScore)
		k := (dist - target) / dist * s.cfg.LinkStrength * s.alpha
		fx, fy := dx*k, dy*k

		e.Source.VX += fx / 2
		e.Source.VY += fy / 2
		e.Target.VX -= fx / 2
		e.Target.VY -= fy / 2
	}
}

// applyManyBody repels every pair of nodes with strength falling off with
// squared distance.
func (s *Simulation) applyManyBody() {
	for i, a := range s.nodes {
		for _, b := range s.nodes[i+1:] {
			dx := b.X - a.X
			dy := b.Y - a.Y
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				dx, dy = s.jitter()
				d2 = dx*dx + dy*dy
			}
			// Distance floor keeps near-coincident pairs from launching
			// each other across the canvas.
			if d2 < 1 {
				d2 = 1
			}

			// ChargeStrength is negative, so k pushes the pair apart.
			k := s.cfg.ChargeStrength * s.alpha / d2
			d := math.Sqrt(d2)
			fx, fy := dx/d*k, dy/d*k

			a.VX += fx
			a.VY += fy
			b.VX -= fx
			b.VY -= fy
		}
	}
}

// applyCentering nudges the whole graph so its centroid drifts toward the
// canvas center.
func (s *Simulation) applyCentering() {
	var cx, cy float64
	for _, n := range s.nodes {
		cx += n.X
		cy += n.Y
	}
	cx /= float64(len(s.nodes))
	cy /= float64(len(s.nodes))

	dx := (s.cfg.Width/2 - cx) * s.cfg.CenterStrength * s.alpha
	dy := (s.cfg.Height/2 - cy) * s.cfg.CenterStrength * s.alpha
	for _, n := range s.nodes {
		n.VX += dx
		n.VY += dy
	}
}

// applyAxisGravity pulls each node independently toward the horizontal and
// vertical midlines.
func (s *Simulation) applyAxisGravity() {
	for _, n := range s.nodes {
		n.VX += (s.cfg.Width/2 - n.X) * s.cfg.AxisGravity * s.alpha
		n.VY += (s.cfg.Height/2 - n.Y) * s.cfg.AxisGravity * s.alpha
	}
}

// resolveCollisions enforces the hard minimum-separation constraint by
// moving overlapping pairs apart along their separation axis. The per-node
// radius comes from the rendering radius, so role-promoted nodes claim the
// extra space they draw with.
func (s *Simulation) resolveCollisions() {
	for i, a := range s.nodes {
		ra := s.collideRadius(a)
		for _, b := range s.nodes[i+1:] {
			rb := s.collideRadius(b)
			minDist := ra + rb

			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Hypot(dx, dy)
			if dist >= minDist {
				continue
			}
			if dist == 0 {
				dx, dy = s.jitter()
				dist = math.Hypot(dx, dy)
			}

			push := (minDist - dist) / dist / 2
			a.X -= dx * push
			a.Y -= dy * push
			b.X += dx * push
			b.Y += dy * push
		}
	}
}

func (s *Simulation) collideRadius(n *graph.Node) float64 {
	return math.Max(n.Radius(), s.cfg.CollideRadius)
}

func (s *Simulation) jitter() (float64, float64) {
	return (s.rng.Float64() - 0.5) * 1e-3, (s.rng.Float64() - 0.5) * 1e-3
}
