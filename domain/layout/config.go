// Package layout runs the force-directed placement of a graph snapshot.
// The simulation is an explicit mutable object stepped by an external loop;
// it owns node positions from the moment it is created until Stop.
package layout

// Config tunes the force simulation.
type Config struct {
	// Canvas dimensions in layout units
	Width  float64
	Height float64

	// ChargeStrength is the many-body force constant. Negative values
	// repel; the default is strongly repulsive to avoid clumping.
	ChargeStrength float64

	// LinkDistance is the base resting distance of an edge. The actual
	// target shrinks as the similarity score grows, so strong links sit
	// closer together.
	LinkDistance float64

	// LinkStrength scales the spring pull per step.
	LinkStrength float64

	// CenterStrength is the weak pull of the centroid toward the canvas
	// center.
	CenterStrength float64

	// AxisGravity pulls every node toward the horizontal and vertical
	// midlines independently, damping drift.
	AxisGravity float64

	// CollideRadius is the minimum separation radius applied when a node's
	// own radius is smaller.
	CollideRadius float64

	// CollidePasses is how many relaxation passes the hard collision
	// constraint runs per step.
	CollidePasses int

	// AlphaDecay cools the simulation toward rest. AlphaMin is the energy
	// below which the simulation reports itself settled.
	AlphaDecay float64
	AlphaMin   float64

	// VelocityDecay is the per-step friction applied to velocities.
	VelocityDecay float64
}

// DefaultConfig returns the tuning used by the product visualization.
func DefaultConfig(width, height float64) Config {
	return Config{
		Width:          width,
		Height:         height,
		ChargeStrength: -300,
		LinkDistance:   80,
		LinkStrength:   0.3,
		CenterStrength: 0.05,
		AxisGravity:    0.1,
		CollideRadius:  20,
		CollidePasses:  2,
		AlphaDecay:     0.0228,
		AlphaMin:       0.001,
		VelocityDecay:  0.4,
	}
}
