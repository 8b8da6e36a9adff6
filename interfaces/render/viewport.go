package render

import "fmt"

// Zoom scale bounds. Requests outside this range are clamped, never
// rejected.
const (
	MinScale = 0.1
	MaxScale = 4.0
)

// Viewport is the pan/zoom state of the visualization. Screen coordinates
// map to world coordinates through translate-then-scale.
type Viewport struct {
	Width      float64
	Height     float64
	TranslateX float64
	TranslateY float64
	Scale      float64
}

// NewViewport creates an identity viewport for the given canvas size
func NewViewport(width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height, Scale: 1}
}

// SetScale applies an absolute zoom level, clamped to the allowed range
func (v *Viewport) SetScale(scale float64) {
	v.Scale = clampScale(scale)
}

// ZoomBy zooms by a factor about a fixed screen point, so the point under
// the cursor stays put. The resulting scale is clamped.
func (v *Viewport) ZoomBy(factor, screenX, screenY float64) {
	old := v.Scale
	next := clampScale(old * factor)
	if next == old {
		return
	}

	// Keep the world point under (screenX, screenY) stationary.
	worldX := (screenX - v.TranslateX) / old
	worldY := (screenY - v.TranslateY) / old
	v.TranslateX = screenX - worldX*next
	v.TranslateY = screenY - worldY*next
	v.Scale = next
}

// Pan shifts the viewport by a screen-space delta
func (v *Viewport) Pan(dx, dy float64) {
	v.TranslateX += dx
	v.TranslateY += dy
}

// Reset restores the identity transform
func (v *Viewport) Reset() {
	v.TranslateX = 0
	v.TranslateY = 0
	v.Scale = 1
}

// ToWorld converts a screen point to world coordinates
func (v *Viewport) ToWorld(screenX, screenY float64) (float64, float64) {
	return (screenX - v.TranslateX) / v.Scale, (screenY - v.TranslateY) / v.Scale
}

// Transform renders the viewport as an SVG transform attribute value
func (v *Viewport) Transform() string {
	return fmt.Sprintf("translate(%.2f,%.2f) scale(%.3f)", v.TranslateX, v.TranslateY, v.Scale)
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
