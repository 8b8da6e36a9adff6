package render

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"stylegraph/domain/graph"
)

// Overlay is the hover detail box. The surface owns at most one at a time.
type Overlay struct {
	NodeID string
	Lines  []string
	X      float64
	Y      float64
}

// Surface renders graph frames as SVG documents. It owns the viewport and
// the optional hover overlay. All methods are safe for concurrent use; the
// layout loop renders frames while HTTP handlers mutate pan/zoom/hover.
type Surface struct {
	mu       sync.Mutex
	viewport *Viewport
	overlay  *Overlay
}

// NewSurface creates a surface with an identity viewport
func NewSurface(width, height float64) *Surface {
	return &Surface{viewport: NewViewport(width, height)}
}

// Viewport returns a copy of the current viewport state
func (s *Surface) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.viewport
}

// SetScale applies an absolute zoom level
func (s *Surface) SetScale(scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.SetScale(scale)
}

// ZoomBy zooms about a screen point
func (s *Surface) ZoomBy(factor, screenX, screenY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.ZoomBy(factor, screenX, screenY)
}

// Pan shifts the viewport
func (s *Surface) Pan(dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Pan(dx, dy)
}

// ResetView restores the identity transform and clears any overlay
func (s *Surface) ResetView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Reset()
	s.overlay = nil
}

// Hover hit-tests a screen point against the snapshot and installs the
// overlay for the node under it. Installing a new overlay replaces the
// previous one; a miss clears it. The hit node is returned, if any.
func (s *Surface) Hover(snapshot *graph.Snapshot, screenX, screenY float64) *graph.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot == nil || snapshot.Empty() {
		s.overlay = nil
		return nil
	}

	wx, wy := s.viewport.ToWorld(screenX, screenY)

	var hit *graph.Node
	for _, n := range snapshot.Nodes {
		r := n.Radius()
		dx, dy := n.X-wx, n.Y-wy
		if dx*dx+dy*dy <= r*r {
			hit = n
			// Later nodes draw on top, so keep scanning.
		}
	}

	if hit == nil {
		s.overlay = nil
		return nil
	}

	s.overlay = &Overlay{
		NodeID: hit.ID,
		Lines: []string{
			hit.Name,
			fmt.Sprintf("%s / %s / %s", hit.Brand, hit.Gender, hit.Color),
			fmt.Sprintf("price %.0f, role %s", hit.Price, hit.Role),
		},
		X: hit.X,
		Y: hit.Y - hit.Radius() - 8,
	}
	return hit
}

// ClearHover removes the overlay
func (s *Surface) ClearHover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = nil
}

// RenderFrame draws the snapshot as a complete SVG document. An empty or
// nil snapshot renders the empty state instead of failing.
func (s *Surface) RenderFrame(snapshot *graph.Snapshot) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`,
		s.viewport.Width, s.viewport.Height, s.viewport.Width, s.viewport.Height)
	sb.WriteString("\n")

	if snapshot == nil || snapshot.Empty() {
		fmt.Fprintf(&sb, `<text x="%.0f" y="%.0f" text-anchor="middle" fill="%s">no data</text>`,
			s.viewport.Width/2, s.viewport.Height/2, fillOther)
		sb.WriteString("\n")
		s.writeLegend(&sb)
		sb.WriteString("</svg>")
		return sb.String()
	}

	fmt.Fprintf(&sb, `<g transform="%s">`, s.viewport.Transform())
	sb.WriteString("\n")

	for _, e := range snapshot.Edges {
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#bdbdbd" stroke-width="%.2f"/>`,
			e.Source.X, e.Source.Y, e.Target.X, e.Target.Y, e.StrokeWidth())
		sb.WriteString("\n")
	}

	for _, n := range snapshot.Nodes {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="1.5" data-id="%s"/>`,
			n.X, n.Y, n.Radius(), FillForRole(n.Role), OutlineForGender(n.Gender), html.EscapeString(n.ID))
		sb.WriteString("\n")
	}

	if s.overlay != nil {
		s.writeOverlay(&sb, s.overlay)
	}

	sb.WriteString("</g>\n")
	s.writeLegend(&sb)
	sb.WriteString("</svg>")
	return sb.String()
}

func (s *Surface) writeOverlay(sb *strings.Builder, o *Overlay) {
	fmt.Fprintf(sb, `<g class="overlay" data-node="%s">`, html.EscapeString(o.NodeID))
	sb.WriteString("\n")
	fmt.Fprintf(sb, `<rect x="%.1f" y="%.1f" width="180" height="%d" rx="4" fill="#fffde7" stroke="%s"/>`,
		o.X-90, o.Y-float64(16*len(o.Lines))-8, 16*len(o.Lines)+12, outlineDefault)
	sb.WriteString("\n")
	for i, line := range o.Lines {
		fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="12">%s</text>`,
			o.X, o.Y-float64(16*(len(o.Lines)-i))+8, html.EscapeString(line))
		sb.WriteString("\n")
	}
	sb.WriteString("</g>\n")
}

// writeLegend draws the role legend in the top-left corner, outside the
// pan/zoom transform so it stays fixed.
func (s *Surface) writeLegend(sb *strings.Builder) {
	sb.WriteString(`<g class="legend">` + "\n")
	for i, entry := range legendEntries {
		y := 20 + i*20
		fmt.Fprintf(sb, `<circle cx="16" cy="%d" r="6" fill="%s"/>`, y, FillForRole(entry.role))
		sb.WriteString("\n")
		fmt.Fprintf(sb, `<text x="28" y="%d" font-size="12">%s</text>`, y+4, entry.label)
		sb.WriteString("\n")
	}
	sb.WriteString("</g>\n")
}
