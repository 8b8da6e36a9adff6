// Package render draws the classified, laid-out graph as SVG frames and
// owns the viewport and hover state of the visualization.
package render

import "stylegraph/domain/graph"

// Role fill colors. Recommended stands out strongest, then centrality,
// then one-hop neighbors, then the rest.
const (
	fillRecommended = "#4caf50"
	fillPagerank    = "#2196f3"
	fillConnected   = "#90caf9"
	fillOther       = "#9e9e9e"
)

// Gender outline colors, keyed by the catalog's gender values.
var genderOutlines = map[string]string{
	"men":    "#1a237e",
	"women":  "#880e4f",
	"boys":   "#01579b",
	"girls":  "#ad1457",
	"unisex": "#00695c",
}

const outlineDefault = "#424242"

// FillForRole maps a classification role to its fill color
func FillForRole(role graph.Role) string {
	switch role {
	case graph.RoleRecommended:
		return fillRecommended
	case graph.RolePagerank:
		return fillPagerank
	case graph.RoleConnected:
		return fillConnected
	default:
		return fillOther
	}
}

// OutlineForGender maps a product gender to its outline color
func OutlineForGender(gender string) string {
	if c, ok := genderOutlines[gender]; ok {
		return c
	}
	return outlineDefault
}

// legendEntry pairs a role with its display label
type legendEntry struct {
	role  graph.Role
	label string
}

// legendEntries lists every role in precedence order for the legend
var legendEntries = []legendEntry{
	{graph.RoleRecommended, "Recommended"},
	{graph.RolePagerank, "High centrality"},
	{graph.RoleConnected, "Connected"},
	{graph.RoleOther, "Other"},
}
