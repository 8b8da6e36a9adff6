package commands

import "stylegraph/pkg/errors"

// RebuildGraphCommand asks for a full re-derivation of similarity edges
// and centrality scores from the current catalog.
type RebuildGraphCommand struct {
	Reason string `json:"reason"`
}

// Validate implements the command bus contract. Any reason, including an
// empty one, is acceptable.
func (c RebuildGraphCommand) Validate() error {
	return nil
}

// ReloadCatalogCommand asks for the catalog to be re-read from its source
// file before the graph is rebuilt.
type ReloadCatalogCommand struct {
	Source string `json:"source"`
}

// Validate implements the command bus contract
func (c ReloadCatalogCommand) Validate() error {
	if c.Source == "" {
		return errors.NewValidationError("catalog source path is required")
	}
	return nil
}
