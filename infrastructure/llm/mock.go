package llm

import (
	"context"
	"fmt"
	"strings"

	"stylegraph/application/ports"
)

// MockProvider is a deterministic ChatProvider for development and tests.
// It echoes the catalog context back as a plain recommendation list so
// the full chat flow works without an API key.
type MockProvider struct{}

// NewMockProvider creates a mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

var _ ports.ChatProvider = (*MockProvider)(nil)

// Name identifies the provider in logs
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete builds a canned answer from the product lines in the context
func (p *MockProvider) Complete(_ context.Context, prompt, contextBlock string) (string, error) {
	var names []string
	for _, line := range strings.Split(contextBlock, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		// Lines look like "- <id>: <name> (...)".
		rest := strings.TrimPrefix(line, "- ")
		if colon := strings.Index(rest, ": "); colon >= 0 {
			rest = rest[colon+2:]
		}
		if paren := strings.LastIndex(rest, " ("); paren >= 0 {
			rest = rest[:paren]
		}
		names = append(names, rest)
	}

	if len(names) == 0 {
		return "I could not find matching products in the catalog.", nil
	}
	return fmt.Sprintf("Based on your question %q, have a look at: %s.",
		prompt, strings.Join(names, ", ")), nil
}
