// Package models contains shared data models used across the tdg codebase.
package models

import "context"

// Enhancer is the capability interface for intelligent case enrichment.
// Never call specific providers directly — always inject this interface.
// The variant set is closed (openai, anthropic, null) and selected once at
// construction time by the enhance factory.
type Enhancer interface {
	// Enhance takes an endpoint plus its foundation cases and returns
	// additional or enriched cases. Output is untrusted until validated.
	Enhance(ctx context.Context, endpoint EndpointSpec, foundation []TestCase, opts GenerationOptions) ([]TestCase, error)
	// Name returns the provider identifier (e.g., "openai", "null").
	Name() string
}
