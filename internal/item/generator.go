package item

import "context"

// Generator produces assessment content units using an LLM provider.
type Generator interface {
	// Generate produces one content unit for the given input context.
	// Returns a validated Unit or an error.
	// All configured validators are run before returning.
	Generate(ctx context.Context, input GenerateInput) (*Unit, error)
}
