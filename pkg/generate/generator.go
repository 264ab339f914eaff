// Package generate talks to the text-generation service and owns the prompt
// templates artifacts are requested with.
package generate

import (
	"context"
)

// Generator turns a prompt into free text. Implementations must not retry
// internally; any error means no content was produced.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
