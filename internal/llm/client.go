package llm

import (
	"context"
)

// LLMClient is the narrow surface the generation pipeline needs from a text
// model provider. The system prompt carries the corpus and the hard rules;
// the user prompt carries the genre line.
type LLMClient interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}
