package repository

import "context"

// TextGenerator produces a JSON object answer from a generative text model
type TextGenerator interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
