package llm

import (
	"context"
	"errors"
)

var (
	// ErrAPI covers model-side failures (bad request, quota, empty output).
	ErrAPI = errors.New("llm: model API request failed")
	// ErrConnection covers failures to reach the model service at all.
	ErrConnection = errors.New("llm: unable to connect to model API")
	// ErrTimeout is a model call that exceeded its deadline.
	ErrTimeout = errors.New("llm: model API request timed out")
)

// Client is the external language-model collaborator. Its output is
// advisory free text; callers must tolerate any shape.
type Client interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close() error
}
