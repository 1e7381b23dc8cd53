// Package llm wraps the language-model backend behind a small gateway
// interface so the engine can be tested without network access.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Message is a role-tagged content string sent to the model backend.
type Message struct {
	Role    string
	Content string
}

// Params are the generation parameters for a single completion call.
// JSONMode asserts to the backend that the entire response must be a single
// valid JSON value; the gateway passes the hint through without enforcing it.
type Params struct {
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// Gateway sends one message sequence to the model backend and returns the
// raw response text. Exactly one attempt per call: retries are the caller's
// decision, and the engine deliberately makes none.
type Gateway interface {
	Complete(ctx context.Context, messages []Message, params Params) (string, error)
}

// GenerationError wraps any backend failure (network, auth, rate limit,
// empty response) behind a single error kind.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsGenerationError reports whether err is (or wraps) a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
