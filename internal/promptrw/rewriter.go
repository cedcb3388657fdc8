// Package promptrw wraps the optional LLM prompt rewriter that expands a
// terse user prompt into the detailed phrasing the motion model was trained
// on. The real backend is a llama.cpp binding behind the 'llama' build tag;
// default builds get a fail-fast stub so the service degrades to raw prompts.
package promptrw

import (
	"context"
	"errors"
)

// ErrUnavailable signals that no rewriter backend is present in this build
// or that its model file is missing. Callers treat it as "continue with the
// raw prompt".
var ErrUnavailable = errors.New("prompt rewriter unavailable")

// Rewriter turns a user prompt into an engineered prompt.
type Rewriter interface {
	// Rewrite returns the engineered prompt. Implementations must return
	// when the context is canceled.
	Rewrite(ctx context.Context, text string) (string, error)
	// Close releases the backing model.
	Close() error
}

// Options configures the rewriter backend.
type Options struct {
	// ModelDir is searched for a rewriter model file matching Quantization.
	ModelDir string
	// Quantization is int4, int8 or none.
	Quantization string
	CtxSize      int
	Threads      int
}
