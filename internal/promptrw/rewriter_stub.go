//go:build !llama

package promptrw

// This file provides a no-CGO stub for the rewriter backend. It is compiled
// when the 'llama' build tag is NOT set, keeping default builds CGO-free.

// New fails fast: rewriter support is not built. Callers fall back to the
// raw prompt.
func New(opts Options) (Rewriter, error) {
	return nil, ErrUnavailable
}
