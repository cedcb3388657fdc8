//go:build llama

package promptrw

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"

	"motiond/internal/common/fsutil"
)

const rewriteInstruction = "Rewrite the following motion description into a single detailed sentence " +
	"describing body movement, style and timing. Reply with the sentence only.\n\nDescription: "

type llamaRewriter struct {
	model   *llama.LLama
	threads int
}

// New loads the rewriter model for the given quantization mode. The model
// file is expected at <dir>/promptrw.<quant>.gguf; quantized weights are
// baked into the file, so the mode selects which file to load.
func New(opts Options) (Rewriter, error) {
	name := fmt.Sprintf("promptrw.%s.gguf", quantSuffix(opts.Quantization))
	path := filepath.Join(opts.ModelDir, name)
	if !fsutil.PathExists(path) {
		return nil, fmt.Errorf("%w: %s not found", ErrUnavailable, path)
	}
	ctxSize := opts.CtxSize
	if ctxSize <= 0 {
		ctxSize = 2048
	}
	m, err := llama.New(path, llama.SetContext(ctxSize))
	if err != nil {
		return nil, fmt.Errorf("load rewriter model: %w", err)
	}
	return &llamaRewriter{model: m, threads: opts.Threads}, nil
}

func quantSuffix(q string) string {
	switch q {
	case "int8":
		return "q8_0"
	case "none":
		return "f16"
	default:
		return "q4_k_m"
	}
}

func (r *llamaRewriter) Rewrite(ctx context.Context, text string) (string, error) {
	r.model.SetTokenCallback(func(string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	po := []llama.PredictOption{
		llama.SetTokens(256),
		llama.SetTemperature(0.2),
	}
	if r.threads > 0 {
		po = append(po, llama.SetThreads(r.threads))
	}
	out, err := r.model.Predict(rewriteInstruction+text, po...)
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return text, nil
	}
	return out, nil
}

func (r *llamaRewriter) Close() error {
	if r.model != nil {
		r.model.Free()
	}
	return nil
}
