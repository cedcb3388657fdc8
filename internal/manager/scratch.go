package manager

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// scratchWorkspace is a uniquely named per-request directory handed to the
// runtime as an artifact sink. It must be removed on every exit path.
type scratchWorkspace struct {
	dir string
}

func newScratchWorkspace() (*scratchWorkspace, error) {
	dir := filepath.Join(os.TempDir(), "motiond-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch workspace: %w", err)
	}
	return &scratchWorkspace{dir: dir}, nil
}

// cleanup removes the workspace and everything in it. Removal failure is
// logged, not surfaced; the request outcome is already decided by then.
func (w *scratchWorkspace) cleanup(log zerolog.Logger) {
	if err := os.RemoveAll(w.dir); err != nil {
		log.Warn().Err(err).Str("dir", w.dir).Msg("scratch workspace cleanup failed")
	}
}
