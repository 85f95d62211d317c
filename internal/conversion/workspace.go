package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookbinder/internal/logging"
)

const workspacePrefix = "bookbinder-"

// workspace is a per-job scratch directory. Remove is idempotent.
type workspace struct {
	Dir    string
	once   sync.Once
	logger *slog.Logger
}

func newWorkspace(root string, logger *slog.Logger) (*workspace, error) {
	if strings.TrimSpace(root) == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, workspacePrefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &workspace{Dir: dir, logger: logger}, nil
}

// Remove deletes the workspace. Failures are logged and dropped.
func (w *workspace) Remove() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		if err := os.RemoveAll(w.Dir); err != nil {
			w.logger.Debug("workspace cleanup failed",
				logging.String("dir", w.Dir),
				logging.Error(err),
			)
		}
	})
}

// CleanStaleResult contains the outcome of a stale workspace sweep.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStaleWorkspaces removes workspaces older than maxAge that an earlier,
// interrupted run left under root. Only bookbinder workspaces are touched.
func CleanStaleWorkspaces(ctx context.Context, root string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}
	root = strings.TrimSpace(root)
	if root == "" || maxAge <= 0 {
		return result
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: root, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workspacePrefix) {
			continue
		}
		if _, err := uuid.Parse(strings.TrimPrefix(entry.Name(), workspacePrefix)); err != nil {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
			continue
		}
		result.Removed = append(result.Removed, dir)
	}

	if logger != nil && len(result.Removed) > 0 {
		logger.Info("removed stale workspaces", logging.Int("count", len(result.Removed)))
	}
	return result
}
