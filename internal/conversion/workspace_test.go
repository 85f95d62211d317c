package conversion_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookbinder/internal/conversion"
)

func TestCleanStaleWorkspaces(t *testing.T) {
	root := t.TempDir()
	old := time.Now().Add(-48 * time.Hour)

	stale := filepath.Join(root, "bookbinder-0b8f5c1e-5d8a-4f55-9d6c-3b1f3f0f7a11")
	fresh := filepath.Join(root, "bookbinder-7c9e6679-7425-40de-944b-e07fc1f90ae7")
	foreign := filepath.Join(root, "bookbinder-notes")
	other := filepath.Join(root, "something-else")
	for _, dir := range []string{stale, fresh, foreign, other} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	for _, dir := range []string{stale, foreign, other} {
		require.NoError(t, os.Chtimes(dir, old, old))
	}

	result := conversion.CleanStaleWorkspaces(context.Background(), root, 24*time.Hour, nil)

	assert.Equal(t, []string{stale}, result.Removed)
	assert.Empty(t, result.Errors)
	assert.NoDirExists(t, stale)
	assert.DirExists(t, fresh)
	assert.DirExists(t, foreign)
	assert.DirExists(t, other)
}

func TestCleanStaleWorkspacesMissingRoot(t *testing.T) {
	result := conversion.CleanStaleWorkspaces(context.Background(), filepath.Join(t.TempDir(), "missing"), time.Hour, nil)
	assert.Empty(t, result.Removed)
	assert.Empty(t, result.Errors)
}
