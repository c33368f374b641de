// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	base := t.TempDir()
	ws, err := New(base)
	require.NoError(t, err)
	defer ws.Close()

	assert.Equal(t, base, filepath.Dir(ws.Path()))
	assert.True(t, strings.HasPrefix(filepath.Base(ws.Path()), prefix))
	for _, dir := range []string{InputDir, OutputDir} {
		info, err := os.Stat(ws.Join(dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	assert.Equal(t, filepath.Join(ws.Path(), "out", "a.pdf"), ws.Output("a.pdf"))
}

func TestSlot(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	defer ws.Close()

	a, err := ws.Slot(0, "a.txt")
	require.NoError(t, err)
	b, err := ws.Slot(1, "dir/a.txt")
	require.NoError(t, err)
	again, err := ws.Slot(0, "b.txt")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(ws.Path(), "in", "0", "a.txt"), a)
	assert.Equal(t, filepath.Join(ws.Path(), "in", "1", "a.txt"), b)
	assert.Equal(t, filepath.Join(ws.Path(), "in", "0", "b.txt"), again)
	assert.DirExists(t, filepath.Dir(b))
}

func TestNew_CreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "tmp")
	ws, err := New(base)
	require.NoError(t, err)
	defer ws.Close()
	assert.DirExists(t, ws.Path())
}

func TestClose(t *testing.T) {
	base := t.TempDir()
	ws, err := New(base)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(ws.Output("a.pdf"), []byte("x"), 0o644))
	require.NoError(t, ws.Close())
	assert.NoDirExists(t, ws.Path())

	// Second close is a no-op.
	assert.NoError(t, ws.Close())

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
