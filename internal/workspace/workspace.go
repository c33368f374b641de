// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace manages the per-request temporary directory that holds
// uploaded inputs, converted outputs, and the archive.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const (
	prefix = "file-compressor-"

	// InputDir and OutputDir separate saved uploads from converted files so
	// a passthrough PDF never overwrites its own source.
	InputDir  = "in"
	OutputDir = "out"
)

// Workspace is a private temporary directory. Close removes it and
// everything inside; it is safe to call more than once.
type Workspace struct {
	root string
	once sync.Once
	err  error
}

// New creates a workspace under baseDir, or under the system temporary
// directory when baseDir is empty.
func New(baseDir string) (*Workspace, error) {
	if baseDir != "" {
		if err := os.MkdirAll(baseDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating temp base %s: %w", baseDir, err)
		}
	}
	root, err := os.MkdirTemp(baseDir, prefix)
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	ws := &Workspace{root: root}
	for _, dir := range []string{InputDir, OutputDir} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o700); err != nil {
			ws.Close()
			return nil, fmt.Errorf("creating workspace %s dir: %w", dir, err)
		}
	}
	return ws, nil
}

// Path returns the workspace root.
func (w *Workspace) Path() string { return w.root }

// Join returns a path inside the workspace root.
func (w *Workspace) Join(elem ...string) string {
	return filepath.Join(append([]string{w.root}, elem...)...)
}

// Slot returns the path for the i-th saved upload of the given base name.
// Each upload gets its own directory so equal names never clash and the
// file keeps its original base name.
func (w *Workspace) Slot(i int, name string) (string, error) {
	dir := w.Join(InputDir, strconv.Itoa(i))
	if err := os.Mkdir(dir, 0o700); err != nil && !os.IsExist(err) {
		return "", fmt.Errorf("creating upload slot %d: %w", i, err)
	}
	return filepath.Join(dir, filepath.Base(name)), nil
}

// Output returns the path for a converted file of the given base name.
func (w *Workspace) Output(name string) string {
	return w.Join(OutputDir, filepath.Base(name))
}

// Close removes the workspace directory tree.
func (w *Workspace) Close() error {
	w.once.Do(func() {
		if err := os.RemoveAll(w.root); err != nil {
			w.err = fmt.Errorf("removing workspace %s: %w", w.root, err)
		}
	})
	return w.err
}
