// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// readArchive returns entry name to content, plus entry order.
func readArchive(t *testing.T, path string) (map[string]string, []string) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	contents := make(map[string]string)
	var order []string
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		contents[f.Name] = string(data)
		order = append(order, f.Name)
		assert.Equal(t, zip.Deflate, f.Method)
	}
	return contents, order
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "out/a.pdf", "%PDF-a")
	b := writeFile(t, dir, "out/nested/b.pdf", "%PDF-b")

	outPath := filepath.Join(dir, "compressed.rar")
	got, err := Build([]File{{Name: "a.pdf", Path: a}, {Name: "sub/b.pdf", Path: b}}, outPath)
	require.NoError(t, err)
	assert.Equal(t, outPath, got)

	contents, order := readArchive(t, outPath)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, order)
	assert.Equal(t, "%PDF-a", contents["a.pdf"])
	assert.Equal(t, "%PDF-b", contents["b.pdf"])
}

func TestBuild_Empty(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "empty.zip")
	_, err := Build(nil, outPath)
	require.NoError(t, err)

	contents, _ := readArchive(t, outPath)
	assert.Empty(t, contents)
}

func TestBuild_Errors(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "a")

	tests := []struct {
		name  string
		files []File
		is    error
	}{
		{"duplicate names", []File{{Name: "a.pdf", Path: a}, {Name: "x/a.pdf", Path: a}}, ErrDuplicateName},
		{"missing source", []File{{Name: "a.pdf", Path: a}, {Name: "gone.pdf", Path: filepath.Join(dir, "gone.pdf")}}, nil},
		{"directory source", []File{{Name: "dir.pdf", Path: dir}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outPath := filepath.Join(t.TempDir(), "out.zip")
			_, err := Build(tt.files, outPath)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			_, statErr := os.Stat(outPath)
			assert.True(t, os.IsNotExist(statErr), "partial archive left behind")
		})
	}
}
