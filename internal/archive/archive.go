// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive packages converted files into one flat zip container.
// The container is always a zip regardless of the public file name; the
// service publishes it as "compressed.rar" for existing clients.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// ErrDuplicateName reports two files that would share one archive entry.
var ErrDuplicateName = errors.New("duplicate archive entry")

// File is one member of an archive.
type File struct {
	// Name is the entry name; only its base name is used.
	Name string
	// Path is the file to read the content from.
	Path string
}

// Build writes files into a new zip at outPath, in order, with no
// directories. It returns outPath. On failure the partial archive is
// removed.
func Build(files []File, outPath string) (string, error) {
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		name := filepath.Base(f.Name)
		if name == "." || name == string(filepath.Separator) {
			return "", fmt.Errorf("invalid archive entry name %q", f.Name)
		}
		if seen[name] {
			return "", fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		seen[name] = true
	}

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}

	if err := write(out, files); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("closing archive: %w", err)
	}
	return outPath, nil
}

func write(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		if err := add(zw, f); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

func add(zw *zip.Writer, f File) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.Path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", f.Path)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("header for %s: %w", f.Path, err)
	}
	hdr.Name = filepath.Base(f.Name)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", hdr.Name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("compressing %s: %w", hdr.Name, err)
	}
	return nil
}
