// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from writing a configuration directory under $HOME.
	model.ConfigPath = "disable"
}

// passthrough copies an existing PDF unchanged. The page count is read for
// reporting only; a file pdfcpu cannot parse still passes with 0 pages.
func (c *Converter) passthrough(srcPath, outPath string) (int, error) {
	if filepath.Clean(srcPath) != filepath.Clean(outPath) {
		if err := copyFile(srcPath, outPath); err != nil {
			return 0, err
		}
	}
	return pageCount(outPath), nil
}

// pageCount returns the page count of a PDF, or 0 if it cannot be read.
func pageCount(path string) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0
	}
	return n
}

func copyFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dstPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copying %s: %w", srcPath, err)
	}
	return dst.Close()
}
