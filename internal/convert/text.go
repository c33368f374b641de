// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pdiddy/file-compressor/internal/layout"
)

// convertText lays out a plain-text file one source line per output line.
func (c *Converter) convertText(srcPath, outPath string) (int, error) {
	text, err := readText(srcPath)
	if err != nil {
		return 0, err
	}
	return c.renderLines(layout.SplitLines(text), outPath)
}

// readText reads a whole text file as UTF-8. A UTF-8 or UTF-16 byte order
// mark selects the encoding and is dropped; invalid bytes become U+FFFD.
func readText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(f, dec))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
