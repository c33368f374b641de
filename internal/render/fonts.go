// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdiddy/file-compressor/pkg/types"
)

// leadingFactor is the ratio of line height to font size.
const leadingFactor = 1.2

// coreFonts lists the PDF base fonts usable without a font file.
var coreFonts = map[string]bool{
	"courier":      true,
	"helvetica":    true,
	"arial":        true,
	"times":        true,
	"symbol":       true,
	"zapfdingbats": true,
}

// ErrUnknownFont reports a core font family gofpdf does not ship.
var ErrUnknownFont = errors.New("unknown core font")

// Fonts is the font registry shared by every render call. It is built once
// by LoadFonts before serving and never modified afterwards.
type Fonts struct {
	family string
	size   float64
	ttf    []byte // nil for core fonts
}

// LoadFonts builds the registry from the layout settings. With a font path
// it reads the TrueType file once; otherwise the family must be a core font.
func LoadFonts(cfg types.LayoutConfig) (*Fonts, error) {
	family := cfg.FontFamily
	if family == "" {
		family = types.DefaultFontFamily
	}
	size := cfg.FontSize
	if !(size > 0) {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}

	f := &Fonts{family: family, size: size}
	if cfg.FontPath == "" {
		if !coreFonts[strings.ToLower(family)] {
			return nil, fmt.Errorf("%w: %s (set layout.font_path for TrueType fonts)", ErrUnknownFont, family)
		}
		return f, nil
	}

	data, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font %s: %w", cfg.FontPath, err)
	}
	if !isTrueType(data) {
		return nil, fmt.Errorf("font %s is not a TrueType file", cfg.FontPath)
	}
	f.ttf = data
	return f, nil
}

// Family returns the registered family name.
func (f *Fonts) Family() string { return f.family }

// Size returns the fixed font size in points.
func (f *Fonts) Size() float64 { return f.size }

// LineHeight returns the vertical advance per line.
func (f *Fonts) LineHeight() float64 { return f.size * leadingFactor }

// apply registers the font on pdf, selects it, and returns the function that
// maps UTF-8 text into the font's encoding.
func (f *Fonts) apply(pdf *gofpdf.Fpdf) func(string) string {
	if f.ttf != nil {
		pdf.AddUTF8FontFromBytes(f.family, "", f.ttf)
		pdf.SetFont(f.family, "", f.size)
		return func(s string) string { return s }
	}
	pdf.SetFont(f.family, "", f.size)
	return pdf.UnicodeTranslatorFromDescriptor("")
}

// isTrueType checks the sfnt version tag of a font file.
func isTrueType(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	tag := data[:4]
	return bytes.Equal(tag, []byte{0x00, 0x01, 0x00, 0x00}) || bytes.Equal(tag, []byte("true"))
}
