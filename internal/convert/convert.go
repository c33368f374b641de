// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns one uploaded file into one PDF. The input kind is
// chosen from the file extension: images become a single full-bleed page,
// plain text and Word documents are laid out line by line on fixed pages,
// and existing PDFs pass through unchanged.
package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/file-compressor/internal/layout"
	"github.com/pdiddy/file-compressor/internal/render"
	"github.com/pdiddy/file-compressor/pkg/types"
)

// outputExt is the extension of every converted file.
const outputExt = ".pdf"

// Kind identifies the converter for an input file.
type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindText
	KindDocument
	KindPassthrough
)

var kindNames = map[Kind]string{
	KindUnsupported: "unsupported",
	KindImage:       "image",
	KindText:        "text",
	KindDocument:    "document",
	KindPassthrough: "passthrough",
}

func (k Kind) String() string { return kindNames[k] }

// extKinds is the extension whitelist.
var extKinds = map[string]Kind{
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".txt":  KindText,
	".docx": KindDocument,
	".pdf":  KindPassthrough,
}

// KindForExt returns the kind for a file extension (with leading dot,
// any case), or KindUnsupported.
func KindForExt(ext string) Kind {
	return extKinds[strings.ToLower(ext)]
}

// KindForName returns the kind for a file name.
func KindForName(name string) Kind {
	return KindForExt(filepath.Ext(name))
}

// SupportedExtensions lists the accepted extensions in sorted order.
func SupportedExtensions() []string {
	return []string{".docx", ".jpeg", ".jpg", ".pdf", ".png", ".txt"}
}

// ErrUnsupportedFormat matches every UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// UnsupportedFormatError reports a file whose extension is not whitelisted.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return "unsupported file format: (no extension)"
	}
	return "unsupported file format: " + e.Ext
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// CheckName returns an UnsupportedFormatError when name has no known kind.
func CheckName(name string) error {
	if KindForName(name) == KindUnsupported {
		return &UnsupportedFormatError{Ext: strings.ToLower(filepath.Ext(name))}
	}
	return nil
}

// OutputName returns name with its extension replaced by .pdf.
func OutputName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base)) + outputExt
}

// Converter dispatches files to the per-kind conversion routines.
type Converter struct {
	renderer     *render.Renderer
	geometry     types.PageGeometry
	lineHeight   float64
	maxDimension int
}

// New creates a converter for the given page layout. It fails when the
// page cannot hold a single line of the registry's font.
func New(r *render.Renderer, layoutCfg types.LayoutConfig, imageCfg types.ImageConfig) (*Converter, error) {
	g := layoutCfg.Geometry()
	lh := r.Fonts().LineHeight()
	if _, err := layout.LinesPerPage(g, lh); err != nil {
		return nil, err
	}
	return &Converter{
		renderer:     r,
		geometry:     g,
		lineHeight:   lh,
		maxDimension: imageCfg.MaxDimension,
	}, nil
}

// Convert converts the file at srcPath and writes the PDF to outPath. The
// returned Output carries the kind and page count; its names are the base
// names of srcPath and outPath.
func (c *Converter) Convert(srcPath, outPath string) (types.Output, error) {
	out := types.Output{
		SourceName: filepath.Base(srcPath),
		OutputName: filepath.Base(outPath),
		Path:       outPath,
	}

	kind := KindForName(srcPath)
	out.Kind = kind.String()

	var (
		pages int
		err   error
	)
	switch kind {
	case KindImage:
		pages, err = c.convertImage(srcPath, outPath)
	case KindText:
		pages, err = c.convertText(srcPath, outPath)
	case KindDocument:
		pages, err = c.convertDocument(srcPath, outPath)
	case KindPassthrough:
		pages, err = c.passthrough(srcPath, outPath)
	default:
		return out, CheckName(srcPath)
	}
	if err != nil {
		return out, fmt.Errorf("converting %s: %w", out.SourceName, err)
	}
	out.Pages = pages
	return out, nil
}

// renderLines lays out lines on the configured page and writes the PDF.
func (c *Converter) renderLines(lines []string, outPath string) (int, error) {
	placements, err := layout.Layout(lines, c.geometry, c.lineHeight)
	if err != nil {
		return 0, err
	}
	doc := types.ConvertedDocument{Geometry: c.geometry, Placements: placements}
	if err := c.renderer.Render(doc.Placements, doc.Geometry, outPath); err != nil {
		return 0, err
	}
	return layout.PageCount(doc.Placements), nil
}
