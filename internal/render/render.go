// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes paginated PDF documents with gofpdf. Text documents
// come from layout placements drawn in one fixed font; images become a
// single page sized to the picture.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdiddy/file-compressor/internal/layout"
	"github.com/pdiddy/file-compressor/pkg/types"
)

const creator = "file-compressor"

// Renderer turns converted content into PDF files. It holds no per-call
// state and is safe for concurrent use.
type Renderer struct {
	fonts *Fonts
}

// New creates a renderer drawing text with the given font registry.
func New(fonts *Fonts) *Renderer {
	return &Renderer{fonts: fonts}
}

// Fonts returns the registry the renderer draws with.
func (r *Renderer) Fonts() *Fonts { return r.fonts }

// Render draws placements onto pages of geometry g and writes the document
// to outPath. Pages are opened in increasing index order from 0 through the
// last index present; an empty sequence still produces one blank page.
func (r *Renderer) Render(placements []types.Placement, g types.PageGeometry, outPath string) error {
	if err := layout.Validate(g); err != nil {
		return err
	}

	pdf := newDocument(g.Width, g.Height)
	tr := r.fonts.apply(pdf)

	pages := layout.PageCount(placements)
	next := 0
	for page := 0; page < pages; page++ {
		pdf.AddPage()
		for ; next < len(placements) && placements[next].PageIndex == page; next++ {
			p := placements[next]
			// gofpdf measures y from the top edge; placements use the PDF baseline origin.
			pdf.Text(p.X, g.Height-p.Y, tr(p.Text))
		}
	}
	if next != len(placements) {
		return fmt.Errorf("placements out of page order at index %d", next)
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// Image is a decoded picture ready for embedding.
type Image struct {
	// Name identifies the image inside the document.
	Name string
	// Type is the gofpdf image type: "PNG" or "JPG".
	Type string
	// Data holds the encoded image bytes.
	Data []byte
	// Width and Height are the pixel dimensions; one pixel maps to one point.
	Width, Height int
}

// RenderImage writes a single-page document sized to img with the picture
// drawn edge to edge.
func (r *Renderer) RenderImage(img Image, outPath string) error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("image %s has no area (%dx%d)", img.Name, img.Width, img.Height)
	}
	w, h := float64(img.Width), float64(img.Height)

	pdf := newDocument(w, h)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: img.Type}
	pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
	pdf.ImageOptions(img.Name, 0, 0, w, h, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// newDocument creates a point-unit document of the given page size with
// margins and automatic page breaks disabled. Portrait orientation keeps
// gofpdf from swapping width and height.
func newDocument(width, height float64) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(creator, false)
	return pdf
}
