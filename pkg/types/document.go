// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PageGeometry describes a fixed page size and a uniform margin, in points.
// Coordinates follow PDF convention: the origin is the bottom-left corner
// and y grows upward.
type PageGeometry struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Margin float64 `json:"margin" yaml:"margin"`
}

// ContentTop is the baseline y of the first line on a page.
func (g PageGeometry) ContentTop() float64 { return g.Height - g.Margin }

// ContentBottom is the lowest y a line may descend to.
func (g PageGeometry) ContentBottom() float64 { return g.Margin }

// Left is the x of every placed line.
func (g PageGeometry) Left() float64 { return g.Margin }

// ContentHeight is the vertical space available for lines.
func (g PageGeometry) ContentHeight() float64 { return g.ContentTop() - g.ContentBottom() }

// Placement is one line of text positioned on a page.
type Placement struct {
	PageIndex int     `json:"page_index" yaml:"page_index"`
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Text      string  `json:"text" yaml:"text"`
}

// ConvertedDocument is the layout result for one input file. It is consumed
// once by the renderer.
type ConvertedDocument struct {
	Geometry   PageGeometry
	Placements []Placement
}

// Output describes one converted file placed in an archive.
type Output struct {
	// SourceName is the uploaded file name.
	SourceName string `json:"source_name" yaml:"source_name"`

	// OutputName is the entry name inside the archive.
	OutputName string `json:"output_name" yaml:"output_name"`

	// Kind is the converter that produced the output (image, text, document, passthrough).
	Kind string `json:"kind" yaml:"kind"`

	// Pages is the page count of the output, or 0 when unknown.
	Pages int `json:"pages" yaml:"pages"`

	// Path is the output location inside the request workspace.
	Path string `json:"-" yaml:"-"`
}
