// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout places lines of text onto fixed-size pages. It is a single
// forward pass: each line goes below the previous one until the page runs
// out of vertical space, then a new page starts at the top. There is no
// word wrapping; a line wider than the content area overflows to the right.
package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/file-compressor/pkg/types"
)

// fitEpsilon absorbs float rounding when a page is meant to hold an exact
// number of lines (e.g. 697.89 / 14.4).
const fitEpsilon = 1e-9

var (
	// ErrInvalidGeometry reports a page with no usable content area.
	ErrInvalidGeometry = errors.New("invalid page geometry")

	// ErrInvalidLineHeight reports a non-positive or non-finite line height,
	// or one taller than the content area.
	ErrInvalidLineHeight = errors.New("invalid line height")
)

// Validate checks that g has a positive size and that the margin leaves a
// content area on both axes.
func Validate(g types.PageGeometry) error {
	if !(g.Width > 0) || !(g.Height > 0) || math.IsInf(g.Width, 0) || math.IsInf(g.Height, 0) {
		return fmt.Errorf("%w: page size %.2fx%.2f", ErrInvalidGeometry, g.Width, g.Height)
	}
	if g.Margin < 0 || g.Margin >= math.Min(g.Width, g.Height)/2 {
		return fmt.Errorf("%w: margin %.2f on %.2fx%.2f page", ErrInvalidGeometry, g.Margin, g.Width, g.Height)
	}
	return nil
}

// LinesPerPage returns how many lines of lineHeight fit between the content
// top and bottom of g.
func LinesPerPage(g types.PageGeometry, lineHeight float64) (int, error) {
	if err := Validate(g); err != nil {
		return 0, err
	}
	if !(lineHeight > 0) || math.IsInf(lineHeight, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidLineHeight, lineHeight)
	}
	n := int(math.Floor(g.ContentHeight()/lineHeight + fitEpsilon))
	if n < 1 {
		return 0, fmt.Errorf("%w: %.2f exceeds content height %.2f", ErrInvalidLineHeight, lineHeight, g.ContentHeight())
	}
	return n, nil
}

// Layout assigns every line a page and a baseline position. A page break
// happens before a line whose descent would cross the content bottom.
// The result is ordered by page ascending, then y descending. Zero lines
// yield zero placements; PageCount still reports one page for them.
func Layout(lines []string, g types.PageGeometry, lineHeight float64) ([]types.Placement, error) {
	perPage, err := LinesPerPage(g, lineHeight)
	if err != nil {
		return nil, err
	}

	placements := make([]types.Placement, 0, len(lines))
	page, slot := 0, 0
	for _, line := range lines {
		if slot == perPage {
			page++
			slot = 0
		}
		placements = append(placements, types.Placement{
			PageIndex: page,
			X:         g.Left(),
			Y:         g.ContentTop() - float64(slot)*lineHeight,
			Text:      line,
		})
		slot++
	}
	return placements, nil
}

// PageCount returns the number of pages a placement sequence occupies.
// An empty sequence still renders as one blank page.
func PageCount(placements []types.Placement) int {
	if len(placements) == 0 {
		return 1
	}
	return placements[len(placements)-1].PageIndex + 1
}

// SplitLines breaks text on line terminators (\n, \r\n, \r, \v, \f). A
// trailing terminator does not produce a trailing empty line, and empty
// text produces no lines at all.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			fallthrough
		case '\n', '\v', '\f':
			lines = append(lines, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	if b.Len() > 0 {
		lines = append(lines, b.String())
	}
	return lines
}
