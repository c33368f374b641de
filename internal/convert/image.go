// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/pdiddy/file-compressor/internal/render"
)

// convertImage decodes a PNG or JPEG, flattens it onto white, downscales it
// to the configured maximum, and embeds it losslessly as one PDF page.
func (c *Converter) convertImage(srcPath, outPath string) (int, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("decoding image: %w", err)
	}

	img := fit(flatten(src), c.maxDimension)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return 0, fmt.Errorf("encoding image: %w", err)
	}

	b := img.Bounds()
	name := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	err = c.renderer.RenderImage(render.Image{
		Name:   name,
		Type:   "PNG",
		Data:   buf.Bytes(),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, outPath)
	if err != nil {
		return 0, err
	}
	return 1, nil
}

// flatten composites src over an opaque white canvas so the result has no
// alpha channel, whatever the source color model.
func flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// fit scales img down so neither side exceeds maxDim, keeping the aspect
// ratio. A non-positive maxDim disables scaling.
func fit(img *image.RGBA, maxDim int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	scale := float64(maxDim) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	nw, nh = min(nw, maxDim), min(nh, maxDim)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
