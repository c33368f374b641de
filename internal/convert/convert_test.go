// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/file-compressor/internal/render"
	"github.com/pdiddy/file-compressor/pkg/types"
)

func newConverter(t *testing.T) *Converter {
	t.Helper()
	cfg := types.DefaultConfig()
	fonts, err := render.LoadFonts(cfg.Layout)
	require.NoError(t, err)
	c, err := New(render.New(fonts), cfg.Layout, cfg.Image)
	require.NoError(t, err)
	return c
}

// countPages counts page objects in a gofpdf document.
func countPages(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "missing PDF header")
	return bytes.Count(data, []byte("/Type /Page\n"))
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func testImage(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: alpha})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// docxBytes builds a minimal WordprocessingML package around body XML.
func docxBytes(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `<w:sectPr/></w:body></w:document>`,
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func TestKindForExt(t *testing.T) {
	tests := []struct {
		ext  string
		want Kind
	}{
		{".png", KindImage},
		{".PNG", KindImage},
		{".jpg", KindImage},
		{".jpeg", KindImage},
		{".txt", KindText},
		{".docx", KindDocument},
		{".pdf", KindPassthrough},
		{".exe", KindUnsupported},
		{".doc", KindUnsupported},
		{"", KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, KindForExt(tt.ext))
		})
	}
	for _, ext := range SupportedExtensions() {
		assert.NotEqual(t, KindUnsupported, KindForExt(ext), ext)
	}
}

func TestCheckName(t *testing.T) {
	assert.NoError(t, CheckName("notes.TXT"))

	err := CheckName("setup.EXE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	var ufe *UnsupportedFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, ".exe", ufe.Ext)
	assert.Equal(t, "unsupported file format: .exe", err.Error())

	err = CheckName("Makefile")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "no extension")
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "a.pdf", OutputName("a.txt"))
	assert.Equal(t, "photo.final.pdf", OutputName("photo.final.jpeg"))
	assert.Equal(t, "report.pdf", OutputName("dir/report.docx"))
	assert.Equal(t, "README.pdf", OutputName("README"))
}

func TestNew_RejectsPageWithoutRoom(t *testing.T) {
	cfg := types.DefaultConfig()
	fonts, err := render.LoadFonts(cfg.Layout)
	require.NoError(t, err)

	cfg.Layout.PageHeight = 150
	_, err = New(render.New(fonts), cfg.Layout, cfg.Image)
	assert.Error(t, err)
}

func TestConvert_Text(t *testing.T) {
	c := newConverter(t)
	dir := t.TempDir()

	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}

	tests := []struct {
		name      string
		content   []byte
		wantPages int
	}{
		{"hello world", []byte("Hello\nWorld"), 1},
		{"empty file", nil, 1},
		{"hundred lines", []byte(strings.Join(lines, "\n")), 3},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("Olá\n")...), 1},
		{"utf16 bom", []byte{0xFF, 0xFE, 'H', 0, 'i', 0}, 1},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeFile(t, dir, fmt.Sprintf("in%d.txt", i), tt.content)
			dst := filepath.Join(dir, fmt.Sprintf("in%d.pdf", i))

			out, err := c.Convert(src, dst)
			require.NoError(t, err)
			assert.Equal(t, "text", out.Kind)
			assert.Equal(t, tt.wantPages, out.Pages)
			assert.Equal(t, tt.wantPages, countPages(t, dst))
			assert.Equal(t, filepath.Base(src), out.SourceName)
			assert.Equal(t, filepath.Base(dst), out.OutputName)
		})
	}
}

func TestReadText_BOM(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bom.txt", []byte{0xFF, 0xFE, 'H', 0, 'i', 0, '\n', 0})
	text, err := readText(path)
	require.NoError(t, err)
	assert.Equal(t, "Hi\n", text)

	path = writeFile(t, dir, "utf8.txt", append([]byte{0xEF, 0xBB, 0xBF}, []byte("ação")...))
	text, err = readText(path)
	require.NoError(t, err)
	assert.Equal(t, "ação", text)
}

func TestConvert_Image(t *testing.T) {
	c := newConverter(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"opaque png", "photo.png", pngBytes(t, testImage(30, 20, 255))},
		{"transparent png", "logo.png", pngBytes(t, testImage(16, 16, 100))},
		{"gray png", "gray.png", pngBytes(t, image.NewGray16(image.Rect(0, 0, 8, 8)))},
		{"jpeg", "photo.jpg", jpegBytes(t, testImage(25, 40, 255))},
		{"jpeg upper ext", "shot.JPEG", jpegBytes(t, testImage(10, 10, 255))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeFile(t, dir, tt.file, tt.data)
			dst := filepath.Join(dir, OutputName(tt.file))

			out, err := c.Convert(src, dst)
			require.NoError(t, err)
			assert.Equal(t, "image", out.Kind)
			assert.Equal(t, 1, out.Pages)
			assert.Equal(t, 1, countPages(t, dst))
		})
	}
}

func TestConvert_CorruptImage(t *testing.T) {
	c := newConverter(t)
	dir := t.TempDir()
	src := writeFile(t, dir, "broken.png", []byte("definitely not a png"))

	_, err := c.Convert(src, filepath.Join(dir, "broken.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.png")
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFlattenAndFit(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 15, 25))
	flat := flatten(src)
	assert.Equal(t, image.Rect(0, 0, 10, 20), flat.Bounds())
	// Fully transparent pixels become white.
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, flat.RGBAAt(3, 3))

	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"within limit", 100, 50, 200, 100, 50},
		{"disabled", 3000, 100, 0, 3000, 100},
		{"wide", 400, 100, 200, 200, 50},
		{"tall", 100, 400, 100, 25, 100},
		{"thin stays visible", 1000, 1, 100, 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fit(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.max)
			assert.Equal(t, tt.wantW, got.Bounds().Dx())
			assert.Equal(t, tt.wantH, got.Bounds().Dy())
		})
	}
}

func TestReadDocxParagraphs(t *testing.T) {
	body := para("Title") +
		`<w:p/>` +
		`<w:p><w:pPr><w:pStyle w:val="Normal"/></w:pPr>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>Hello</w:t></w:r>` +
		`<w:r><w:t xml:space="preserve"> wide</w:t><w:tab/><w:t>world</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>first</w:t><w:br/><w:t>second</w:t><w:cr/><w:t>third</w:t></w:r></w:p>` +
		`<w:p><w:hyperlink w:history="1"><w:r><w:t>linked</w:t></w:r></w:hyperlink><w:r><w:t> text</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:delText>gone</w:delText></w:r><w:ins><w:r><w:t>added</w:t></w:r></w:ins></w:p>`

	dir := t.TempDir()
	path := writeFile(t, dir, "doc.docx", docxBytes(t, body))

	got, err := readDocxParagraphs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Title",
		"",
		"Hello wide\tworld",
		"first\nsecond\nthird",
		"linked text",
		"added",
	}, got)
}

func TestConvert_Document(t *testing.T) {
	c := newConverter(t)
	dir := t.TempDir()

	var body strings.Builder
	for i := 0; i < 60; i++ {
		body.WriteString(para(fmt.Sprintf("paragraph %d", i)))
		body.WriteString(`<w:p/>`)
	}
	src := writeFile(t, dir, "long.docx", docxBytes(t, body.String()))
	dst := filepath.Join(dir, "long.pdf")

	out, err := c.Convert(src, dst)
	require.NoError(t, err)
	assert.Equal(t, "document", out.Kind)
	// Empty paragraphs add no lines: 60 lines at 48 per page.
	assert.Equal(t, 2, out.Pages)
	assert.Equal(t, 2, countPages(t, dst))
}

func TestConvert_DocumentErrors(t *testing.T) {
	c := newConverter(t)
	dir := t.TempDir()

	notZip := writeFile(t, dir, "plain.docx", []byte("just text"))
	_, err := c.Convert(notZip, filepath.Join(dir, "plain.pdf"))
	assert.Error(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	noBody := writeFile(t, dir, "empty.docx", buf.Bytes())
	_, err = c.Convert(noBody, filepath.Join(dir, "empty.pdf"))
	assert.ErrorIs(t, err, ErrNotWordDocument)
}

func TestConvert_Passthrough(t *testing.T) {
	c := newConverter(t)
	dir := t.TempDir()

	// Produce a two-page PDF to pass through.
	src := writeFile(t, dir, "notes.txt", []byte(strings.Repeat("x\n", 60)))
	generated := filepath.Join(dir, "generated.pdf")
	_, err := c.Convert(src, generated)
	require.NoError(t, err)

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	dst := filepath.Join(outDir, "generated.pdf")

	out, err := c.Convert(generated, dst)
	require.NoError(t, err)
	assert.Equal(t, "passthrough", out.Kind)
	assert.Equal(t, 2, out.Pages)

	want, err := os.ReadFile(generated)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConvert_PassthroughUnreadablePDF(t *testing.T) {
	c := newConverter(t)
	dir := t.TempDir()
	src := writeFile(t, dir, "odd.pdf", []byte("not really a pdf"))

	out, err := c.Convert(src, filepath.Join(dir, "copy.pdf"))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Pages)
}

func TestConvert_Unsupported(t *testing.T) {
	c := newConverter(t)
	dir := t.TempDir()
	src := writeFile(t, dir, "tool.exe", []byte("MZ"))

	_, err := c.Convert(src, filepath.Join(dir, "tool.pdf"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, statErr := os.Stat(filepath.Join(dir, "tool.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}
