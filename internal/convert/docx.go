// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/pdiddy/file-compressor/internal/layout"
)

// documentPart is the main body part of a WordprocessingML package.
const documentPart = "word/document.xml"

// ErrNotWordDocument reports a .docx without a main document part.
var ErrNotWordDocument = errors.New("not a Word document")

// convertDocument lays out the paragraphs of a .docx file. Paragraph
// boundaries do not start new pages; empty paragraphs add no lines.
func (c *Converter) convertDocument(srcPath, outPath string) (int, error) {
	paragraphs, err := readDocxParagraphs(srcPath)
	if err != nil {
		return 0, err
	}
	var lines []string
	for _, p := range paragraphs {
		lines = append(lines, layout.SplitLines(p)...)
	}
	return c.renderLines(lines, outPath)
}

// readDocxParagraphs returns the text of every body-level paragraph in
// document order. Paragraphs inside tables, text boxes, headers, and
// footers are not part of the body flow and are left out.
func readDocxParagraphs(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrNotWordDocument, documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", documentPart, err)
	}
	defer rc.Close()

	paragraphs, err := parseBody(xml.NewDecoder(rc))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", documentPart, err)
	}
	return paragraphs, nil
}

// parseBody walks w:document/w:body and collects its direct w:p children.
func parseBody(d *xml.Decoder) ([]string, error) {
	var paragraphs []string
	inBody := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return paragraphs, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case !inBody && t.Name.Local == "body":
				inBody = true
			case inBody && t.Name.Local == "p":
				text, err := parseParagraph(d)
				if err != nil {
					return nil, err
				}
				paragraphs = append(paragraphs, text)
			case inBody:
				// Tables, section properties, content controls.
				if err := d.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if inBody && t.Name.Local == "body" {
				return paragraphs, nil
			}
		}
	}
}

// paragraphContainers hold runs without adding text of their own.
var paragraphContainers = map[string]bool{
	"hyperlink": true,
	"ins":       true,
	"smartTag":  true,
	"fldSimple": true,
}

// parseParagraph consumes tokens up to the end of the current w:p and
// returns its text. Runs are read in order so breaks and tabs stay where
// the author put them.
func parseParagraph(d *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "r":
				if err := parseRun(d, &b); err != nil {
					return "", err
				}
			case paragraphContainers[t.Name.Local]:
				depth++
			default:
				if err := d.Skip(); err != nil {
					return "", err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
	}
}

// parseRun consumes a w:r element, appending its visible text to b.
func parseRun(d *xml.Decoder, b *strings.Builder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				b.WriteString(s)
				continue
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			case "noBreakHyphen":
				b.WriteByte('-')
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}
