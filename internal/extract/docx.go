package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"docqa/internal/domain"
)

const wordMLNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// DOCX returns the text of each body paragraph in order, joined with newlines.
// Paragraphs nested in tables or text boxes are not body paragraphs.
func DOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %v: %w", err, domain.ErrDecodeFailure)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx has no word/document.xml: %w", domain.ErrDecodeFailure)
	}
	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %v: %w", err, domain.ErrDecodeFailure)
	}
	defer rc.Close()

	paragraphs, err := bodyParagraphs(rc)
	if err != nil {
		return "", fmt.Errorf("parse document.xml: %v: %w", err, domain.ErrDecodeFailure)
	}
	return strings.Join(paragraphs, "\n"), nil
}

func bodyParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		stack      []xml.Name
		paragraphs []string
		current    strings.Builder
		inPara     bool
		paraDepth  int
	)
	// directly inside the body paragraph, ignoring nested paragraphs
	own := func() bool {
		if !inPara {
			return false
		}
		for _, n := range stack[paraDepth:] {
			if n.Space == wordMLNamespace && n.Local == "p" {
				return false
			}
		}
		return true
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == wordMLNamespace {
				switch t.Name.Local {
				case "p":
					if !inPara && len(stack) > 0 && stack[len(stack)-1].Space == wordMLNamespace && stack[len(stack)-1].Local == "body" {
						inPara = true
						paraDepth = len(stack) + 1
						current.Reset()
					}
				case "tab":
					if own() {
						current.WriteByte('\t')
					}
				case "br", "cr":
					if own() && !isPageBreak(t) {
						current.WriteByte('\n')
					}
				}
			}
			stack = append(stack, t.Name)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
			if inPara && len(stack) == paraDepth-1 {
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}
		case xml.CharData:
			if len(stack) > 0 && own() {
				top := stack[len(stack)-1]
				if top.Space == wordMLNamespace && top.Local == "t" {
					current.Write(t)
				}
			}
		}
	}
	return paragraphs, nil
}

func isPageBreak(el xml.StartElement) bool {
	for _, a := range el.Attr {
		if a.Name.Local == "type" && a.Value == "page" {
			return true
		}
	}
	return false
}
