package extract

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	"docqa/internal/domain"
)

// PDF returns the text of every page in order. Pages without text are
// skipped; the rest are joined with newlines.
func PDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf: %v: %w", r, domain.ErrDecodeFailure)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %v: %w", err, domain.ErrDecodeFailure)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pt := pageText(p.Content().Text)
		if pt == "" {
			continue
		}
		pages = append(pages, pt)
	}
	return strings.Join(pages, "\n"), nil
}

// pageText lays out glyphs in content-stream order and starts a new line
// whenever the baseline moves by more than half the glyph height.
func pageText(glyphs []pdf.Text) string {
	var b strings.Builder
	var lastY float64
	started := false
	for _, g := range glyphs {
		// TJ arrays are terminated with a synthetic newline glyph.
		if g.S == "\n" {
			continue
		}
		if started && math.Abs(g.Y-lastY) > math.Max(g.FontSize, 1)/2 {
			b.WriteByte('\n')
		}
		b.WriteString(g.S)
		lastY, started = g.Y, true
	}
	return b.String()
}
