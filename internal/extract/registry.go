// Package extract turns uploaded files into plain text, one format per extension.
package extract

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"docqa/internal/domain"
)

// FormatFunc extracts plain text from the raw bytes of one file format.
type FormatFunc func(data []byte) (string, error)

// Registry dispatches extraction by lowercased file extension.
type Registry struct {
	formats map[string]FormatFunc
}

// NewRegistry returns a registry with pdf, docx, txt, xls and xlsx registered.
func NewRegistry() *Registry {
	return &Registry{
		formats: map[string]FormatFunc{
			"pdf":  PDF,
			"docx": DOCX,
			"txt":  Text,
			"xls":  XLS,
			"xlsx": XLSX,
		},
	}
}

// Register adds or replaces the extractor for ext.
func (r *Registry) Register(ext string, fn FormatFunc) {
	r.formats[normalizeExt(ext)] = fn
}

// Extract returns the text of the named file. Unknown extensions yield an
// *domain.UnsupportedFormatError and empty text.
func (r *Registry) Extract(name string, data []byte) (string, error) {
	ext := Ext(name)
	fn, ok := r.formats[ext]
	if !ok {
		return "", &domain.UnsupportedFormatError{Ext: ext}
	}
	text, err := fn(data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(name), err)
	}
	return text, nil
}

// Supports reports whether name has a recognised extension.
func (r *Registry) Supports(name string) bool {
	_, ok := r.formats[Ext(name)]
	return ok
}

// Supported returns the recognised extensions, sorted.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.formats))
	for ext := range r.formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Ext returns the lowercased extension of name without the leading dot.
func Ext(name string) string {
	return normalizeExt(filepath.Ext(name))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
