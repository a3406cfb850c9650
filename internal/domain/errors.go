package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat signals a file extension outside the recognised set.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrDecodeFailure signals file content that could not be decoded.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrNoPairsFound signals text without any numbered question/answer pair.
	ErrNoPairsFound = errors.New("no Q&A pairs found")
	// ErrNoDocumentLoaded signals a query issued before a successful upload.
	ErrNoDocumentLoaded = errors.New("no document loaded")
	// ErrEmptyCorpus signals an index build over zero vectors.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrVectorDimMismatch signals vectors of different lengths.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// UnsupportedFormatError wraps ErrUnsupportedFormat with the offending extension.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("%s: no extension", ErrUnsupportedFormat.Error())
	}
	return fmt.Sprintf("%s: %q", ErrUnsupportedFormat.Error(), e.Ext)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }
