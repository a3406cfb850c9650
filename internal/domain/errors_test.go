package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsupportedFormatError_Unwrap(t *testing.T) {
	err := fmt.Errorf("extract report.csv: %w", &UnsupportedFormatError{Ext: "csv"})

	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	var ufe *UnsupportedFormatError
	if assert.True(t, errors.As(err, &ufe)) {
		assert.Equal(t, "csv", ufe.Ext)
	}
	assert.Contains(t, err.Error(), `"csv"`)
}

func TestUnsupportedFormatError_NoExtension(t *testing.T) {
	err := &UnsupportedFormatError{}
	assert.Equal(t, "unsupported file type: no extension", err.Error())
}

func TestQAPair_Text(t *testing.T) {
	p := QAPair{Question: "What is the capital of France?", Answer: "Paris."}
	assert.Equal(t, "What is the capital of France?\nParis.", p.Text())
}
