package extract

import (
	"fmt"
	"unicode/utf8"

	"docqa/internal/domain"
)

// Text decodes data as UTF-8. Invalid byte sequences are a decode failure.
func Text(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text is not valid UTF-8: %w", domain.ErrDecodeFailure)
	}
	return string(data), nil
}
