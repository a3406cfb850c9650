package vectorstore

import (
	"fmt"

	"docqa/internal/domain"
	"docqa/internal/vectorstore/flat"
)

// NewBuilder returns the index builder named by typ.
func NewBuilder(typ string) (domain.IndexBuilder, error) {
	switch typ {
	case "flat", "":
		return flat.Builder, nil
	default:
		return nil, fmt.Errorf("unknown index type: %s", typ)
	}
}
