package flat

import (
	"fmt"
	"sort"

	"docqa/internal/domain"
)

// Index is an exact brute-force nearest-neighbour index over squared
// Euclidean distance. It is immutable once built; position i is the i-th
// vector given to Build.
type Index struct {
	dimension int
	vectors   [][]float32
}

// Build copies vectors into a new index. All vectors must share one non-zero length.
func Build(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero-length vector: %w", domain.ErrVectorDimMismatch)
	}
	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has %d dimensions, want %d: %w", i, len(v), dim, domain.ErrVectorDimMismatch)
		}
		stored[i] = append([]float32(nil), v...)
	}
	return &Index{dimension: dim, vectors: stored}, nil
}

// Builder adapts Build to domain.IndexBuilder.
func Builder(vectors [][]float32) (domain.Index, error) {
	idx, err := Build(vectors)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Len returns the number of stored vectors.
func (x *Index) Len() int { return len(x.vectors) }

// Dimension returns the vector length.
func (x *Index) Dimension() int { return x.dimension }

// Search returns the k nearest vectors by ascending squared L2 distance.
// Equal distances keep insertion order, so the lowest position wins ties.
// k is clamped to [1, Len()].
func (x *Index) Search(query []float32, k int) ([]domain.Hit, error) {
	if len(query) != x.dimension {
		return nil, fmt.Errorf("query has %d dimensions, want %d: %w", len(query), x.dimension, domain.ErrVectorDimMismatch)
	}
	k = max(1, min(k, len(x.vectors)))

	if k == 1 {
		best := domain.Hit{Position: 0, Distance: squaredL2(x.vectors[0], query)}
		for i := 1; i < len(x.vectors); i++ {
			if d := squaredL2(x.vectors[i], query); d < best.Distance {
				best = domain.Hit{Position: i, Distance: d}
			}
		}
		return []domain.Hit{best}, nil
	}

	hits := make([]domain.Hit, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = domain.Hit{Position: i, Distance: squaredL2(v, query)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits[:k], nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
