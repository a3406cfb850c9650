package flat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func TestBuild_Validation(t *testing.T) {
	_, err := Build(nil)
	assert.True(t, errors.Is(err, domain.ErrEmptyCorpus))

	_, err = Build([][]float32{{1, 2}, {1}})
	assert.True(t, errors.Is(err, domain.ErrVectorDimMismatch))

	_, err = Build([][]float32{{}})
	assert.True(t, errors.Is(err, domain.ErrVectorDimMismatch))
}

func TestSearch_Nearest(t *testing.T) {
	idx, err := Build([][]float32{{0, 0}, {5, 5}, {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 2, idx.Dimension())

	hits, err := idx.Search([]float32{0.9, 1.2}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 2, hits[0].Position)
	assert.InDelta(t, 0.05, hits[0].Distance, 1e-6)
}

func TestSearch_TieBreakLowestPosition(t *testing.T) {
	idx, err := Build([][]float32{{1, 0}, {-1, 0}})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		hits, err := idx.Search([]float32{0, 0}, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, hits[0].Position)
	}

	hits, err := idx.Search([]float32{0, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, []int{hits[0].Position, hits[1].Position})
}

func TestSearch_DuplicateVectors(t *testing.T) {
	idx, err := Build([][]float32{{3, 3}, {1, 1}, {1, 1}})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{1, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, hits[0].Position)
	assert.Zero(t, hits[0].Distance)
}

func TestSearch_ClampsK(t *testing.T) {
	idx, err := Build([][]float32{{0}, {2}, {1}})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{0}, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.Hit{{Position: 0, Distance: 0}, {Position: 2, Distance: 1}, {Position: 1, Distance: 4}}, hits)

	hits, err = idx.Search([]float32{0}, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	idx, err := Build([][]float32{{0, 1}})
	require.NoError(t, err)

	_, err = idx.Search([]float32{1}, 1)
	assert.True(t, errors.Is(err, domain.ErrVectorDimMismatch))
}

func TestBuild_CopiesInput(t *testing.T) {
	in := [][]float32{{1, 1}}
	idx, err := Build(in)
	require.NoError(t, err)
	in[0][0] = 100

	hits, err := idx.Search([]float32{1, 1}, 1)
	require.NoError(t, err)
	assert.Zero(t, hits[0].Distance)
}
