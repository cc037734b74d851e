package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"legalease/internal/domain"
)

func TestInitRejectsBadDimension(t *testing.T) {
	s := New()
	require.Error(t, s.Init(0))
	require.Error(t, s.Init(-3))
	require.NoError(t, s.Init(3))
}

func TestUpsertDimensionMismatch(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(3))
	err := s.Upsert(
		[]domain.Chunk{{Text: "a"}},
		[][]float64{{1, 0}},
	)
	require.Error(t, err)

	err = s.Upsert([]domain.Chunk{{Text: "a"}, {Text: "b"}}, [][]float64{{1, 0, 0}})
	require.Error(t, err)
}

func TestSearchOrdersByScore(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(2))
	chunks := []domain.Chunk{
		{Text: "east", Index: 0},
		{Text: "north", Index: 1},
		{Text: "diagonal", Index: 2},
	}
	vectors := [][]float64{
		{1, 0},
		{0, 1},
		{0.7071, 0.7071},
	}
	require.NoError(t, s.Upsert(chunks, vectors))

	results, err := s.Search([]float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "east", results[0].Chunk.Text)
	require.Equal(t, "diagonal", results[1].Chunk.Text)
	require.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchTieBreaksByInsertionOrder(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(2))
	chunks := []domain.Chunk{
		{Text: "first", Index: 0},
		{Text: "second", Index: 1},
	}
	vectors := [][]float64{{0, 1}, {0, 1}}
	require.NoError(t, s.Upsert(chunks, vectors))

	results, err := s.Search([]float64{0, 1}, 2)
	require.NoError(t, err)
	require.Equal(t, "first", results[0].Chunk.Text)
	require.Equal(t, "second", results[1].Chunk.Text)
}

func TestSearchTopKClamped(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(1))
	require.NoError(t, s.Upsert([]domain.Chunk{{Text: "only"}}, [][]float64{{1}}))

	results, err := s.Search([]float64{1}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Non-positive topK falls back to the default of four.
	results, err = s.Search([]float64{1}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestClearEmptiesIndex(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(1))
	require.NoError(t, s.Upsert([]domain.Chunk{{Text: "x"}}, [][]float64{{1}}))
	require.NoError(t, s.Clear())

	results, err := s.Search([]float64{1}, 4)
	require.NoError(t, err)
	require.Empty(t, results)
}
