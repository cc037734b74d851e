package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"legalease/internal/domain"
)

func TestChunkEmptyInput(t *testing.T) {
	c := NewRecursiveChunker(100, 20)
	_, err := c.Chunk("", "a.txt")
	require.ErrorIs(t, err, domain.ErrEmptyInput)
	_, err = c.Chunk("   \n\t ", "a.txt")
	require.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	c := NewRecursiveChunker(1000, 200)
	text := "First paragraph.\n\nSecond paragraph."
	chunks, err := c.Chunk(text, "a.txt, b.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, text, chunks[0].Text)
	require.Equal(t, "a.txt, b.txt", chunks[0].SourceLabel)
	require.Equal(t, 0, chunks[0].Index)
}

func TestChunkOverlapOnUnbreakableText(t *testing.T) {
	// No separators at all forces the rune-level split, which makes the
	// window arithmetic exact: stride chunkSize-overlap, width chunkSize.
	c := NewRecursiveChunker(10, 2)
	text := "abcdefghijklmnopqrstuvwxyz"
	chunks, err := c.Chunk(text, "alpha")
	require.NoError(t, err)
	require.Equal(t, []string{"abcdefghij", "ijklmnopqr", "qrstuvwxyz"}, texts(chunks))

	// Consecutive chunks share exactly the overlap.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		cur := []rune(chunks[i].Text)
		require.Equal(t, string(prev[len(prev)-2:]), string(cur[:2]))
	}

	// Dropping each chunk's leading overlap reconstructs the input.
	rebuilt := chunks[0].Text
	for _, ch := range chunks[1:] {
		rebuilt += string([]rune(ch.Text)[2:])
	}
	require.Equal(t, text, rebuilt)
}

func TestChunkPrefersParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("lorem ipsum dolor sit amet ", 8) // ~216 runes
	text := para + "\n\n" + para + "\n\n" + para
	c := NewRecursiveChunker(250, 50)
	chunks, err := c.Chunk(text, "doc")
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, ch := range chunks {
		require.LessOrEqual(t, len([]rune(ch.Text)), 250)
		require.NotEmpty(t, strings.TrimSpace(ch.Text))
	}
	// Indexes are sequential from zero.
	for i, ch := range chunks {
		require.Equal(t, i, ch.Index)
	}
}

func TestChunkSentenceFallbackKeepsSeparators(t *testing.T) {
	text := "One sentence here. Another sentence there. A third one closes."
	c := NewRecursiveChunker(25, 0)
	chunks, err := c.Chunk(text, "doc")
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	require.Equal(t, text, strings.Join(texts(chunks), ""))
}

func TestNewRecursiveChunkerClampsBadParams(t *testing.T) {
	c := NewRecursiveChunker(-5, 10)
	require.Equal(t, 1000, c.chunkSize)
	c = NewRecursiveChunker(10, 10)
	require.Equal(t, 0, c.overlap)
}

func texts(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
