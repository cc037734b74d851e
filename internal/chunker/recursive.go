package chunker

import (
	"strings"

	"legalease/internal/domain"
)

// defaultSeparators are tried in order: paragraph breaks first, then line
// breaks, sentence ends, word boundaries, and finally single runes.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveChunker splits text into chunks of roughly chunkSize runes with
// a fixed overlap between consecutive chunks, preferring to cut on
// paragraph and sentence boundaries over arbitrary offsets.
type RecursiveChunker struct {
	chunkSize  int
	overlap    int
	separators []string
}

func NewRecursiveChunker(chunkSize, overlap int) *RecursiveChunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &RecursiveChunker{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// Chunk splits rawText into ordered overlapping chunks, each tagged with
// sourceLabel. Empty or whitespace-only input yields domain.ErrEmptyInput.
func (c *RecursiveChunker) Chunk(rawText, sourceLabel string) ([]domain.Chunk, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, domain.ErrEmptyInput
	}
	pieces := c.splitText(rawText, c.separators)
	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, text := range pieces {
		chunks = append(chunks, domain.Chunk{
			Text:        text,
			SourceLabel: sourceLabel,
			Index:       i,
		})
	}
	return chunks, nil
}

// splitText recursively splits text on the first separator it contains,
// descending to finer separators for any fragment still longer than the
// chunk size, then merges fragments back into overlapping chunks.
func (c *RecursiveChunker) splitText(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var rest []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = separators[i+1:]
			break
		}
	}

	splits := splitKeepSeparator(text, sep)

	var final []string
	var pending []string
	for _, s := range splits {
		if runeLen(s) < c.chunkSize {
			pending = append(pending, s)
			continue
		}
		if len(pending) > 0 {
			final = append(final, c.merge(pending)...)
			pending = nil
		}
		if len(rest) == 0 {
			final = append(final, s)
		} else {
			final = append(final, c.splitText(s, rest)...)
		}
	}
	if len(pending) > 0 {
		final = append(final, c.merge(pending)...)
	}
	return final
}

// merge greedily joins fragments into chunks up to chunkSize runes, then
// slides the window back so consecutive chunks share roughly overlap runes.
func (c *RecursiveChunker) merge(splits []string) []string {
	var out []string
	var window []string
	total := 0
	for _, s := range splits {
		l := runeLen(s)
		if total+l > c.chunkSize && len(window) > 0 {
			out = append(out, strings.Join(window, ""))
			for total > c.overlap || (total+l > c.chunkSize && total > 0) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, s)
		total += l
	}
	if len(window) > 0 {
		if joined := strings.Join(window, ""); strings.TrimSpace(joined) != "" {
			out = append(out, joined)
		}
	}
	return out
}

// splitKeepSeparator splits text on sep, keeping the separator attached to
// the preceding fragment so chunks concatenate back to the original text.
// The empty separator splits into single runes.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		out := make([]string, len(runes))
		for i, r := range runes {
			out[i] = string(r)
		}
		return out
	}
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 {
			p += sep
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
