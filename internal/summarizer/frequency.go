// Package summarizer produces the brief corpus overview shown after an
// ingestion batch is processed.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// FrequencySummarizer ranks sentences by normalized token frequency
// (stopwords filtered) and returns the top sentences in original order.
type FrequencySummarizer struct {
	tokenRe    *regexp.Regexp
	sentenceRe *regexp.Regexp
	stopwords  map[string]struct{}
}

func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		tokenRe:    regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentenceRe: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:  stopwordSet(),
	}
}

// Summarize returns at most maxSentences of the highest-scoring sentences.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := s.sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		total := 0.0
		for _, tok := range toks {
			if v, ok := freq[tok]; ok {
				total += v
			}
		}
		// Length normalization keeps long sentences from dominating.
		if l := float64(len(toks)); l > 0 {
			total /= math.Sqrt(l)
		}
		scores[i] = scored{i, total}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func (s *FrequencySummarizer) tokens(text string) []string {
	return s.tokenRe.FindAllString(strings.ToLower(text), -1)
}

func stopwordSet() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again",
		"further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out",
		"off", "own", "same", "too", "very", "can", "will", "just",
		"don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
