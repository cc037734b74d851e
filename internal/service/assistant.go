// Package service wires the document-QA pipeline: ingest documents into a
// vector index, then answer questions against it with a history-aware
// retrieval step, falling back to web search when the documents cannot
// support an answer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"legalease/internal/domain"
	"legalease/internal/extract"
	"legalease/internal/history"
	"legalease/internal/llm"
	"legalease/internal/logging"
	"legalease/internal/search"
	"legalease/internal/translate"
)

// docSeparator joins the extracted texts of one ingestion batch before
// chunking, so chunk boundaries respect document edges.
const docSeparator = "\n\n--- Document Separator ---\n\n"

// Document is one uploaded file, by name and raw bytes.
type Document struct {
	Name    string
	Content []byte
}

// Answer is the outcome of one Ask call, ready for display.
type Answer struct {
	Text     string
	Sources  []string
	FromWeb  bool
	NoAnswer bool
	Warnings []string
}

// Assistant orchestrates the full pipeline. One instance serves the whole
// process; the index it holds is replaced wholesale on each ingestion.
type Assistant struct {
	chunker    domain.Chunker
	embedder   domain.Embedder
	store      domain.VectorStore
	completer  llm.Completer
	searcher   search.Searcher
	translator translate.Translator
	summarizer domain.Summarizer
	histories  *history.Store
	log        *slog.Logger

	topK             int
	minAnswerLen     int
	resultCount      int
	summarySentences int

	mu      sync.RWMutex
	batch   *domain.IngestionBatch
	indexed bool
}

// Options bundles the collaborators and tuning knobs for NewAssistant.
type Options struct {
	Chunker          domain.Chunker
	Embedder         domain.Embedder
	Store            domain.VectorStore
	Completer        llm.Completer
	Searcher         search.Searcher
	Translator       translate.Translator
	Summarizer       domain.Summarizer
	Histories        *history.Store
	Logger           *slog.Logger
	TopK             int
	MinAnswerLen     int
	ResultCount      int
	SummarySentences int
}

func NewAssistant(opts Options) *Assistant {
	if opts.TopK <= 0 {
		opts.TopK = 4
	}
	if opts.MinAnswerLen <= 0 {
		opts.MinAnswerLen = 30
	}
	if opts.ResultCount <= 0 {
		opts.ResultCount = 3
	}
	if opts.SummarySentences <= 0 {
		opts.SummarySentences = 5
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Assistant{
		chunker:          opts.Chunker,
		embedder:         opts.Embedder,
		store:            opts.Store,
		completer:        opts.Completer,
		searcher:         opts.Searcher,
		translator:       opts.Translator,
		summarizer:       opts.Summarizer,
		histories:        opts.Histories,
		log:              opts.Logger,
		topK:             opts.TopK,
		minAnswerLen:     opts.MinAnswerLen,
		resultCount:      opts.ResultCount,
		summarySentences: opts.SummarySentences,
	}
}

// Ingest extracts, chunks, embeds, and indexes the given documents. The new
// batch fully replaces any previous index. Unreadable or unsupported files
// are skipped with a warning; Ingest fails only when nothing usable remains.
func (a *Assistant) Ingest(ctx context.Context, docs []Document) (*domain.IngestionBatch, []string, error) {
	var (
		texts    []string
		names    []string
		warnings []string
	)
	for _, doc := range docs {
		if !extract.Supported(doc.Name) {
			warnings = append(warnings, fmt.Sprintf("skipped %s: unsupported file type", doc.Name))
			a.log.Warn("skipping unsupported file", "file", doc.Name)
			continue
		}
		text, err := extract.Text(doc.Content, doc.Name)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped %s: %v", doc.Name, err))
			a.log.Warn("skipping unreadable file", "file", doc.Name, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			warnings = append(warnings, fmt.Sprintf("skipped %s: no extractable text", doc.Name))
			continue
		}
		texts = append(texts, text)
		names = append(names, doc.Name)
	}
	if len(texts) == 0 {
		return nil, warnings, fmt.Errorf("%w: no readable documents", domain.ErrEmptyInput)
	}

	joined := strings.Join(texts, docSeparator)
	label := strings.Join(names, ", ")

	chunks, err := a.chunker.Chunk(joined, label)
	if err != nil {
		return nil, warnings, fmt.Errorf("chunk documents: %w", err)
	}
	if len(chunks) == 0 {
		return nil, warnings, fmt.Errorf("%w: chunking produced nothing", domain.ErrEmptyIndex)
	}

	corpus := make([]string, len(chunks))
	for i, ch := range chunks {
		corpus[i] = ch.Text
	}
	if err := a.embedder.Prepare(corpus); err != nil {
		return nil, warnings, fmt.Errorf("prepare embedder: %w", err)
	}
	vectors := make([][]float64, len(chunks))
	for i, ch := range chunks {
		v, err := a.embedder.Embed(ch.Text)
		if err != nil {
			return nil, warnings, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		vectors[i] = v
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Clear(); err != nil {
		a.log.Warn("clearing previous index", "error", err)
	}
	if err := a.store.Init(a.embedder.Dimension()); err != nil {
		a.indexed = false
		return nil, warnings, fmt.Errorf("init vector store: %w", err)
	}
	if err := a.store.Upsert(chunks, vectors); err != nil {
		a.indexed = false
		return nil, warnings, fmt.Errorf("index chunks: %w", err)
	}

	batch := &domain.IngestionBatch{Chunks: chunks, DocNames: names}
	if a.summarizer != nil {
		summary, err := a.summarizer.Summarize(joined, a.summarySentences)
		if err != nil {
			a.log.Warn("summarizing corpus", "error", err)
		} else {
			batch.Summary = summary
		}
	}
	a.batch = batch
	a.indexed = true
	a.log.Info("documents indexed",
		"files", len(names), "chunks", len(chunks), "dimension", a.embedder.Dimension())
	return batch, warnings, nil
}

// Batch returns the currently indexed batch, or nil before any ingestion.
func (a *Assistant) Batch() *domain.IngestionBatch {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.batch
}

// Ask answers one question for the given user session. Every failure along
// the retrieval path degrades to the web fallback rather than surfacing an
// error; only the terminal no-answer message remains when that fails too.
// Both the question and the displayed answer are appended to the session
// history and persisted.
func (a *Assistant) Ask(ctx context.Context, user, session, question, targetLang string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, fmt.Errorf("%w: empty question", domain.ErrEmptyInput)
	}
	h := a.histories.GetOrCreate(user, session)

	query := a.reformulate(ctx, h.Messages, question)

	ans := a.answerFromDocuments(ctx, h.Messages, question, query)
	if ans == nil {
		ans = a.answerFromWeb(ctx, query)
	}

	// The terminal no-answer message is shown verbatim, untranslated.
	if !ans.NoAnswer {
		text := ans.Text
		if a.translator != nil && targetLang != "" {
			translated, err := a.translator.Translate(ctx, text, targetLang)
			if err != nil {
				a.log.Warn("translating answer", "lang", targetLang, "error", err)
				ans.Warnings = append(ans.Warnings, "translation unavailable, showing English")
			} else {
				text = translated
			}
		}
		ans.Text = Disclaimer + "\n\n" + text
	}

	h.Append(domain.RoleHuman, question)
	h.Append(domain.RoleAI, ans.Text)
	if err := a.histories.Persist(h); err != nil {
		a.log.Warn("persisting chat history", "user", user, "session", session, "error", err)
		ans.Warnings = append(ans.Warnings, "chat history could not be saved")
	}
	return *ans, nil
}

// reformulate turns a follow-up question into a standalone query for
// retrieval. With no prior turns the question passes through unchanged, and
// any model failure falls back to the original wording.
func (a *Assistant) reformulate(ctx context.Context, msgs []domain.Message, question string) string {
	if len(msgs) == 0 {
		return question
	}
	standalone, err := a.completer.Complete(ctx, contextualizePrompt, msgs, question)
	if err != nil || strings.TrimSpace(standalone) == "" {
		a.log.Warn("query reformulation failed, using original", "error", err)
		return question
	}
	return standalone
}

// answerFromDocuments runs retrieve-and-synthesize. It returns nil whenever
// the documents cannot support an answer, signalling the caller to fall
// back. Synthesis sees the original question; the reformulated query is
// used only to search the index.
func (a *Assistant) answerFromDocuments(ctx context.Context, msgs []domain.Message, question, query string) *Answer {
	a.mu.RLock()
	indexed := a.indexed
	a.mu.RUnlock()
	if !indexed {
		return nil
	}

	vec, err := a.embedder.Embed(query)
	if err != nil {
		a.log.Warn("embedding query", "error", err)
		return nil
	}
	a.mu.RLock()
	results, err := a.store.Search(vec, a.topK)
	a.mu.RUnlock()
	if err != nil || len(results) == 0 {
		if err != nil {
			a.log.Warn("similarity search", "error", err)
		}
		return nil
	}

	contextParts := make([]string, len(results))
	seen := make(map[string]struct{})
	var sources []string
	for i, r := range results {
		contextParts[i] = r.Chunk.Text
		if _, ok := seen[r.Chunk.SourceLabel]; !ok {
			seen[r.Chunk.SourceLabel] = struct{}{}
			sources = append(sources, r.Chunk.SourceLabel)
		}
	}

	prompt := fmt.Sprintf(synthesisPromptFmt, strings.Join(contextParts, "\n\n"))
	answer, err := a.completer.Complete(ctx, prompt, msgs, question)
	if err != nil {
		a.log.Warn("answer synthesis", "error", err)
		return nil
	}
	if ShouldFallback(answer, a.minAnswerLen) {
		a.log.Info("answer unsupported by documents, falling back")
		return nil
	}
	return &Answer{Text: answer, Sources: sources}
}

// answerFromWeb renders the top web result, or the terminal no-answer
// message when search yields nothing.
func (a *Assistant) answerFromWeb(ctx context.Context, query string) *Answer {
	if a.searcher != nil {
		results, err := a.searcher.Search(ctx, query, a.resultCount)
		if err == nil && len(results) > 0 {
			top := results[0]
			return &Answer{
				Text:    fmt.Sprintf(webAnswerFmt, top.Title, top.Snippet, top.URL),
				Sources: []string{top.URL},
				FromWeb: true,
			}
		}
		if err != nil {
			a.log.Warn("web search fallback", "error", err)
		}
	}
	return &Answer{Text: NoAnswerMessage, NoAnswer: true}
}
