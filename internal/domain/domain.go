package domain

// Chunk is a bounded-length contiguous segment of extracted document text.
// Every chunk in an ingestion batch carries the same aggregated source label.
type Chunk struct {
	Text        string
	SourceLabel string
	Index       int
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Role identifies who authored a chat message.
type Role string

const (
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)

// Message is a single turn in a chat session. Messages are append-only and
// ordered chronologically.
type Message struct {
	Role    Role   `json:"type"`
	Content string `json:"content"`
}

// IngestionBatch is the result of one "process documents" action. A new
// batch fully replaces the previous one.
type IngestionBatch struct {
	Chunks   []Chunk
	DocNames []string
	Summary  string
}

// WebResult is the top result returned by the web search collaborator.
type WebResult struct {
	Title   string
	Snippet string
	URL     string
}

// Embedder converts free text into a numeric vector representation.
// The same prepared embedder instance must produce both build-time and
// query-time vectors, or similarity scores are meaningless.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Chunker splits raw extracted text into overlapping chunks.
type Chunker interface {
	Chunk(rawText, sourceLabel string) ([]Chunk, error)
}

// VectorStore persists chunk vectors and supports similarity search.
// Results come back in descending score order, ties broken by insertion
// order.
type VectorStore interface {
	Init(dimension int) error
	Upsert(chunks []Chunk, vectors [][]float64) error
	Search(vector []float64, topK int) ([]SearchResult, error)
	Clear() error
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
