package domain

import "errors"

var (
	// ErrEmptyInput is reported when chunking receives empty or
	// whitespace-only text.
	ErrEmptyInput = errors.New("no readable content to chunk")

	// ErrEmptyIndex is reported when an ingestion batch produced zero
	// chunks; no index is built in that case.
	ErrEmptyIndex = errors.New("no chunks to index")

	// ErrModelInit means the chat model could not be initialized, usually
	// because of a missing or invalid API key. Fatal for the chat flow.
	ErrModelInit = errors.New("chat model not initialized")

	// ErrSearchUnavailable means the web search provider failed or
	// returned nothing. The pipeline degrades to a terminal no-answer
	// message, never to a further fallback.
	ErrSearchUnavailable = errors.New("web search unavailable")

	// ErrUnsupportedFile marks a file extension with no registered
	// extractor. Surfaced as a warning; the ingestion batch continues.
	ErrUnsupportedFile = errors.New("unsupported file type")
)
