// Package extract pulls plain text out of uploaded document bytes.
// Extraction is dispatched on the lowercased file extension; an unsupported
// extension is a warning for the caller, not a batch-fatal error.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"legalease/internal/domain"
)

type extractorFunc func(content []byte) (string, error)

var extractors = map[string]extractorFunc{
	"pdf":  fromPDF,
	"doc":  fromDOCX,
	"docx": fromDOCX,
	"pptx": fromPPTX,
	"xls":  fromXLSX,
	"xlsx": fromXLSX,
	"csv":  fromCSV,
	"html": fromHTML,
	"txt":  fromText,
	"py":   fromText,
	"md":   fromText,
}

// Text extracts plain text from the given file content. The extension of
// fileName selects the extractor. Unsupported extensions return
// domain.ErrUnsupportedFile with empty text.
func Text(content []byte, fileName string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	fn, ok := extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: .%s", domain.ErrUnsupportedFile, ext)
	}
	text, err := fn(content)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", fileName, err)
	}
	return sanitize(text), nil
}

// Supported reports whether files with the given name would be dispatched
// to an extractor.
func Supported(fileName string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	_, ok := extractors[ext]
	return ok
}

func fromText(content []byte) (string, error) {
	return string(content), nil
}

// sanitize drops NUL bytes and normalizes line endings; extracted text is
// otherwise left as-is so chunk boundaries stay faithful to the source.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}
