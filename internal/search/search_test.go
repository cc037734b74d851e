package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"legalease/internal/domain"
)

func TestSearchAbstractRanksFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "notice period", r.URL.Query().Get("q"))
		require.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`{
			"Heading": "Notice period",
			"AbstractText": "A notice period is the time between resignation and departure.",
			"AbstractURL": "https://example.org/notice",
			"RelatedTopics": [
				{"Text": "Employment law", "FirstURL": "https://example.org/law"},
				{"Text": "Leases", "FirstURL": "https://example.org/leases"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	results, err := c.Search(context.Background(), "notice period", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "Notice period", results[0].Title)
	require.Equal(t, "https://example.org/notice", results[0].URL)
	require.Equal(t, "Employment law", results[1].Snippet)
}

func TestSearchRelatedTopicsOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Heading": "",
			"AbstractText": "",
			"RelatedTopics": [
				{"Text": "Only topic", "FirstURL": "https://example.org/only"},
				{"Text": "", "FirstURL": "https://example.org/skipped"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	results, err := c.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Web Search Results", results[0].Title)
	require.Equal(t, "https://example.org/only", results[0].URL)
}

func TestSearchEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"AbstractText": "", "RelatedTopics": []}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Search(context.Background(), "nothing", 3)
	require.ErrorIs(t, err, domain.ErrSearchUnavailable)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Search(context.Background(), "anything", 3)
	require.ErrorIs(t, err, domain.ErrSearchUnavailable)
}

func TestSearchUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Search(context.Background(), "anything", 3)
	require.ErrorIs(t, err, domain.ErrSearchUnavailable)
}

func TestSearchHonorsCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"AbstractText": "abstract",
			"AbstractURL": "https://example.org/a",
			"RelatedTopics": [
				{"Text": "t1", "FirstURL": "https://example.org/1"},
				{"Text": "t2", "FirstURL": "https://example.org/2"},
				{"Text": "t3", "FirstURL": "https://example.org/3"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	results, err := c.Search(context.Background(), "anything", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
}
