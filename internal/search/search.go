// Package search provides the web-search fallback collaborator backed by
// the DuckDuckGo instant-answer API.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"legalease/internal/domain"
)

// Searcher is the fallback search surface the pipeline depends on. Tests
// substitute a scripted implementation.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]domain.WebResult, error)
}

// Client queries the instant-answer endpoint. No API key is required.
type Client struct {
	baseURL string
	client  *http.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.duckduckgo.com"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}
}

// Search returns up to count results for the query, best first. The
// abstract answer (when present) ranks above related topics. A provider
// failure or an empty result set is reported as domain.ErrSearchUnavailable.
func (c *Client) Search(ctx context.Context, query string, count int) ([]domain.WebResult, error) {
	if count <= 0 {
		count = 3
	}
	u := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", domain.ErrSearchUnavailable, resp.Status)
	}

	var out struct {
		Heading       string `json:"Heading"`
		AbstractText  string `json:"AbstractText"`
		AbstractURL   string `json:"AbstractURL"`
		RelatedTopics []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrSearchUnavailable, err)
	}

	var results []domain.WebResult
	if strings.TrimSpace(out.AbstractText) != "" {
		results = append(results, domain.WebResult{
			Title:   firstNonEmpty(out.Heading, "Web Search Results"),
			Snippet: out.AbstractText,
			URL:     out.AbstractURL,
		})
	}
	for _, t := range out.RelatedTopics {
		if len(results) >= count {
			break
		}
		if strings.TrimSpace(t.Text) == "" || t.FirstURL == "" {
			continue
		}
		results = append(results, domain.WebResult{
			Title:   firstNonEmpty(out.Heading, "Web Search Results"),
			Snippet: t.Text,
			URL:     t.FirstURL,
		})
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no results", domain.ErrSearchUnavailable)
	}
	return results, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
