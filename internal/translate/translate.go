// Package translate converts surfaced answers to the user's selected
// language via the public translate endpoint. Translation failures are
// non-fatal: the caller falls back to the untranslated text.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Translator is the translation surface the pipeline depends on.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Languages lists the selectable response languages. English means no
// translation.
var Languages = []string{
	"English", "Spanish", "French", "German", "Chinese", "Japanese",
	"Korean", "Arabic", "Russian", "Portuguese", "Italian", "Hindi",
	"Bengali", "Tamil", "Telugu",
}

var langCodes = map[string]string{
	"english": "en", "spanish": "es", "french": "fr", "german": "de",
	"chinese": "zh-CN", "japanese": "ja", "korean": "ko", "arabic": "ar",
	"russian": "ru", "portuguese": "pt", "italian": "it", "hindi": "hi",
	"bengali": "bn", "tamil": "ta", "telugu": "te",
}

// Client calls the unauthenticated translate_a/single endpoint.
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
		base = "https://translate.googleapis.com"
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

// Translate returns text rendered in targetLang (a Languages entry).
// An unknown language or English returns the text unchanged.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	code, ok := langCodes[strings.ToLower(targetLang)]
	if !ok || code == "en" {
		return text, nil
	}
	u := fmt.Sprintf("%s/translate_a/single?client=gtx&sl=auto&tl=%s&dt=t&q=%s",
		c.baseURL, url.QueryEscape(code), url.QueryEscape(text))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("translate failed: %s", resp.Status)
	}

	// Response shape: [[[translated, original, ...], ...], ...]
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("decode translation segments: %w", err)
	}
	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty translation")
	}
	return sb.String(), nil
}
