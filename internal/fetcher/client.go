package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pageaudit/internal/domain"

	"go.uber.org/zap"
)

// Client calls the external scrape API (the fetch collaborator). The API is
// a black box that renders the page and returns HTML, markdown, a screenshot
// and metadata.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool                `json:"success"`
	Data    domain.ScrapeResult `json:"data"`
	Error   string              `json:"error"`
}

// Scrape fetches one URL through the scrape API. Non-2xx responses become a
// FetchError carrying the collaborator's own message verbatim; a scrape that
// yields neither markdown nor HTML is ErrEmptyContent.
func (c *Client) Scrape(ctx context.Context, pageURL string) (*domain.ScrapeResult, error) {
	body, err := json.Marshal(scrapeRequest{
		URL:             pageURL,
		Formats:         []string{"markdown", "html", "screenshot", "links"},
		OnlyMainContent: false,
	})
	if err != nil {
		return nil, fmt.Errorf("encode scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build scrape request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request: %w", err)
	}
	defer resp.Body.Close()

	var payload scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && resp.StatusCode < 300 {
		return nil, fmt.Errorf("decode scrape response: %w", err)
	}

	if resp.StatusCode >= 300 || !payload.Success {
		message := payload.Error
		if message == "" {
			message = "scrape failed"
		}
		c.logger.Warn("scrape API error",
			zap.String("url", pageURL),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return nil, &domain.FetchError{StatusCode: resp.StatusCode, Message: message}
	}

	if strings.TrimSpace(payload.Data.Markdown) == "" && strings.TrimSpace(payload.Data.HTML) == "" {
		return nil, domain.ErrEmptyContent
	}

	return &payload.Data, nil
}

// NormalizeURL ensures the URL carries an http(s) scheme, defaulting to https.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		return "https://" + trimmed
	}
	return trimmed
}
