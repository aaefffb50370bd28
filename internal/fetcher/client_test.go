package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pageaudit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"  example.com/page  ", "https://example.com/page"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(tt.in), "input %q", tt.in)
	}
}

func TestScrape_Success(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer scrape-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		fmt.Fprint(w, `{
			"success": true,
			"data": {
				"html": "<html><body>hi</body></html>",
				"markdown": "# Hi",
				"screenshot": "https://cdn.test/shot.png",
				"metadata": {"title": "Hi page", "description": "desc", "ogTitle": "Hi"}
			}
		}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "scrape-key", 5*time.Second, zap.NewNop())
	result, err := client.Scrape(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, "# Hi", result.Markdown)
	assert.Equal(t, "https://cdn.test/shot.png", result.Screenshot)
	assert.Equal(t, "Hi page", result.Metadata.Title)

	// Request mirrors the scrape API contract.
	assert.Equal(t, "https://example.com", captured["url"])
	assert.Equal(t, false, captured["onlyMainContent"])
	formats, ok := captured["formats"].([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"markdown", "html", "screenshot", "links"}, formats)
}

func TestScrape_CollaboratorErrorSurfacedVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"success": false, "error": "This website is not supported"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", 5*time.Second, zap.NewNop())
	_, err := client.Scrape(context.Background(), "https://blocked.test")
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
	assert.Equal(t, "This website is not supported", fetchErr.Message)
	assert.Equal(t, "This website is not supported", err.Error())
}

func TestScrape_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": true, "data": {"html": "  ", "markdown": ""}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", 5*time.Second, zap.NewNop())
	_, err := client.Scrape(context.Background(), "https://empty.test")
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestScrape_UnsuccessfulWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", 5*time.Second, zap.NewNop())
	_, err := client.Scrape(context.Background(), "https://odd.test")

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "scrape failed", fetchErr.Message)
}
