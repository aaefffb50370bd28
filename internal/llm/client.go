package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pageaudit/internal/domain"
	"pageaudit/internal/prompt"

	"go.uber.org/zap"
)

// Client calls the scoring collaborator: an OpenAI-compatible chat gateway
// that is forced to answer through a single tool call. Temperature is pinned
// to zero, but the raw scores are still treated as untrusted downstream.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type toolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
	Tools       []chatTool    `json:"tools"`
	ToolChoice  toolChoice    `json:"tool_choice"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// Score sends the composed request and returns the raw scoring payload.
// Rate limiting (429) and quota exhaustion (402) map to distinct errors so
// callers can surface them differently; neither is retried here.
func (c *Client) Score(ctx context.Context, req prompt.Request) (domain.RawScorePayload, error) {
	var payload domain.RawScorePayload

	choice := toolChoice{Type: "function"}
	choice.Function.Name = prompt.ToolName

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Tools: []chatTool{{
			Type: "function",
			Function: toolFunction{
				Name:        prompt.ToolName,
				Description: "Submit the complete audit results with scores and recommendations",
				Parameters:  req.Schema,
			},
		}},
		ToolChoice: choice,
	})
	if err != nil {
		return payload, fmt.Errorf("encode scoring request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return payload, fmt.Errorf("build scoring request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return payload, fmt.Errorf("scoring request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return payload, domain.ErrRateLimited
	case http.StatusPaymentRequired:
		return payload, domain.ErrQuotaExhausted
	}
	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("scoring gateway error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return payload, fmt.Errorf("scoring failed with status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return payload, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	if len(chat.Choices) == 0 || len(chat.Choices[0].Message.ToolCalls) == 0 {
		return payload, domain.ErrNoToolCall
	}

	arguments := chat.Choices[0].Message.ToolCalls[0].Function.Arguments
	if err := json.Unmarshal([]byte(arguments), &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	return payload, nil
}
