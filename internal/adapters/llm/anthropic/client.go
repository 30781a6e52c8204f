// Package anthropic provides the primary analysis provider over the
// Anthropic messages API
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
	andomain "lectern/internal/services/analysis/domain"
)

const (
	baseURLDefault = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	defaultModel   = "claude-3-7-sonnet-20250219"
	defaultTimeout = 60 * time.Second
	maxTokens      = 2000
	temperature    = 0.7

	toolName = "analyze_theological_content"
)

const systemPrompt = "You are a theological content analyst. Given a sermon, " +
	"study note, or other piece of religious writing, extract its key themes " +
	"and thought-provoking discussion questions. Ground every theme in the " +
	"text itself."

// Options configures the Client
type Options struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client calls the messages endpoint with a forced tool so the model
// must answer in the analysis schema
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("anthropic"),
	}
}

// Name implements the analyzer interface
func (c *Client) Name() string { return "anthropic" }

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Messages    []message `json:"messages"`
	Tools       []tool    `json:"tools"`
	ToolChoice  any       `json:"tool_choice"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// toolSchema forces exactly three themes and two questions
var toolSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"key_themes": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 3,
			"maxItems": 3
		},
		"thought_questions": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 2,
			"maxItems": 2
		}
	},
	"required": ["key_themes", "thought_questions"]
}`)

type messagesResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze implements the analyzer interface
func (c *Client) Analyze(ctx context.Context, title, category, body string) (andomain.Analysis, error) {
	prompt := "Title: " + title + "\nCategory: " + category + "\n\n" + body

	reqBody := messagesRequest{
		Model:       c.opts.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      systemPrompt,
		Messages:    []message{{Role: "user", Content: prompt}},
		Tools: []tool{{
			Name:        toolName,
			Description: "Record the key themes and thought questions of the content",
			InputSchema: toolSchema,
		}},
		ToolChoice: map[string]string{"type": "tool", "name": toolName},
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return andomain.Analysis{}, perr.JSONErrf("encode messages request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/v1/messages", bytes.NewReader(raw))
	if err != nil {
		return andomain.Analysis{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "anthropic new request failed")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.opts.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return andomain.Analysis{}, perr.Transportf("anthropic messages: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return andomain.Analysis{}, perr.Transportf("anthropic read body: %v", err)
	}

	var mr messagesResponse
	if err := json.Unmarshal(out, &mr); err != nil {
		return andomain.Analysis{}, perr.JSONErrf("anthropic decode response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "unexpected status"
		if mr.Error != nil {
			msg = mr.Error.Message
		}
		return andomain.Analysis{}, perr.ServerErrf("anthropic status %d: %s", resp.StatusCode, msg)
	}

	for _, block := range mr.Content {
		if block.Type != "tool_use" {
			continue
		}
		var a struct {
			KeyThemes        []string `json:"key_themes"`
			ThoughtQuestions []string `json:"thought_questions"`
		}
		if err := json.Unmarshal(block.Input, &a); err != nil {
			return andomain.Analysis{}, perr.JSONErrf("anthropic decode tool input: %v", err)
		}
		return andomain.Analysis{
			KeyThemes:        a.KeyThemes,
			ThoughtQuestions: a.ThoughtQuestions,
		}, nil
	}
	return andomain.Analysis{}, perr.ServerErrf("anthropic response had no tool_use block")
}
