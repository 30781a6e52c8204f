// Package gemini provides the fallback analysis provider over the
// Google GenAI API
package gemini

import (
	"context"
	"encoding/json"

	"google.golang.org/genai"

	perr "lectern/internal/platform/errors"
	"lectern/internal/platform/logger"
	andomain "lectern/internal/services/analysis/domain"
)

const defaultModel = "gemini-2.0-flash"

const systemPrompt = "You are a theological content analyst. Extract the key " +
	"themes and discussion questions from the given religious writing, " +
	"grounded in the text itself."

// Options configures the Client
type Options struct {
	APIKey string
	Model  string
}

// Client asks Gemini for a JSON object constrained by a response schema
type Client struct {
	client *genai.Client
	model  string
	log    logger.Logger
}

// NewClient creates a Client, connecting once at startup
func NewClient(ctx context.Context, o Options) (*Client, error) {
	if o.APIKey == "" {
		return nil, perr.InvalidArgf("gemini api key is required")
	}
	if o.Model == "" {
		o.Model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: o.APIKey})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "gemini client failed")
	}
	return &Client{
		client: client,
		model:  o.Model,
		log:    *logger.Named("gemini"),
	}, nil
}

// Name implements the analyzer interface
func (c *Client) Name() string { return "gemini" }

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"key_themes": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"thought_questions": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"key_themes", "thought_questions"},
}

// Analyze implements the analyzer interface
func (c *Client) Analyze(ctx context.Context, title, category, body string) (andomain.Analysis, error) {
	prompt := systemPrompt +
		"\n\nReturn exactly 3 key_themes and exactly 2 thought_questions." +
		"\n\nTitle: " + title + "\nCategory: " + category + "\n\n" + body

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
		Temperature:      genai.Ptr[float32](0.7),
		MaxOutputTokens:  2000,
	})
	if err != nil {
		return andomain.Analysis{}, perr.Transportf("gemini generate: %v", err)
	}

	text := resp.Text()
	if text == "" {
		return andomain.Analysis{}, perr.ServerErrf("gemini returned no candidates")
	}

	var a struct {
		KeyThemes        []string `json:"key_themes"`
		ThoughtQuestions []string `json:"thought_questions"`
	}
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return andomain.Analysis{}, perr.JSONErrf("gemini decode analysis: %v", err)
	}
	return andomain.Analysis{
		KeyThemes:        a.KeyThemes,
		ThoughtQuestions: a.ThoughtQuestions,
	}, nil
}
