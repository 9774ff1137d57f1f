// Package genai is a thin HTTP client for the generative-AI provider that
// backs the advisor, chat, studio, and live features. Only the request and
// response shapes the application depends on are modeled here.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Message is one conversational turn sent to the provider.
type Message struct {
	Role string // "user" or "model"
	Text string
}

// Schema describes the expected JSON output structure for structured calls.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Client communicates with the provider's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// New creates a Client for the given base URL, API key, and default model.
func New(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
	ImageSize        string  `json:"imageSize,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends the conversation to the model and returns its text reply.
func (c *Client) Generate(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.generate(ctx, toContents(messages), nil)
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// GenerateJSON requests structured output conforming to schema and decodes
// the reply into out.
func (c *Client) GenerateJSON(ctx context.Context, messages []Message, schema *Schema, out any) error {
	resp, err := c.generate(ctx, toContents(messages), &generationConfig{
		ResponseMimeType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return err
	}
	text, err := firstText(resp)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode structured reply: %w", err)
	}
	return nil
}

// GenerateImage produces an image for the prompt at the requested size.
// source, when non-nil, is an existing image the model should edit.
// It returns the image bytes and their MIME type.
func (c *Client) GenerateImage(ctx context.Context, prompt, size string, source []byte, sourceType string) ([]byte, string, error) {
	parts := []part{{Text: prompt}}
	if source != nil {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: sourceType,
			Data:     base64.StdEncoding.EncodeToString(source),
		}})
	}

	resp, err := c.generate(ctx, []content{{Role: "user", Parts: parts}}, &generationConfig{ImageSize: size})
	if err != nil {
		return nil, "", err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil {
				data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return nil, "", fmt.Errorf("decode image data: %w", err)
				}
				return data, p.InlineData.MimeType, nil
			}
		}
	}
	return nil, "", fmt.Errorf("no image in response")
}

// Healthy reports whether the provider answers the model listing endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1beta/models", nil)
	if err != nil {
		return false
	}
	c.authorize(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) generate(ctx context.Context, contents []content, cfg *generationConfig) (*generateResponse, error) {
	body, err := json.Marshal(generateRequest{Contents: contents, GenerationConfig: cfg})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}
}

func toContents(messages []Message) []content {
	contents := make([]content, len(messages))
	for i, m := range messages {
		contents[i] = content{Role: m.Role, Parts: []part{{Text: m.Text}}}
	}
	return contents
}

func firstText(resp *generateResponse) (string, error) {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}
	return "", fmt.Errorf("empty response from model")
}
