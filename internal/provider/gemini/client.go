// Package gemini asks a Gemini model for feedback on an inline image.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ogulcanaydogan/aitools/pkg/schema"
	"github.com/ogulcanaydogan/aitools/pkg/types"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}}
}

type part struct {
	Text       string  `json:"text,omitempty"`
	InlineData *inline `json:"inlineData,omitempty"`
}

type inline struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	ModelVersion string `json:"modelVersion"`
	Candidates   []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini error: status=%d body=%s", e.Status, e.Body)
}

// Review sends the prompt and image to the model and returns its text answer,
// the concatenated text parts of the first candidate.
func (c *Client) Review(ctx context.Context, req types.VisionRequest) (types.TextResult, error) {
	mime := req.MimeType
	if mime == "" {
		mime = "image/png"
	}
	body := generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: req.Prompt},
				{InlineData: &inline{MimeType: mime, Data: base64.StdEncoding.EncodeToString(req.Image)}},
			},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return types.TextResult{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, url.PathEscape(req.Model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return types.TextResult{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return types.TextResult{}, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.TextResult{}, fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return types.TextResult{}, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	violations, err := schema.ValidateJSON(schema.GeminiGenerate, raw)
	if err != nil {
		return types.TextResult{}, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(violations) > 0 {
		return types.TextResult{}, fmt.Errorf("unexpected gemini response: %s", strings.Join(violations, "; "))
	}

	var gResp generateResponse
	if err := json.Unmarshal(raw, &gResp); err != nil {
		return types.TextResult{}, fmt.Errorf("decode gemini response: %w", err)
	}

	model := gResp.ModelVersion
	if model == "" {
		model = req.Model
	}
	var text strings.Builder
	if len(gResp.Candidates) > 0 {
		for _, p := range gResp.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}
	return types.TextResult{Text: text.String(), Model: model}, nil
}
