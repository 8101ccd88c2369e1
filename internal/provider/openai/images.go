package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ogulcanaydogan/aitools/pkg/schema"
	"github.com/ogulcanaydogan/aitools/pkg/types"
)

type imagesRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
	N      int    `json:"n,omitempty"`
}

type imagesResponse struct {
	Data []struct {
		URL     string `json:"url,omitempty"`
		B64JSON string `json:"b64_json,omitempty"`
	} `json:"data"`
}

// GenerateImages asks for req.Count images. Every returned item is kept in
// order; one carrying neither inline data nor a URL comes back empty.
func (c *Client) GenerateImages(ctx context.Context, req types.ImageRequest) (types.ImageResult, error) {
	body := imagesRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Size:   req.Size,
		N:      req.Count,
	}
	raw, err := c.post(ctx, "/v1/images/generations", body, schema.OpenAIImages)
	if err != nil {
		return types.ImageResult{}, err
	}
	var resp imagesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return types.ImageResult{}, fmt.Errorf("decode openai images response: %w", err)
	}

	images := make([]types.GeneratedImage, 0, len(resp.Data))
	for _, d := range resp.Data {
		switch {
		case d.B64JSON != "":
			images = append(images, types.GeneratedImage{B64JSON: d.B64JSON})
		case d.URL != "":
			images = append(images, types.GeneratedImage{URL: d.URL})
		default:
			images = append(images, types.GeneratedImage{})
		}
	}
	return types.ImageResult{Model: req.Model, Images: images}, nil
}

// Fetch downloads a generated image by URL.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}
