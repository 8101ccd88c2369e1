package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ogulcanaydogan/aitools/pkg/schema"
	"github.com/ogulcanaydogan/aitools/pkg/types"
)

type webSearchTool struct {
	Type              string          `json:"type"`
	Filters           *webSearchScope `json:"filters,omitempty"`
	ExternalWebAccess *bool           `json:"external_web_access,omitempty"`
}

type webSearchScope struct {
	AllowedDomains []string `json:"allowed_domains"`
}

type responsesRequest struct {
	Model      string          `json:"model"`
	Tools      []webSearchTool `json:"tools"`
	ToolChoice string          `json:"tool_choice"`
	Include    []string        `json:"include"`
	Input      string          `json:"input"`
}

type responsesResponse struct {
	Model  string         `json:"model"`
	Output []responseItem `json:"output"`
}

type responseItem struct {
	Type   string `json:"type"`
	Action *struct {
		Sources []types.WebSource `json:"sources"`
	} `json:"action,omitempty"`
	Content []struct {
		Type        string `json:"type"`
		Text        string `json:"text"`
		Annotations []struct {
			Type  string `json:"type"`
			URL   string `json:"url"`
			Title string `json:"title"`
		} `json:"annotations"`
	} `json:"content,omitempty"`
}

// Search runs query through the Responses API with the web_search tool enabled.
// Sources are returned in citation order and may contain duplicates.
func (c *Client) Search(ctx context.Context, req types.SearchRequest) (types.SearchResult, error) {
	tool := webSearchTool{Type: "web_search"}
	if len(req.AllowedDomains) > 0 {
		tool.Filters = &webSearchScope{AllowedDomains: req.AllowedDomains}
	}
	if req.Offline {
		off := false
		tool.ExternalWebAccess = &off
	}
	body := responsesRequest{
		Model:      req.Model,
		Tools:      []webSearchTool{tool},
		ToolChoice: "auto",
		Include:    []string{"web_search_call.action.sources"},
		Input:      req.Query,
	}

	raw, err := c.post(ctx, "/v1/responses", body, schema.OpenAIResponse)
	if err != nil {
		return types.SearchResult{}, err
	}
	var resp responsesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return types.SearchResult{}, fmt.Errorf("decode openai response: %w", err)
	}
	return resp.toResult(), nil
}

func (r responsesResponse) toResult() types.SearchResult {
	var text strings.Builder
	found := make([]types.WebSource, 0)
	for _, item := range r.Output {
		switch item.Type {
		case "web_search_call":
			if item.Action != nil {
				for _, s := range item.Action.Sources {
					if s.URL != "" {
						found = append(found, s)
					}
				}
			}
		case "message":
			for _, part := range item.Content {
				if part.Type != "output_text" {
					continue
				}
				text.WriteString(part.Text)
				for _, a := range part.Annotations {
					if a.Type == "url_citation" && a.URL != "" {
						found = append(found, types.WebSource{URL: a.URL, Title: a.Title})
					}
				}
			}
		}
	}
	return types.SearchResult{Text: text.String(), Model: r.Model, Sources: found}
}
