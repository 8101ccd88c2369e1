package types

import "time"

// WebSource is one citation returned by a search-augmented generation call.
type WebSource struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// IndexEntry records one completed research run in the library index.
type IndexEntry struct {
	ID        string      `json:"id"`
	Query     string      `json:"query"`
	File      string      `json:"file"`
	CreatedAt string      `json:"createdAt"`
	Model     string      `json:"model"`
	Sources   []WebSource `json:"sources"`
}

type SearchRequest struct {
	Query          string
	Model          string
	AllowedDomains []string
	Offline        bool
}

// SearchResult is the text and citations produced by a web-search-augmented call.
type SearchResult struct {
	Text    string
	Model   string
	Sources []WebSource
}

type ImageRequest struct {
	Prompt string
	Model  string
	Size   string
	Count  int
}

// GeneratedImage carries either inline base64 data or a remote URL, never both.
type GeneratedImage struct {
	B64JSON string
	URL     string
}

type ImageResult struct {
	Model  string
	Images []GeneratedImage
}

type VisionRequest struct {
	Prompt   string
	Model    string
	Image    []byte
	MimeType string
}

// TextResult is free text returned by a vision-capable model.
type TextResult struct {
	Text  string
	Model string
}

type ScreenshotRequest struct {
	URL      string
	Width    int
	Height   int
	FullPage bool
	Wait     time.Duration
}
