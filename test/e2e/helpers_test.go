//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ogulcanaydogan/aitools/internal/library"
	"github.com/ogulcanaydogan/aitools/internal/pipeline"
	"github.com/ogulcanaydogan/aitools/internal/provider/openai"
)

type citation struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// fakeResponsesAPI answers /v1/responses with a message carrying text and
// url_citation annotations for every citation.
func fakeResponsesAPI(t *testing.T, text string, cites []citation) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		annotations := make([]map[string]any, 0, len(cites))
		for _, c := range cites {
			annotations = append(annotations, map[string]any{"type": "url_citation", "url": c.URL, "title": c.Title})
		}
		resp := map[string]any{
			"model": "gpt-5-e2e",
			"output": []any{
				map[string]any{"type": "web_search_call", "action": map[string]any{"sources": cites}},
				map[string]any{
					"type": "message",
					"content": []any{
						map[string]any{"type": "output_text", "text": text, "annotations": annotations},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newResearch(t *testing.T, baseURL, baseDir string) *pipeline.Research {
	t.Helper()
	var mu sync.Mutex
	next := time.Date(2026, 2, 17, 20, 10, 11, 0, time.UTC)
	return &pipeline.Research{
		Searcher:    openai.NewClient(openai.Config{APIKey: "sk-e2e", BaseURL: baseURL}),
		Library:     library.NewStore(filepath.Join(baseDir, "library"), nil),
		LibraryName: "library",
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			cur := next
			next = next.Add(1500 * time.Millisecond)
			return cur
		},
	}
}
