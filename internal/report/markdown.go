package report

import (
	"fmt"
	"strings"

	"github.com/ogulcanaydogan/aitools/pkg/types"
)

const (
	noResponseText = "(no response text)"
	noFeedback     = "(no feedback returned)"
	noSources      = "(none)"
)

// ResearchDoc is everything the research document shows.
type ResearchDoc struct {
	Query     string
	CreatedAt string
	Model     string
	Text      string
	Sources   []types.WebSource
}

// ReviewDoc is everything the design-review document shows.
type ReviewDoc struct {
	URL            string
	CreatedAt      string
	Model          string
	ScreenshotFile string
	Feedback       string
}

// BuildResearchMarkdown renders a research result. Sources are expected to be
// deduplicated already.
func BuildResearchMarkdown(d ResearchDoc) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Research: %s\n\n", d.Query))
	b.WriteString(fmt.Sprintf("- Date: %s\n", d.CreatedAt))
	b.WriteString(fmt.Sprintf("- Model: %s\n", d.Model))
	b.WriteString("- Tool: web_search\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString(orPlaceholder(d.Text, noResponseText) + "\n\n")

	b.WriteString("## Sources\n\n")
	if len(d.Sources) == 0 {
		b.WriteString("- " + noSources + "\n")
	}
	for _, s := range d.Sources {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = s.URL
		}
		b.WriteString(fmt.Sprintf("- [%s](%s)\n", title, s.URL))
	}
	return b.String()
}

// BuildReviewMarkdown renders design feedback for a captured page.
func BuildReviewMarkdown(d ReviewDoc) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Design Review: %s\n\n", d.URL))
	b.WriteString(fmt.Sprintf("- Date: %s\n", d.CreatedAt))
	b.WriteString(fmt.Sprintf("- Model: %s\n", d.Model))
	b.WriteString(fmt.Sprintf("- Screenshot: %s\n\n", d.ScreenshotFile))

	b.WriteString("## Feedback\n\n")
	b.WriteString(orPlaceholder(d.Feedback, noFeedback) + "\n")
	return b.String()
}

func orPlaceholder(text, placeholder string) string {
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		return trimmed
	}
	return placeholder
}
