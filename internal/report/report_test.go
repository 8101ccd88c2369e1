package report

import (
	"strings"
	"testing"

	"github.com/ogulcanaydogan/aitools/pkg/types"
)

func sampleResearch() ResearchDoc {
	return ResearchDoc{
		Query:     "rust vs go",
		CreatedAt: "2026-02-17T20:10:11.123Z",
		Model:     "gpt-5",
		Text:      "\n  Both are fine.  \n",
		Sources: []types.WebSource{
			{URL: "https://go.dev", Title: "The Go Programming Language"},
			{URL: "https://www.rust-lang.org", Title: "   "},
		},
	}
}

func TestBuildResearchMarkdown_Layout(t *testing.T) {
	md := BuildResearchMarkdown(sampleResearch())
	want := "# Research: rust vs go\n" +
		"\n" +
		"- Date: 2026-02-17T20:10:11.123Z\n" +
		"- Model: gpt-5\n" +
		"- Tool: web_search\n" +
		"\n" +
		"## Summary\n" +
		"\n" +
		"Both are fine.\n" +
		"\n" +
		"## Sources\n" +
		"\n" +
		"- [The Go Programming Language](https://go.dev)\n" +
		"- [https://www.rust-lang.org](https://www.rust-lang.org)\n"
	if md != want {
		t.Fatalf("unexpected markdown:\n%s\nwant:\n%s", md, want)
	}
}

func TestBuildResearchMarkdown_NoSources(t *testing.T) {
	d := sampleResearch()
	d.Sources = nil
	md := BuildResearchMarkdown(d)
	if !strings.Contains(md, "## Sources\n\n- (none)\n") {
		t.Errorf("missing (none) marker:\n%s", md)
	}
	if !strings.HasSuffix(md, "\n") || strings.HasSuffix(md, "\n\n") {
		t.Errorf("document should end with exactly one newline: %q", md[len(md)-5:])
	}
}

func TestBuildResearchMarkdown_EmptyText(t *testing.T) {
	d := sampleResearch()
	d.Text = "   \n\t"
	md := BuildResearchMarkdown(d)
	if !strings.Contains(md, "## Summary\n\n(no response text)\n") {
		t.Errorf("missing placeholder:\n%s", md)
	}
}

func TestBuildResearchMarkdown_Deterministic(t *testing.T) {
	first := BuildResearchMarkdown(sampleResearch())
	second := BuildResearchMarkdown(sampleResearch())
	if first != second {
		t.Fatal("research renderer is not deterministic")
	}
}

func TestBuildResearchMarkdown_SourceOrderPreserved(t *testing.T) {
	md := BuildResearchMarkdown(sampleResearch())
	goIdx := strings.Index(md, "https://go.dev")
	rustIdx := strings.Index(md, "https://www.rust-lang.org")
	if goIdx < 0 || rustIdx < 0 || goIdx > rustIdx {
		t.Errorf("sources rendered out of order")
	}
}

func sampleReview() ReviewDoc {
	return ReviewDoc{
		URL:            "https://example.com/",
		CreatedAt:      "2026-02-17T20:10:11.123Z",
		Model:          "gemini-2.5-flash",
		ScreenshotFile: "/tmp/screenshots/2026-02-17T20-10-11-123Z__screenshot.png",
		Feedback:       "Increase contrast.\n",
	}
}

func TestBuildReviewMarkdown_Layout(t *testing.T) {
	md := BuildReviewMarkdown(sampleReview())
	want := "# Design Review: https://example.com/\n" +
		"\n" +
		"- Date: 2026-02-17T20:10:11.123Z\n" +
		"- Model: gemini-2.5-flash\n" +
		"- Screenshot: /tmp/screenshots/2026-02-17T20-10-11-123Z__screenshot.png\n" +
		"\n" +
		"## Feedback\n" +
		"\n" +
		"Increase contrast.\n"
	if md != want {
		t.Fatalf("unexpected markdown:\n%s\nwant:\n%s", md, want)
	}
}

func TestBuildReviewMarkdown_NoSourcesSection(t *testing.T) {
	md := BuildReviewMarkdown(sampleReview())
	if strings.Contains(md, "## Sources") {
		t.Error("design review must not render a sources section")
	}
	if strings.Contains(md, "Tool:") {
		t.Error("design review must not render the research tool marker")
	}
}

func TestBuildReviewMarkdown_EmptyFeedback(t *testing.T) {
	r := sampleReview()
	r.Feedback = ""
	md := BuildReviewMarkdown(r)
	if !strings.Contains(md, "## Feedback\n\n(no feedback returned)\n") {
		t.Errorf("missing feedback placeholder:\n%s", md)
	}
}
