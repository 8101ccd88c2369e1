// Package naming turns creation instants and free text into sortable,
// filesystem-safe identifiers for artifacts.
package naming

import (
	"fmt"
	"strings"
	"time"
)

const (
	isoLayout    = "2006-01-02T15:04:05.000Z"
	maxSlugLen   = 60
	fallbackSlug = "research"
)

// ISOTime formats t in UTC with millisecond precision and a Z suffix.
func ISOTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// TimestampID returns ISOTime(t) with colons and periods replaced by hyphens.
// Instants in sequence produce lexicographically increasing ids.
func TimestampID(t time.Time) string {
	return FileSafe(ISOTime(t))
}

// FileSafe replaces every colon and period in an ISO-8601 string with a hyphen.
func FileSafe(iso string) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(iso)
}

// Slugify lower-cases text and collapses every run of characters outside
// [a-z0-9] into a single hyphen. The result is trimmed of one leading and one
// trailing hyphen, cut to 60 bytes, and replaced by "research" when empty.
func Slugify(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	inRun := false
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteByte('-')
			inRun = true
		}
	}
	slug := strings.TrimPrefix(b.String(), "-")
	slug = strings.TrimSuffix(slug, "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

func ResearchFilename(ts, slug string) string {
	return fmt.Sprintf("%s__%s.md", ts, slug)
}

// ImageFilename names the n-th image of a batch; n is 1-based.
func ImageFilename(ts, label string, n int) string {
	return fmt.Sprintf("%s__%s_%d.png", ts, label, n)
}

func ScreenshotFilename(ts string) string {
	return ts + "__screenshot.png"
}

func ReviewFilename(ts string) string {
	return ts + "__design-review.md"
}
