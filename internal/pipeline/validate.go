package pipeline

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var viewportPattern = regexp.MustCompile(`^(\d{2,5})x(\d{2,5})$`)

type Viewport struct {
	Width  int
	Height int
}

// ParseViewport accepts WIDTHxHEIGHT with two to five digits per side.
func ParseViewport(value string) (Viewport, error) {
	m := viewportPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return Viewport{}, invalid("viewport", "Viewport must be in WIDTHxHEIGHT format, e.g. 1280x720.")
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return Viewport{Width: w, Height: h}, nil
}

// NormalizeURL parses value and only admits absolute http and https URLs.
func NormalizeURL(value string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil || u.Scheme == "" {
		return "", invalid("url", "Invalid URL: %s", value)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", invalid("url", "URL must start with http:// or https://")
	}
	if u.Host == "" {
		return "", invalid("url", "Invalid URL: %s", value)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// ParseLeadingInt reads the leading decimal integer of s, returning fallback
// when s does not start with one.
func ParseLeadingInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return fallback
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return fallback
	}
	return n
}
