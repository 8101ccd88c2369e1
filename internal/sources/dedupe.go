// Package sources collapses web citations into a unique, ordered set.
package sources

import "github.com/ogulcanaydogan/aitools/pkg/types"

// Dedupe keeps the first occurrence of each URL and preserves the order in
// which URLs first appear. A kept source without a title takes the first
// title a later duplicate carries. The result is never nil.
func Dedupe(in []types.WebSource) []types.WebSource {
	pos := make(map[string]int, len(in))
	out := make([]types.WebSource, 0, len(in))
	for _, s := range in {
		if i, ok := pos[s.URL]; ok {
			if out[i].Title == "" {
				out[i].Title = s.Title
			}
			continue
		}
		pos[s.URL] = len(out)
		out = append(out, s)
	}
	return out
}
