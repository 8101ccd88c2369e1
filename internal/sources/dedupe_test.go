package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ogulcanaydogan/aitools/pkg/types"
)

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	in := []types.WebSource{
		{URL: "A", Title: "t1"},
		{URL: "B", Title: "t2"},
		{URL: "A", Title: "t3"},
	}
	got := Dedupe(in)
	assert.Equal(t, []types.WebSource{
		{URL: "A", Title: "t1"},
		{URL: "B", Title: "t2"},
	}, got)
}

func TestDedupeFillsMissingTitle(t *testing.T) {
	in := []types.WebSource{
		{URL: "https://go.dev"},
		{URL: "https://www.rust-lang.org"},
		{URL: "https://go.dev", Title: "Go"},
		{URL: "https://go.dev", Title: "Go again"},
	}
	assert.Equal(t, []types.WebSource{
		{URL: "https://go.dev", Title: "Go"},
		{URL: "https://www.rust-lang.org"},
	}, Dedupe(in))
}

func TestDedupeEmpty(t *testing.T) {
	got := Dedupe(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = Dedupe([]types.WebSource{})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDedupeDoesNotSort(t *testing.T) {
	in := []types.WebSource{{URL: "z"}, {URL: "a"}, {URL: "m"}, {URL: "a"}}
	got := Dedupe(in)
	assert.Equal(t, []types.WebSource{{URL: "z"}, {URL: "a"}, {URL: "m"}}, got)
}

func TestDedupeDoesNotMutateInput(t *testing.T) {
	in := []types.WebSource{{URL: "A"}, {URL: "A"}, {URL: "B"}}
	_ = Dedupe(in)
	assert.Equal(t, []types.WebSource{{URL: "A"}, {URL: "A"}, {URL: "B"}}, in)
}

func TestDedupeProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		urls := rapid.SliceOf(rapid.SampledFrom([]string{"a", "b", "c", "d", "e"})).Draw(rt, "urls")
		in := make([]types.WebSource, len(urls))
		for i, u := range urls {
			in[i] = types.WebSource{URL: u, Title: rapid.StringN(0, 5, -1).Draw(rt, "title")}
		}

		got := Dedupe(in)

		seen := make(map[string]bool)
		for _, s := range got {
			require.False(rt, seen[s.URL], "duplicate url %q", s.URL)
			seen[s.URL] = true
		}

		// Output is the input filtered to first occurrences, each carrying
		// the first non-empty title seen for its URL.
		var want []types.WebSource
		at := make(map[string]int)
		for _, s := range in {
			i, ok := at[s.URL]
			if !ok {
				at[s.URL] = len(want)
				want = append(want, s)
				continue
			}
			if want[i].Title == "" {
				want[i].Title = s.Title
			}
		}
		require.Len(rt, got, len(want))
		for i := range want {
			require.Equal(rt, want[i], got[i])
		}
	})
}
