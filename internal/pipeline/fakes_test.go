package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ogulcanaydogan/aitools/pkg/types"
)

type fakeSearcher struct {
	result types.SearchResult
	err    error
	calls  []types.SearchRequest
}

func (f *fakeSearcher) Search(_ context.Context, req types.SearchRequest) (types.SearchResult, error) {
	f.calls = append(f.calls, req)
	return f.result, f.err
}

type fakeGenerator struct {
	result types.ImageResult
	err    error
	got    types.ImageRequest
}

func (f *fakeGenerator) GenerateImages(_ context.Context, req types.ImageRequest) (types.ImageResult, error) {
	f.got = req
	return f.result, f.err
}

type fakeFetcher struct {
	bodies map[string][]byte
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if b, ok := f.bodies[url]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("fetch image: status 404")
}

type fakeScreenshotter struct {
	png   []byte
	err   error
	got   types.ScreenshotRequest
	calls int
}

func (f *fakeScreenshotter) Capture(_ context.Context, req types.ScreenshotRequest) ([]byte, error) {
	f.calls++
	f.got = req
	return f.png, f.err
}

type fakeReviewer struct {
	result types.TextResult
	err    error
	got    types.VisionRequest
}

func (f *fakeReviewer) Review(_ context.Context, req types.VisionRequest) (types.TextResult, error) {
	f.got = req
	return f.result, f.err
}

// steppingClock returns start and then advances by step on every call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}
