// Package pipeline sequences one external call, the artifact write and, for
// research, the library index update into a single run.
//
// Every run is linear: validate, ensure directories, call the collaborator
// once, name, render, write, index. Nothing is retried.
package pipeline

import (
	"context"
	"time"

	"github.com/ogulcanaydogan/aitools/pkg/types"
)

type Searcher interface {
	Search(ctx context.Context, req types.SearchRequest) (types.SearchResult, error)
}

type ImageGenerator interface {
	GenerateImages(ctx context.Context, req types.ImageRequest) (types.ImageResult, error)
}

// ImageFetcher downloads images that a generator returned by URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Screenshotter interface {
	Capture(ctx context.Context, req types.ScreenshotRequest) ([]byte, error)
}

type VisionReviewer interface {
	Review(ctx context.Context, req types.VisionRequest) (types.TextResult, error)
}

func nowOr(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
