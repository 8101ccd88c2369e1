package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ogulcanaydogan/aitools/internal/naming"
	"github.com/ogulcanaydogan/aitools/internal/store"
	"github.com/ogulcanaydogan/aitools/pkg/types"
)

const (
	minImageCount = 1
	maxImageCount = 10
	defaultPrompt = "cats"
)

var mentionsCat = regexp.MustCompile(`(?i)cat`)

// Images generates a batch of pictures and writes each one as a PNG.
type Images struct {
	Generator ImageGenerator
	Fetcher   ImageFetcher
	Dir       string
	Label     string
	Now       func() time.Time
	Logger    *zap.Logger
}

type ImagesOutcome struct {
	Saved []string
	// Empty is set when the provider returned no items at all.
	Empty bool
}

// ClampCount bounds a requested image count to 1..10.
func ClampCount(n int) int {
	if n < minImageCount {
		return minImageCount
	}
	if n > maxImageCount {
		return maxImageCount
	}
	return n
}

// CatPrompt trims prompt, defaults it to "cats" and makes sure it is about cats.
func CatPrompt(prompt string) string {
	p := strings.TrimSpace(prompt)
	if p == "" {
		p = defaultPrompt
	}
	if !mentionsCat.MatchString(p) {
		p = "cats, " + p
	}
	return p
}

func (im *Images) Run(ctx context.Context, req types.ImageRequest) (ImagesOutcome, error) {
	logger := im.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	req.Count = ClampCount(req.Count)
	req.Prompt = CatPrompt(req.Prompt)
	label := naming.Slugify(im.Label)
	if strings.TrimSpace(im.Label) == "" {
		label = "cat"
	}

	dir, err := store.EnsureDir(im.Dir)
	if err != nil {
		return ImagesOutcome{}, err
	}

	logger.Debug("generating images", zap.String("model", req.Model), zap.Int("count", req.Count))
	res, err := im.Generator.GenerateImages(ctx, req)
	if err != nil {
		return ImagesOutcome{}, &ExternalError{Op: "generate images", Err: err}
	}
	if len(res.Images) == 0 {
		return ImagesOutcome{Saved: []string{}, Empty: true}, nil
	}

	ts := naming.TimestampID(nowOr(im.Now))
	saved := make([]string, 0, len(res.Images))
	for i, img := range res.Images {
		data, err := im.imageBytes(ctx, img)
		if err != nil {
			logger.Warn("skipping image", zap.Int("index", i+1), zap.Error(err))
			continue
		}
		path := store.UniquePath(dir, naming.ImageFilename(ts, label, i+1))
		if err := store.WriteFile(path, data); err != nil {
			return ImagesOutcome{Saved: saved}, err
		}
		saved = append(saved, path)
	}
	return ImagesOutcome{Saved: saved}, nil
}

func (im *Images) imageBytes(ctx context.Context, img types.GeneratedImage) ([]byte, error) {
	switch {
	case img.B64JSON != "":
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return data, nil
	case img.URL != "":
		if im.Fetcher == nil {
			return nil, fmt.Errorf("no fetcher for %s", img.URL)
		}
		return im.Fetcher.Fetch(ctx, img.URL)
	default:
		return nil, fmt.Errorf("image has neither data nor url")
	}
}
