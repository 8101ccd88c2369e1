package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ogulcanaydogan/aitools/internal/naming"
	"github.com/ogulcanaydogan/aitools/internal/report"
	"github.com/ogulcanaydogan/aitools/internal/store"
	"github.com/ogulcanaydogan/aitools/pkg/types"
)

// DesignReview screenshots a page and asks a vision model to critique it.
type DesignReview struct {
	Screenshotter  Screenshotter
	Reviewer       VisionReviewer
	ScreenshotsDir string
	ReviewsDir     string
	Now            func() time.Time
	Logger         *zap.Logger
}

type ReviewRequest struct {
	URL      string
	Viewport string
	FullPage bool
	// Wait is the pause between page load and capture.
	Wait     time.Duration
	Model    string
	Prompt   string
}

type ReviewOutcome struct {
	ScreenshotPath string
	ReviewPath     string
	Feedback       string
}

func (d *DesignReview) Run(ctx context.Context, req ReviewRequest) (ReviewOutcome, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	target, err := NormalizeURL(req.URL)
	if err != nil {
		return ReviewOutcome{}, err
	}
	vp, err := ParseViewport(req.Viewport)
	if err != nil {
		return ReviewOutcome{}, err
	}
	if req.Wait < 0 {
		req.Wait = 0
	}

	shotsDir, err := store.EnsureDir(d.ScreenshotsDir)
	if err != nil {
		return ReviewOutcome{}, err
	}
	reviewsDir, err := store.EnsureDir(d.ReviewsDir)
	if err != nil {
		return ReviewOutcome{}, err
	}

	created := nowOr(d.Now)
	ts := naming.TimestampID(created)

	logger.Debug("capturing", zap.String("url", target), zap.Int("width", vp.Width), zap.Int("height", vp.Height))
	png, err := d.Screenshotter.Capture(ctx, types.ScreenshotRequest{
		URL:      target,
		Width:    vp.Width,
		Height:   vp.Height,
		FullPage: req.FullPage,
		Wait:     req.Wait,
	})
	if err != nil {
		return ReviewOutcome{}, &ExternalError{Op: "capture " + target, Err: err}
	}

	shotPath := store.UniquePath(shotsDir, naming.ScreenshotFilename(ts))
	if err := store.WriteFile(shotPath, png); err != nil {
		return ReviewOutcome{}, err
	}

	res, err := d.Reviewer.Review(ctx, types.VisionRequest{
		Prompt:   req.Prompt,
		Model:    req.Model,
		Image:    png,
		MimeType: "image/png",
	})
	if err != nil {
		return ReviewOutcome{ScreenshotPath: shotPath}, &ExternalError{Op: "review " + target, Err: err}
	}
	model := res.Model
	if model == "" {
		model = req.Model
	}
	feedback := strings.TrimSpace(res.Text)

	doc := report.BuildReviewMarkdown(report.ReviewDoc{
		URL:            target,
		CreatedAt:      naming.ISOTime(created),
		Model:          model,
		ScreenshotFile: filepath.ToSlash(shotPath),
		Feedback:       feedback,
	})
	reviewPath := store.UniquePath(reviewsDir, naming.ReviewFilename(ts))
	if err := store.WriteFile(reviewPath, []byte(doc)); err != nil {
		return ReviewOutcome{ScreenshotPath: shotPath}, err
	}
	return ReviewOutcome{ScreenshotPath: shotPath, ReviewPath: reviewPath, Feedback: feedback}, nil
}
