// Package browser renders a page in headless Chrome through Rod and captures
// a PNG screenshot of it.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"

	"github.com/ogulcanaydogan/aitools/pkg/types"
)

// requestIdle is how long the network must stay quiet before the page counts
// as settled.
const requestIdle = 500 * time.Millisecond

type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty launches a local headless Chrome.
	RemoteURL string

	// Stealth opens pages with anti-detection patches applied.
	Stealth bool

	Logger *zap.Logger
}

// Capturer takes one screenshot per call, each in a fresh browser session.
type Capturer struct {
	cfg Config
}

func NewCapturer(cfg Config) *Capturer {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.Logger = cfg.Logger.Named("browser")
	return &Capturer{cfg: cfg}
}

// Capture navigates to req.URL with the requested viewport, waits for the
// network to settle plus req.Wait, and returns the screenshot bytes.
func (c *Capturer) Capture(ctx context.Context, req types.ScreenshotRequest) ([]byte, error) {
	log := c.cfg.Logger

	controlURL := c.cfg.RemoteURL
	if controlURL == "" {
		l := launcher.New().Headless(true).Set("disable-blink-features", "AutomationControlled")
		u, err := l.Context(ctx).Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		defer l.Cleanup()
		controlURL = u
		log.Debug("launched local chrome", zap.String("url", u))
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	if c.ownsBrowser() {
		defer b.Close()
	}

	page, err := c.newPage(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             req.Width,
		Height:            req.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("browser: set viewport: %w", err)
	}

	waitIdle := page.WaitRequestIdle(requestIdle, nil, nil, nil)
	if err := page.Navigate(req.URL); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", req.URL, err)
	}
	if err := page.WaitLoad(); err != nil {
		log.Warn("wait load failed", zap.String("url", req.URL), zap.Error(err))
	}
	waitIdle()

	if req.Wait > 0 {
		timer := time.NewTimer(req.Wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	data, err := page.Screenshot(req.FullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}
	log.Debug("captured screenshot", zap.String("url", req.URL), zap.Int("bytes", len(data)))
	return data, nil
}

// ownsBrowser reports whether Capture launched the browser itself. An
// external Chrome is left running; only the tab opened for the capture is
// closed.
func (c *Capturer) ownsBrowser() bool {
	return c.cfg.RemoteURL == ""
}

func (c *Capturer) newPage(b *rod.Browser) (*rod.Page, error) {
	if c.cfg.Stealth {
		return stealth.Page(b)
	}
	return b.Page(proto.TargetCreateTarget{URL: ""})
}
