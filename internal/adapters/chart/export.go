package chart

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// PNG export constants.
const (
	exportTimeout = 60 * time.Second

	// renderSettle gives echarts time to draw before the screenshot.
	renderSettle = 2 * time.Second

	screenshotQuality = 100
)

// chromeCandidates are the binary names probed on PATH, most specific first.
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

// ExportPNG renders the written HTML artifact to a PNG via headless Chrome.
// The caller treats any error here as a warning: the browser engine is an
// optional dependency and a missing one must not fail the run.
func (r *Renderer) ExportPNG(ctx context.Context, htmlPath, pngPath string) error {
	bin := r.chromePath
	if bin == "" {
		bin = findChromeBinary()
	}
	if bin == "" {
		return fmt.Errorf("%w: no chrome/chromium binary on PATH", ErrNoBrowser)
	}

	absHTML, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(bin),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, exportTimeout)
	defer cancelTimeout()

	var shot []byte
	err = chromedp.Run(tabCtx,
		chromedp.EmulateViewport(chartWidth, chartHeight),
		chromedp.Navigate("file://"+absHTML),
		chromedp.Sleep(renderSettle),
		chromedp.FullScreenshot(&shot, screenshotQuality),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	if err := os.WriteFile(pngPath, shot, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

// findChromeBinary locates an installed browser binary, or returns "".
func findChromeBinary() string {
	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
