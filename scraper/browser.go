package scraper

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jobfit/backend/utils"
)

// BrowserRenderer renders pages with headless Chrome
type BrowserRenderer struct {
	execPath string
	timeout  time.Duration
}

// NewBrowserRenderer creates a renderer. An empty execPath lets chromedp
// find Chrome on the PATH.
func NewBrowserRenderer(execPath string, timeout time.Duration) *BrowserRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserRenderer{execPath: execPath, timeout: timeout}
}

// Render navigates to url and returns the document HTML once the body is ready
func (b *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(utils.BrowserUserAgent),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	browserCtx, cancel := context.WithTimeout(browserCtx, b.timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
