package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Chrome renders pages in a dedicated Chrome instance per call
type Chrome struct {
	opts Options
}

// NewChrome creates a Chrome renderer
func NewChrome(opts Options) *Chrome {
	return &Chrome{opts: opts}
}

func (c *Chrome) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.opts.Headless),
		chromedp.Flag("no-sandbox", c.opts.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", c.opts.DisableDevShmUsage),
		chromedp.Flag("disable-gpu", c.opts.DisableGPU),
	)
	if c.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.opts.ExecPath))
	}
	if c.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.opts.UserAgent))
	}
	return opts
}

// Render starts a browser, navigates to url and waits for ready.
// Launch, navigation and capture share one deadline of timeout, and the
// browser is shut down before Render returns, on every path.
func (c *Chrome) Render(ctx context.Context, url, ready string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	type result struct {
		markup string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		var markup string
		err := chromedp.Run(browserCtx,
			chromedp.Navigate(url),
			chromedp.WaitReady(ready, chromedp.ByQuery),
			chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
		)
		done <- result{markup: markup, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", notReady(ctx, ready, timeout, fmt.Errorf("loading %s: %w", url, res.err))
		}
		return res.markup, nil
	case <-ctx.Done():
		return "", notReady(ctx, ready, timeout, fmt.Errorf("loading %s: %w", url, ctx.Err()))
	}
}
