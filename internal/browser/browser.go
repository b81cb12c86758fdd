// Package browser loads event pages and hands back their rendered markup.
//
// The event page builds its content client-side, so the default renderer
// drives a real Chrome through chromedp. A plain HTTP renderer is available
// for pages served pre-rendered and for tests. Both wait for a readiness
// marker under a single timeout and report ErrNotReady when it never shows.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Renderer modes
const (
	ModeChrome = "chrome"
	ModeStatic = "static"
)

const (
	DefaultUserAgent = "event-csv/1.0 (github.com/pfrederiksen/event-csv)"
	DefaultTimeout   = 10 * time.Second
)

// ErrNotReady is returned when the readiness marker did not appear in time
var ErrNotReady = errors.New("event content did not load in time")

// Renderer loads url and returns its markup once an element matching the
// ready selector is present, or fails after timeout.
type Renderer interface {
	Render(ctx context.Context, url, ready string, timeout time.Duration) (string, error)
}

// Options configures one renderer. They are passed explicitly on every
// construction; nothing is read from process-wide state.
type Options struct {
	Mode string

	// Headless rendering leaves the event page incomplete, so it is off by default.
	Headless           bool
	NoSandbox          bool
	DisableDevShmUsage bool
	DisableGPU         bool
	ExecPath           string

	UserAgent string
}

// DefaultOptions mirrors the flags the event page is known to render with
func DefaultOptions() Options {
	return Options{
		Mode:               ModeChrome,
		Headless:           false,
		NoSandbox:          true,
		DisableDevShmUsage: true,
		UserAgent:          DefaultUserAgent,
	}
}

// New returns the renderer selected by opts.Mode
func New(opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Mode)) {
	case ModeChrome, "":
		return NewChrome(opts), nil
	case ModeStatic:
		return NewStatic(opts.UserAgent), nil
	default:
		return nil, fmt.Errorf("unknown renderer mode: %s (must be '%s' or '%s')", opts.Mode, ModeChrome, ModeStatic)
	}
}

// notReady wraps a deadline expiry as ErrNotReady and passes other errors through
func notReady(ctx context.Context, ready string, timeout time.Duration, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %q not present after %s", ErrNotReady, ready, timeout)
	}
	return err
}
