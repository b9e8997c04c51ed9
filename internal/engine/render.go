package engine

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PageRenderer produces the rendered DOM and a screenshot for one URL.
type PageRenderer interface {
	RenderPage(ctx context.Context, rawURL string) (*RenderedPage, error)
}

// Browser binaries probed when no ChromePath or remote endpoint is configured.
var chromeBinaries = []string{
	"chromium", "chromium-browser", "google-chrome", "google-chrome-stable", "headless-shell", "chrome",
}

// RenderAvailable reports whether rendering is enabled and a browser can be reached.
func RenderAvailable(cfg Config) bool {
	if !cfg.EnableRender {
		return false
	}
	if cfg.BrowserWSURL != "" || cfg.ChromePath != "" {
		return true
	}
	for _, name := range chromeBinaries {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// Renderer drives a headless Chrome through chromedp. Every call gets its own
// browser (local) or browser context (remote), released before RenderPage returns.
type Renderer struct {
	cfg      Config
	sessions chan struct{}
}

// NewRenderer creates a Renderer limited to cfg.RenderSessions concurrent sessions.
func NewRenderer(cfg Config) *Renderer {
	n := cfg.RenderSessions
	if n <= 0 {
		n = 1
	}
	return &Renderer{cfg: cfg, sessions: make(chan struct{}, n)}
}

// RenderPage navigates to rawURL, waits for network idle plus the settle
// delay, and returns the outer HTML and a JPEG screenshot. Any failure
// returns nil and a RenderFailure or NetworkTimeout error.
func (r *Renderer) RenderPage(ctx context.Context, rawURL string) (*RenderedPage, error) {
	metrics.RenderRequests.Add(1)

	select {
	case r.sessions <- struct{}{}:
		defer func() { <-r.sessions }()
	case <-ctx.Done():
		return nil, &Error{Kind: NetworkTimeout, Op: "render", Err: ctx.Err()}
	}

	runCtx, release, err := r.session(ctx)
	defer release()
	if err != nil {
		return nil, r.failure(rawURL, err)
	}

	var (
		outer string
		shot  []byte
	)
	err = chromedp.Run(runCtx,
		emulation.SetUserAgentOverride(r.cfg.UserAgent),
		chromedp.EmulateViewport(int64(r.cfg.ViewportWidth), int64(r.cfg.ViewportHeight)),
		navigateAndWaitIdle(rawURL),
		chromedp.Sleep(r.cfg.RenderSettle),
		chromedp.OuterHTML("html", &outer, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, err := page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatJpeg).
				WithQuality(int64(r.cfg.ScreenshotQuality)).
				Do(ctx)
			if err != nil {
				return err
			}
			shot = buf
			return nil
		}),
	)
	if err != nil {
		return nil, r.failure(rawURL, err)
	}
	return &RenderedPage{HTML: outer, Screenshot: shot}, nil
}

func (r *Renderer) failure(rawURL string, err error) error {
	metrics.RenderFailures.Add(1)
	kind := RenderFailure
	if errors.Is(err, context.DeadlineExceeded) {
		kind = NetworkTimeout
	}
	slog.Debug("render failed", slog.String("url", rawURL), slog.String("kind", kind.String()), slog.Any("error", err))
	return &Error{Kind: kind, Op: "render", Err: err}
}

// session opens a browser context bounded by RenderTimeout. The returned
// release func is always safe to call: it closes the tab and disposes the
// browser context (remote) or kills the process (local).
// Remote calls run in a fresh browser context so cookies and storage never
// carry over between calls.
func (r *Renderer) session(parent context.Context) (context.Context, func(), error) {
	if r.cfg.BrowserWSURL == "" {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.DisableGPU,
			chromedp.UserAgent(r.cfg.UserAgent),
			chromedp.WindowSize(r.cfg.ViewportWidth, r.cfg.ViewportHeight),
		)
		if r.cfg.ChromePath != "" {
			opts = append(opts, chromedp.ExecPath(r.cfg.ChromePath))
		}
		allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
		browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
		runCtx, cancelRun := context.WithTimeout(browserCtx, r.cfg.RenderTimeout)
		return runCtx, func() {
			cancelRun()
			cancelBrowser()
			cancelAlloc()
		}, nil
	}

	timeoutCtx, cancelTimeout := context.WithTimeout(parent, r.cfg.RenderTimeout)
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(timeoutCtx, r.cfg.BrowserWSURL)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	release := func() {
		cancelBrowser()
		cancelAlloc()
		cancelTimeout()
	}
	// WithNewBrowserContext is only valid on a context whose browser is
	// already connected.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, release, err
	}
	runCtx, cancelRun := chromedp.NewContext(browserCtx, chromedp.WithNewBrowserContext())
	return runCtx, func() {
		cancelRun()
		release()
	}, nil
}

// navigateAndWaitIdle navigates and blocks until the page's loader reports
// networkIdle or ctx ends.
func navigateAndWaitIdle(rawURL string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		idle := make(chan struct{})
		var (
			mu     sync.Mutex
			once   sync.Once
			loader cdp.LoaderID
		)
		chromedp.ListenTarget(ctx, func(ev any) {
			e, ok := ev.(*page.EventLifecycleEvent)
			if !ok {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			switch e.Name {
			case "init":
				loader = e.LoaderID
			case "networkIdle":
				if e.LoaderID == loader {
					once.Do(func() { close(idle) })
				}
			}
		})

		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}
		if err := chromedp.Navigate(rawURL).Do(ctx); err != nil {
			return err
		}
		select {
		case <-idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}
