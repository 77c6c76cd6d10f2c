package browser

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/alnah/go-site2pdf/internal/fileutil"
)

// Chromedp implements Backend with chromedp.
//
// Network idle comes from Chrome's own "networkIdle" lifecycle event, which
// uses a fixed 500ms quiet period; Options.IdleWindow is not consulted.
type Chromedp struct {
	opts Options

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewChromedp creates a Chromedp backend. The browser starts on first use.
func NewChromedp(opts Options) *Chromedp {
	return &Chromedp{opts: opts.withDefaults()}
}

func (c *Chromedp) allocatorOptions() []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("no-first-run", true),
	)
	if c.opts.BrowserBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.BrowserBin))
	}
	if c.opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}
	return allocOpts
}

// ensureBrowser starts Chrome on first use.
func (c *Chromedp) ensureBrowser() (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browserCtx != nil {
		return c.browserCtx, nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), c.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	c.allocCancel = allocCancel
	c.browserCtx = browserCtx
	c.browserCancel = browserCancel
	return browserCtx, nil
}

// Close implements Backend.
func (c *Chromedp) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browserCtx == nil {
		return nil
	}
	c.browserCancel()
	c.allocCancel()
	c.browserCtx = nil
	return nil
}

// newTab opens a tab bounded by both the caller's context and the
// per-operation timeout.
func (c *Chromedp) newTab(ctx context.Context) (context.Context, context.CancelFunc, error) {
	browserCtx, err := c.ensureBrowser()
	if err != nil {
		return nil, nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, c.opts.Timeout)
	stop := context.AfterFunc(ctx, tabCancel)

	return timeoutCtx, func() {
		stop()
		timeoutCancel()
		tabCancel()
	}, nil
}

// Fetch implements Backend.
func (c *Chromedp) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tabCtx, cancel, err := c.newTab(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	idle := make(chan struct{}, 1)
	var status atomic.Int64
	chromedp.ListenTarget(tabCtx, func(ev any) {
		switch e := ev.(type) {
		case *page.EventLifecycleEvent:
			switch e.Name {
			case "init":
				// A new document started; drop idle signals from the previous one.
				select {
				case <-idle:
				default:
				}
			case "networkIdle":
				select {
				case idle <- struct{}{}:
				default:
				}
			}
		case *network.EventResponseReceived:
			if e.Type == network.ResourceTypeDocument {
				status.CompareAndSwap(0, e.Response.Status)
			}
		}
	})

	if err := chromedp.Run(tabCtx,
		network.Enable(),
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(rawURL),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %s: %v", ErrPageLoad, rawURL, err)
	}

	select {
	case <-idle:
	case <-tabCtx.Done():
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %s: waiting for network idle: %v", ErrPageLoad, rawURL, tabCtx.Err())
	}

	if err := checkStatus(rawURL, int(status.Load())); err != nil {
		return "", err
	}

	var body string
	if err := chromedp.Run(tabCtx, chromedp.Evaluate("("+bodyHTMLJS+")()", &body)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtract, rawURL, err)
	}
	return body, nil
}

// RenderPDF implements Backend.
func (c *Chromedp) RenderPDF(ctx context.Context, htmlContent string, opts PDFOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	tabCtx, cancel, err := c.newTab(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate("file://"+tmpPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(opts.PaperWidth).
				WithPaperHeight(opts.PaperHeight).
				WithMarginTop(opts.Margin).
				WithMarginRight(opts.Margin).
				WithMarginBottom(opts.Margin).
				WithMarginLeft(opts.Margin).
				WithPrintBackground(opts.PrintBackground).
				Do(ctx)
			return err
		}),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}
