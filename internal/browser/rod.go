package browser

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-site2pdf/internal/fileutil"
	"github.com/alnah/go-site2pdf/internal/process"
)

// Rod implements Backend with go-rod.
// Rod downloads a managed Chromium on first run if none is found.
type Rod struct {
	opts     Options
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewRod creates a Rod backend. The browser starts on first use.
func NewRod(opts Options) *Rod {
	return &Rod{opts: opts.withDefaults()}
}

// ensureBrowser lazily launches and connects to Chrome.
func (r *Rod) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if r.opts.BrowserBin != "" {
		l = l.Bin(r.opts.BrowserBin)
	}
	if r.opts.NoSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	r.launcher = l
	r.browser = b
	return nil
}

// Close releases the browser and kills its process tree.
func (r *Rod) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// Fetch implements Backend.
func (r *Rod) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.ensureBrowser(); err != nil {
		return "", err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	pageCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	p := page.Context(pageCtx)

	// Subscriptions must exist before navigation starts.
	status := make(chan int, 1)
	go p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		select {
		case status <- e.Response.Status:
		default:
		}
		return true
	})()
	waitIdle := p.WaitRequestIdle(r.opts.IdleWindow, nil, nil, nil)

	if err := p.Navigate(rawURL); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrPageLoad, rawURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrPageLoad, rawURL, err)
	}
	waitIdle()
	if err := pageCtx.Err(); err != nil {
		return "", fmt.Errorf("%w: %s: waiting for network idle: %v", ErrPageLoad, rawURL, err)
	}

	select {
	case code := <-status:
		if err := checkStatus(rawURL, code); err != nil {
			return "", err
		}
	default:
	}

	res, err := p.Eval(bodyHTMLJS)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtract, rawURL, err)
	}
	return res.Value.Str(), nil
}

// RenderPDF implements Backend. The document is written to a temp file and
// opened through file:// so Chrome loads it like any other page.
func (r *Rod) RenderPDF(ctx context.Context, htmlContent string, opts PDFOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	pageCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	p := page.Context(pageCtx)

	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := p.PDF(buildRodPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// buildRodPDFOptions maps PDFOptions to the CDP print parameters.
func buildRodPDFOptions(opts PDFOptions) *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(opts.PaperWidth),
		PaperHeight:     floatPtr(opts.PaperHeight),
		MarginTop:       floatPtr(opts.Margin),
		MarginBottom:    floatPtr(opts.Margin),
		MarginLeft:      floatPtr(opts.Margin),
		MarginRight:     floatPtr(opts.Margin),
		PrintBackground: opts.PrintBackground,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
