package pdf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Nonie001/chns/internal/config"
)

// A4 in inches, 20mm margins, matching the documents the system has always
// produced.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
	marginIn      = 0.79
)

// Printer converts rendered HTML to PDF bytes.
type Printer interface {
	PrintHTML(ctx context.Context, html string) ([]byte, error)
}

// Engine drives a single headless Chrome shared serially across requests.
// The browser is expensive to start, so it is launched lazily and reused;
// a failed launch drops the cached handle so the next call retries cleanly.
type Engine struct {
	mu sync.Mutex

	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc

	chromePath   string
	renderBudget time.Duration
	log          *zap.Logger
}

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
	LC  fx.Lifecycle
}

func NewEngine(p Params) Printer {
	budget := time.Duration(p.Cfg.RenderBudget) * time.Second
	if budget <= 0 {
		budget = 30 * time.Second
	}
	e := &Engine{
		chromePath:   p.Cfg.ChromePath,
		renderBudget: budget,
		log:          p.Log.Named("receipt.pdf"),
	}
	p.LC.Append(fx.Hook{
		OnStop: func(context.Context) error {
			e.shutdown()
			return nil
		},
	})
	return e
}

func (e *Engine) PrintHTML(ctx context.Context, html string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	browser, err := e.ensureBrowser()
	if err != nil {
		e.reset()
		return nil, fmt.Errorf("renderer launch: %w", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(browser)
	defer cancelTab()
	tabCtx, cancelBudget := context.WithTimeout(tabCtx, e.renderBudget)
	defer cancelBudget()

	// Respect a tighter caller deadline if one is set.
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}

	var pdf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("set content: %w", err)
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("pdf export: %w", err)
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		// A dead browser poisons every future render; drop it so the next
		// call relaunches.
		e.reset()
		return nil, err
	}
	return pdf, nil
}

// ensureBrowser lazily launches Chrome. Callers hold e.mu.
func (e *Engine) ensureBrowser() (context.Context, error) {
	if e.browserCtx != nil && e.browserCtx.Err() == nil {
		return e.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(e.chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserStop := chromedp.NewContext(allocCtx)

	// Force the browser process up now so launch failures surface here
	// instead of on the first print action.
	if err := chromedp.Run(browserCtx); err != nil {
		browserStop()
		allocCancel()
		return nil, err
	}

	e.allocCtx = allocCtx
	e.allocCancel = allocCancel
	e.browserCtx = browserCtx
	e.browserStop = browserStop
	e.log.Info("headless renderer started")
	return e.browserCtx, nil
}

// reset drops the cached browser handle. Callers hold e.mu.
func (e *Engine) reset() {
	if e.browserStop != nil {
		e.browserStop()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	e.allocCtx = nil
	e.allocCancel = nil
	e.browserCtx = nil
	e.browserStop = nil
}

func (e *Engine) shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}
