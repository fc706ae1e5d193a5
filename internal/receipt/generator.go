package receipt

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Nonie001/chns/internal/clock"
	"github.com/Nonie001/chns/internal/config"
	"github.com/Nonie001/chns/internal/observability/tracing"
	"github.com/Nonie001/chns/internal/receipt/pdf"
	"github.com/Nonie001/chns/internal/receipt/render"
	settingsdomain "github.com/Nonie001/chns/internal/settings/domain"
)

// ErrRenderFailed marks a rendering-engine failure. It is retryable: the
// approval pipeline aborts before any state has been written.
var ErrRenderFailed = errors.New("receipt_render_failed")

const imageFetchTimeout = 2 * time.Second

type Params struct {
	fx.In

	Renderer render.Renderer
	Printer  pdf.Printer
	Settings settingsdomain.Service
	Clock    clock.Clock
	Cfg      config.Config
	Log      *zap.Logger
}

// Generator turns a donation snapshot into receipt PDF bytes. It is the one
// rendering path in the system: preview and approval both call it, so both
// produce the same document for the same snapshot.
type Generator struct {
	renderer render.Renderer
	printer  pdf.Printer
	settings settingsdomain.Service
	clock    clock.Clock
	log      *zap.Logger
	client   *http.Client

	logoPath string
	logoMu   sync.Mutex
	logoData string
}

func NewGenerator(p Params) *Generator {
	return &Generator{
		renderer: p.Renderer,
		printer:  p.Printer,
		settings: p.Settings,
		clock:    p.Clock,
		log:      p.Log.Named("receipt.generator"),
		client:   tracing.WrapHTTPClient(&http.Client{Timeout: imageFetchTimeout}),
		logoPath: p.Cfg.LogoPath,
	}
}

// Generate renders the fixed receipt layout for one donation snapshot.
func (g *Generator) Generate(ctx context.Context, donation render.DonationView) ([]byte, error) {
	input := render.ReceiptInput{
		Donation:    donation,
		Signer:      g.signerView(ctx),
		LogoDataURL: g.loadLogo(),
		GeneratedAt: g.clock.Now(),
	}

	html, err := g.renderer.RenderHTML(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	buf, err := g.printer.PrintHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return buf, nil
}

// signerView loads signature metadata. Any fetch failure renders the block
// blank with the automatic-issuance caption instead.
func (g *Generator) signerView(ctx context.Context) render.SignerView {
	name, title, imageURL := g.settings.Signer(ctx)
	view := render.SignerView{Name: name, Title: title}
	if imageURL == "" {
		return view
	}

	data, contentType, err := g.fetchImage(ctx, imageURL)
	if err != nil {
		g.log.Warn("signature image fetch failed, rendering without it", zap.Error(err))
		return view
	}
	view.ImageDataURL = toDataURL(contentType, data)
	return view
}

func (g *Generator) fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, imageFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// loadLogo reads the branding image once and caches the data URL. A missing
// logo file renders the receipt without branding.
func (g *Generator) loadLogo() string {
	g.logoMu.Lock()
	defer g.logoMu.Unlock()

	if g.logoData != "" || g.logoPath == "" {
		return g.logoData
	}
	data, err := os.ReadFile(g.logoPath)
	if err != nil {
		g.log.Warn("logo not found, rendering without it", zap.String("path", g.logoPath))
		return ""
	}
	g.logoData = toDataURL("image/png", data)
	return g.logoData
}

func toDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

var Module = fx.Module("receipt",
	fx.Provide(render.NewRenderer),
	fx.Provide(pdf.NewEngine),
	fx.Provide(NewGenerator),
)
