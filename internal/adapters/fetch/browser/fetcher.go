// Package browser loads share pages in a headless Chrome through the DevTools
// protocol. It is slower than plain HTTP but sees pages that only complete their
// payload after client-side scripts run.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/ports"
)

const DefaultTimeout = 60 * time.Second

type Options struct {
	// ControlURL is the DevTools websocket of a running browser. Empty launches a
	// local headless Chrome for each fetch.
	ControlURL string
	Timeout    time.Duration
	Logger     *zap.Logger
}

type Fetcher struct {
	controlURL string
	timeout    time.Duration
	logger     *zap.Logger
}

var _ ports.PageFetcher = (*Fetcher)(nil)

func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Fetcher{
		controlURL: opts.ControlURL,
		timeout:    opts.Timeout,
		logger:     opts.Logger,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	controlURL := f.controlURL
	owned := controlURL == ""
	if owned {
		l := launcher.New().Context(ctx).Headless(true)
		launched, err := l.Launch()
		if err != nil {
			return "", fmt.Errorf("%w: launch browser: %w", domain.ErrFetch, err)
		}
		defer func() {
			l.Kill()
			l.Cleanup()
		}()
		controlURL = launched
		f.logger.Debug("launched headless browser", zap.String("control_url", controlURL))
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("%w: connect to browser: %w", domain.ErrFetch, err)
	}
	if owned {
		defer func() { _ = browser.Close() }()
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("%w: open page: %w", domain.ErrFetch, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("%w: wait for page load: %w", domain.ErrFetch, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: read page html: %w", domain.ErrFetch, err)
	}
	f.logger.Debug("rendered share page", zap.String("url", url), zap.Int("bytes", len(html)))

	return html, nil
}
