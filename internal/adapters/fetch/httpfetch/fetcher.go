// Package httpfetch downloads share pages over plain HTTP with browser-like
// headers, retrying transport failures.
package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/ports"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 6

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes = 32 << 20

	defaultInitialInterval = 500 * time.Millisecond
)

type Options struct {
	// Timeout bounds each attempt.
	Timeout     time.Duration
	MaxAttempts uint
	UserAgent   string
	// InitialInterval is the first retry delay.
	InitialInterval time.Duration
	Client          *http.Client
	Logger          *zap.Logger
}

type Fetcher struct {
	client          *http.Client
	maxAttempts     uint
	userAgent       string
	initialInterval time.Duration
	logger          *zap.Logger
}

var _ ports.PageFetcher = (*Fetcher)(nil)

func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = defaultInitialInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &Fetcher{
		client:          client,
		maxAttempts:     opts.MaxAttempts,
		userAgent:       opts.UserAgent,
		initialInterval: opts.InitialInterval,
		logger:          opts.Logger,
	}
}

// Fetch returns the body of a 200 response for url. Only transport errors are
// retried; any other status fails at once.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.initialInterval

	attempt := 0
	operation := func() (string, error) {
		attempt++
		return f.fetchOnce(ctx, url)
	}

	page, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(f.maxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			f.logger.Warn("fetch attempt failed",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", next),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		if errors.Is(err, domain.ErrFetch) {
			return "", err
		}
		return "", fmt.Errorf("%w: failed to fetch share link: %w", domain.ErrFetch, err)
	}

	return page, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("%w: build request: %w", domain.ErrFetch, err))
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(err)
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", backoff.Permanent(fmt.Errorf("%w: failed to fetch share link: HTTP %s", domain.ErrFetch, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if len(body) > MaxBodyBytes {
		return "", backoff.Permanent(fmt.Errorf("%w: response body exceeds %d bytes", domain.ErrFetch, MaxBodyBytes))
	}

	return string(body), nil
}

func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Referer", "https://chatgpt.com/")
}
