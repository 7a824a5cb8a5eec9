package httpfetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/bnema/chat-distiller/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestFetcher(t *testing.T, client *http.Client, attempts uint) *Fetcher {
	t.Helper()

	if client != nil {
		t.Cleanup(client.CloseIdleConnections)
	}

	return New(Options{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		Client:          client,
		Logger:          zaptest.NewLogger(t),
	})
}

func TestFetchReturnsBodyAndSendsBrowserHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	fetcher := newTestFetcher(t, server.Client(), 1)

	page, err := fetcher.Fetch(context.Background(), server.URL+"/share/abc")
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", page)

	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	assert.Equal(t, "en-US,en;q=0.9", got.Get("Accept-Language"))
	assert.Equal(t, "no-cache", got.Get("Cache-Control"))
	assert.Equal(t, "no-cache", got.Get("Pragma"))
	assert.Equal(t, "https://chatgpt.com/", got.Get("Referer"))
	assert.Contains(t, got.Get("Accept"), "text/html")
}

func TestFetchDoesNotRetryStatusErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := newTestFetcher(t, server.Client(), 6)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "HTTP 404 Not Found")
	assert.Equal(t, int32(1), calls.Load())
}

// flakyTransport returns a dial error for its first failures calls.
type flakyTransport struct {
	failures int32
	calls    atomic.Int32
	next     http.RoundTripper
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.calls.Add(1) <= f.failures {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	}
	return f.next.RoundTrip(req)
}

func TestFetchRetriesTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("eventually"))
	}))
	defer server.Close()

	transport := &flakyTransport{failures: 2, next: server.Client().Transport}
	client := &http.Client{Transport: transport}
	t.Cleanup(server.Client().CloseIdleConnections)

	fetcher := newTestFetcher(t, client, 6)

	page, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "eventually", page)
	assert.Equal(t, int32(3), transport.calls.Load())
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	transport := &flakyTransport{failures: 100, next: server.Client().Transport}
	fetcher := newTestFetcher(t, &http.Client{Transport: transport}, 3)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, int32(3), transport.calls.Load())
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chunk := strings.Repeat("a", 1<<20)
		for i := 0; i <= MaxBodyBytes>>20; i++ {
			if _, err := w.Write([]byte(chunk)); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	fetcher := newTestFetcher(t, server.Client(), 2)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestFetchStopsOnCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	fetcher := newTestFetcher(t, server.Client(), 6)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.Fetch(ctx, server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrFetch))
}

func TestNewAppliesDefaults(t *testing.T) {
	fetcher := New(Options{})

	assert.Equal(t, uint(DefaultMaxAttempts), fetcher.maxAttempts)
	assert.Equal(t, DefaultUserAgent, fetcher.userAgent)
	assert.Equal(t, DefaultTimeout, fetcher.client.Timeout)
}
