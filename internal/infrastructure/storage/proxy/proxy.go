// Package proxy fetches a remote URL on behalf of a client, following a
// bounded number of redirects and aborting transfers that stall.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"file-uploader/internal/domain/blob"
)

const (
	DefaultMaxRedirects = 5
	DefaultIdleTimeout  = 30 * time.Second
)

var (
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrTimeout          = errors.New("upstream inactivity timeout")
)

type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded %d", e.StatusCode)
}

type (
	Fetcher struct {
		log          *zap.Logger
		client       *http.Client
		maxRedirects int
		idleTimeout  time.Duration
	}
	Option func(*Fetcher)
)

func WithIdleTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.idleTimeout = d }
}

func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) { f.maxRedirects = n }
}

// WithTransport replaces the round tripper; redirects are still handled
// by the fetcher itself.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) { f.client.Transport = rt }
}

func New(logger *zap.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		log: logger,
		client: &http.Client{
			Transport: passthroughTransport(),
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		maxRedirects: DefaultMaxRedirects,
		idleTimeout:  DefaultIdleTimeout,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch returns the body of the final 2xx response. The caller must close
// it. Cancelling ctx aborts the upstream transfer.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*blob.Object, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := newWatchdog(f.idleTimeout, cancel)

	fail := func(err error) (*blob.Object, error) {
		w.stop()
		cancel()
		if w.expired() {
			return nil, ErrTimeout
		}
		return nil, err
	}

	target := rawURL
	for hop := 0; ; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fail(err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return fail(err)
		}
		w.reset()

		if isRedirect(resp.StatusCode) {
			loc := resp.Header.Get("Location")
			drain(resp.Body)
			if loc == "" {
				return fail(&UpstreamError{StatusCode: resp.StatusCode})
			}
			if hop >= f.maxRedirects {
				return fail(ErrTooManyRedirects)
			}

			next, err := resp.Request.URL.Parse(loc)
			if err != nil {
				return fail(fmt.Errorf("bad redirect location %q: %w", loc, err))
			}
			f.log.Debug("following redirect",
				zap.Int("hop", hop+1),
				zap.Int("status", resp.StatusCode),
				zap.String("host", next.Host),
			)
			target = next.String()
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			drain(resp.Body)
			return fail(&UpstreamError{StatusCode: resp.StatusCode})
		}

		return &blob.Object{
			Body:               &idleBody{rc: resp.Body, w: w, cancel: cancel},
			Size:               resp.ContentLength,
			ContentType:        resp.Header.Get("Content-Type"),
			ContentDisposition: resp.Header.Get("Content-Disposition"),
			ContentEncoding:    resp.Header.Get("Content-Encoding"),
		}, nil
	}
}

// passthroughTransport never negotiates compression, so encoded bodies
// reach the client byte for byte along with their Content-Length.
func passthroughTransport() http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DisableCompression = true
	return t
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func drain(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4<<10))
	_ = rc.Close()
}

// watchdog cancels the transfer when no progress is seen for d.
type watchdog struct {
	d     time.Duration
	timer *time.Timer
	fired atomic.Bool
}

func newWatchdog(d time.Duration, cancel context.CancelFunc) *watchdog {
	w := &watchdog{d: d}
	w.timer = time.AfterFunc(d, func() {
		w.fired.Store(true)
		cancel()
	})
	return w
}

func (w *watchdog) reset() {
	if !w.fired.Load() {
		w.timer.Reset(w.d)
	}
}

func (w *watchdog) stop()         { w.timer.Stop() }
func (w *watchdog) expired() bool { return w.fired.Load() }

type idleBody struct {
	rc     io.ReadCloser
	w      *watchdog
	cancel context.CancelFunc
}

func (b *idleBody) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	if n > 0 {
		b.w.reset()
	}
	if err != nil && err != io.EOF && b.w.expired() {
		return n, ErrTimeout
	}
	return n, err
}

func (b *idleBody) Close() error {
	b.w.stop()
	b.cancel()
	return b.rc.Close()
}
