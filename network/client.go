// Package network provides the HTTP client shared by the catalog, playlist and segment stages.
//
// Every request carries the session cookies and a browser User-Agent. Idempotent
// requests are retried on transient failures with exponential backoff.
package network

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/session"
)

const (
	defaultTimeout = 2 * time.Minute
	defaultBackoff = 500 * time.Millisecond
)

// Options configures a Client.
type Options struct {
	Cookies session.Cookies
	// Retries is the number of retries after the first attempt.
	Retries int
	// Backoff is the delay before the first retry; it doubles on each subsequent one.
	Backoff time.Duration
	// Timeout bounds a single request including its body.
	Timeout time.Duration
	// Impersonate routes requests through a browser TLS fingerprint.
	Impersonate bool
}

// Client performs session-authenticated requests.
type Client struct {
	HTTP *http.Client

	// OnRequest, when set, is called before every logical request (not per retry).
	OnRequest func(url string)
}

// New builds a Client from options.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var base http.RoundTripper = newTransport()
	if opts.Impersonate {
		base = newImpersonator()
	}

	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
			Transport: &Transport{
				Base:    base,
				Cookies: opts.Cookies,
				Retries: opts.Retries,
				Backoff: opts.Backoff,
			},
		},
	}
}

// newTransport initializes a tuned http.Transport with pool and timeout parameters suited to segment downloads.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 16
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

// Transport decorates a base RoundTripper with session cookies and bounded retries.
type Transport struct {
	Base    http.RoundTripper
	Cookies session.Cookies
	Retries int
	Backoff time.Duration
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	// Only replayable requests are retried.
	retries := t.Retries
	if retries < 0 || (req.Method != http.MethodGet && req.Method != http.MethodHead) || req.Body != nil {
		retries = 0
	}

	backoff := t.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; ; attempt++ {
		r := req.Clone(req.Context())
		if r.Header.Get("User-Agent") == "" {
			r.Header.Set("User-Agent", constant.UserAgent)
		}
		t.Cookies.Apply(r)

		resp, err = t.Base.RoundTrip(r)
		if attempt >= retries || !transient(resp, err) || req.Context().Err() != nil {
			return resp, err
		}

		if resp != nil {
			_ = resp.Body.Close()
		}

		if werr := wait(req.Context(), backoff<<attempt); werr != nil {
			return nil, werr
		}
	}
}

// transient reports whether a failed attempt is worth repeating.
func transient(resp *http.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
