// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/graveyard/internal/logging"
	"github.com/tomtom215/graveyard/internal/metrics"
)

// SiteRoot is the base URL every relative fetch resolves against (§4.2
// "get(url, base=SITE_ROOT)").
const SiteRoot = "https://www.douban.com"

// loginPathMarker identifies the site's login wall; a redirect chain that
// lands on a URL containing this substring is treated as a pseudo-403
// (§4.2, glossary "Forbidden").
const loginPathMarker = "accounts/login"

const (
	defaultTimeout    = 5 * time.Second
	defaultMaxRetries = 5
)

// Config configures one worker's Fetcher (§4.2).
type Config struct {
	// SessionCookie is the raw Cookie header value copied from the
	// account's browser session.
	SessionCookie string

	// ProxyURL is optional; an empty string means the worker's primary,
	// direct connection (§4.8 "one primary worker plus one per proxy").
	ProxyURL string

	// RequestsPerMinute paces this Fetcher's own clock; global throttling
	// is the product of worker count and per-worker RPM (§4.2).
	RequestsPerMinute int

	// Timeout bounds a single request attempt. Zero means defaultTimeout.
	Timeout time.Duration

	// MaxRetries bounds transport-error retries. Zero means
	// defaultMaxRetries.
	MaxRetries int
}

// Response is what Fetcher.Get returns on a 2xx outcome.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	FinalURL   string
}

// Fetcher is one worker's HTTP session: its own client, cookie jar, rate
// limiter and retry budget (§4.7 "own HTTP session... own pacing clock").
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     Config
}

// New builds a Fetcher from cfg. The returned client never follows a
// redirect automatically past the first hop whose target looks like the
// login wall, nor past a 10-hop redirect chain; CheckRedirect intercepts
// both cases by returning ErrSessionInvalid directly (§7 error kind 3),
// so doOnce can classify them without relying on net/http's == comparison
// against http.ErrUseLastResponse, which a wrapped error would defeat.
func New(cfg Config) (*Fetcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("fetcher: new cookie jar: %w", err)
	}
	root, err := url.Parse(SiteRoot)
	if err != nil {
		return nil, fmt.Errorf("fetcher: parse site root: %w", err)
	}
	jar.SetCookies(root, parseCookieHeader(cfg.SessionCookie))

	transport := &http.Transport{}
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("fetcher: parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Jar:       jar,
		Transport: transport,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if strings.Contains(req.URL.Path, loginPathMarker) {
				return http.ErrUseLastResponse
			}
			if len(via) >= 10 {
				return ErrSessionInvalid
			}
			return nil
		},
	}

	// requests_per_minute paces one request every 60/rpm seconds with no
	// burst allowance, matching §4.2's "wait = max(0, lastRequestAt +
	// 60/rpm - now)" sleep-then-stamp pacing.
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)

	return &Fetcher{client: client, limiter: limiter, cfg: cfg}, nil
}

// Get resolves rel against base (SiteRoot if base is empty), paces the
// request against the Fetcher's rate limiter, and issues a GET with the
// headers §4.2 requires. It returns ErrSessionInvalid if the response was
// redirected to the login wall, nil (no error) if every retry against a
// transport error was exhausted, or the 4xx/5xx http.Response error
// directly — those are not retried (§4.2 "Any 4xx/5xx that is not an
// auth-wall redirect... give up (no retry on HTTPError)").
func (f *Fetcher) Get(ctx context.Context, rel string, base string) (*Response, error) {
	target, err := resolveURL(rel, base)
	if err != nil {
		return nil, fmt.Errorf("fetcher: resolve url %q: %w", rel, err)
	}

	var lastErr error
	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.RecordFetchRetry("transport_error")
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetcher: rate limiter wait: %w", err)
		}

		start := time.Now()
		resp, err := f.doOnce(ctx, target)
		if err == nil {
			metrics.RecordFetch(time.Since(start), "ok")
			return resp, nil
		}

		if err == ErrSessionInvalid {
			metrics.RecordFetch(time.Since(start), "forbidden")
			metrics.RecordForbidden()
			return nil, err
		}

		var httpErr *HTTPError
		if asHTTPError(err, &httpErr) {
			metrics.RecordFetch(time.Since(start), "http_error")
			logging.Warn().Str("url", target).Int("status", httpErr.StatusCode).Msg("fetcher: http error, not retrying")
			return nil, err
		}

		lastErr = err
		logging.Debug().Str("url", target).Int("attempt", attempt).Err(err).Msg("fetcher: transport error, retrying")
	}

	metrics.RecordFetch(0, "exhausted")
	logging.Warn().Str("url", target).Err(lastErr).Msg("fetcher: retries exhausted, returning nil")
	return nil, nil
}

// HTTPError wraps a non-2xx, non-login-wall response (§7 error kind 2).
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetcher: http %d fetching %s", e.StatusCode, e.URL)
}

func asHTTPError(err error, target **HTTPError) bool {
	he, ok := err.(*HTTPError)
	if ok {
		*target = he
	}
	return ok
}

func (f *Fetcher) doOnce(ctx context.Context, target string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("fetcher: build request: %w", err)
	}
	applyHeaders(req, target)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrSessionInvalid) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("fetcher: do request: %w", err)
	}
	defer resp.Body.Close()

	if isForbiddenRedirect(resp) {
		return nil, ErrSessionInvalid
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("fetcher: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: target}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}

// maxBodyBytes caps a single response body; the site's HTML/JSON pages
// never approach this, it only guards against a misbehaving proxy.
const maxBodyBytes = 32 << 20

// isForbiddenRedirect reports whether resp is the CheckRedirect short
// circuit on a login-wall hop, or a direct 3xx whose Location already
// points at the login wall (some endpoints redirect straight there rather
// than via an intermediate hop).
func isForbiddenRedirect(resp *http.Response) bool {
	if resp.Request != nil && resp.Request.URL != nil && strings.Contains(resp.Request.URL.Path, loginPathMarker) {
		return true
	}
	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		if loc := resp.Header.Get("Location"); strings.Contains(loc, loginPathMarker) {
			return true
		}
	}
	return false
}

func resolveURL(rel, base string) (string, error) {
	if base == "" {
		base = SiteRoot
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	relURL, err := url.Parse(rel)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(relURL).String(), nil
}

func parseCookieHeader(raw string) []*http.Cookie {
	header := http.Header{}
	header.Add("Cookie", raw)
	req := http.Request{Header: header}
	return req.Cookies()
}
