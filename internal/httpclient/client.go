// Package httpclient is a small JSON-over-HTTP client that recovers from
// expired credentials. When a request is rejected with 401, the client runs a
// single credential refresh, aborts every other request in flight and
// replays all of them once the refresh has settled.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Doer executes a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenFunc returns the bearer token to attach to the next attempt. An empty
// token sends no Authorization header.
type TokenFunc func(ctx context.Context) (string, error)

// RefreshFunc renews credentials after a 401. It is never invoked
// concurrently with itself.
type RefreshFunc func(ctx context.Context) error

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport used for every attempt.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithDefaultHeaders adds headers sent with every request. Per-request
// headers take precedence.
func WithDefaultHeaders(h http.Header) Option {
	return func(c *Client) {
		for k, vs := range h {
			for _, v := range vs {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithTokenFunc sets the bearer token source.
func WithTokenFunc(f TokenFunc) Option {
	return func(c *Client) { c.token = f }
}

// WithRefreshFunc sets the credential refresh invoked after a 401.
func WithRefreshFunc(f RefreshFunc) Option {
	return func(c *Client) { c.refresh = f }
}

// WithRateLimit throttles attempts, replays included.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// WithLogger sets the logger for coordinator events.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client coordinates requests against one base URL. It is safe for
// concurrent use.
type Client struct {
	baseURL string
	headers http.Header
	doer    Doer
	token   TokenFunc
	refresh RefreshFunc
	limiter *rate.Limiter
	logger  *log.Logger

	mu       sync.Mutex
	inflight map[*pending]struct{}
	cycle    *refreshCycle // nil while idle
}

// refreshCycle is one credential refresh. done is closed when it settles and
// err is only read after that.
type refreshCycle struct {
	done chan struct{}
	err  error
}

// pending is a request owned by the client from submission until it settles.
type pending struct {
	id     string
	method string
	url    string
	body   []byte
	header http.Header
	caller context.Context

	// written under Client.mu by the owning goroutine
	cancel    *Cancellation
	abortedBy *refreshCycle
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// New returns a Client for baseURL. Relative request paths are joined to it.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		headers:  make(http.Header),
		doer:     http.DefaultClient,
		logger:   log.New(io.Discard),
		inflight: make(map[*pending]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the URL relative paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, header http.Header) (*Result, error) {
	return c.Do(ctx, http.MethodGet, path, nil, header)
}

// Post issues a POST request with body encoded as JSON. A nil body sends no
// payload.
func (c *Client) Post(ctx context.Context, path string, body any, header http.Header) (*Result, error) {
	return c.withJSON(ctx, http.MethodPost, path, body, header)
}

// Put issues a PUT request with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body any, header http.Header) (*Result, error) {
	return c.withJSON(ctx, http.MethodPut, path, body, header)
}

// Patch issues a PATCH request with body encoded as JSON.
func (c *Client) Patch(ctx context.Context, path string, body any, header http.Header) (*Result, error) {
	return c.withJSON(ctx, http.MethodPatch, path, body, header)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, header http.Header) (*Result, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, header)
}

// Head issues a HEAD request.
func (c *Client) Head(ctx context.Context, path string, header http.Header) (*Result, error) {
	return c.Do(ctx, http.MethodHead, path, nil, header)
}

// Options issues an OPTIONS request.
func (c *Client) Options(ctx context.Context, path string, header http.Header) (*Result, error) {
	return c.Do(ctx, http.MethodOptions, path, nil, header)
}

func (c *Client) withJSON(ctx context.Context, method, path string, body any, header http.Header) (*Result, error) {
	if body == nil {
		return c.Do(ctx, method, path, nil, header)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	header = header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}
	return c.Do(ctx, method, path, data, header)
}

// Do sends a request and settles it. A request arriving while a refresh is
// running waits for the refresh first and fails with its error if it fails. Errors are ErrAborted when ctx ends,
// *StatusError for non-2xx responses, the refresh error when credential
// renewal fails, or the transport error.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, header http.Header) (*Result, error) {
	if err := c.waitIdle(ctx); err != nil {
		return nil, err
	}

	p := &pending{
		id:     uuid.NewString(),
		method: strings.ToUpper(method),
		url:    c.resolve(path),
		body:   body,
		header: header.Clone(),
		caller: ctx,
	}
	return c.execute(p)
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

func (c *Client) waitIdle(ctx context.Context) error {
	c.mu.Lock()
	cycle := c.cycle
	c.mu.Unlock()
	if cycle == nil {
		return nil
	}

	return c.await(ctx, cycle)
}

func (c *Client) execute(p *pending) (*Result, error) {
	replayed := false
	for {
		resp, abortedBy, err := c.attempt(p)

		if p.caller.Err() != nil {
			c.logger.Debug("request aborted by caller", "id", p.id, "method", p.method, "url", p.url)
			return nil, abortedErr(p.caller)
		}

		if err != nil {
			if abortedBy == nil || !p.cancel.ForReplay() {
				return nil, err
			}
			if err := c.await(p.caller, abortedBy); err != nil {
				return nil, err
			}
			c.logger.Debug("replaying aborted request", "id", p.id, "method", p.method, "url", p.url)
			replayed = true
			continue
		}

		if resp.status == http.StatusUnauthorized {
			if replayed {
				return nil, &StatusError{StatusCode: resp.status, Body: string(resp.body)}
			}
			cycle := abortedBy
			if cycle == nil {
				cycle = c.joinRefresh(p)
			}
			if err := c.await(p.caller, cycle); err != nil {
				return nil, err
			}
			c.logger.Debug("replaying unauthorized request", "id", p.id, "method", p.method, "url", p.url)
			replayed = true
			continue
		}

		return newResult(resp)
	}
}

// attempt performs one round trip while p is registered as in flight. It
// returns the refresh cycle that aborted p during the attempt, if any.
func (c *Client) attempt(p *pending) (*response, *refreshCycle, error) {
	cancel := NewCancellation(p.caller)
	defer cancel.Release()

	c.mu.Lock()
	p.cancel = cancel
	p.abortedBy = nil
	c.inflight[p] = struct{}{}
	c.mu.Unlock()

	resp, err := c.send(cancel.Context(), p)

	c.mu.Lock()
	delete(c.inflight, p)
	abortedBy := p.abortedBy
	c.mu.Unlock()

	return resp, abortedBy, err
}

func (c *Client) send(ctx context.Context, p *pending) (*response, error) {
	var body io.Reader
	if p.body != nil {
		body = bytes.NewReader(p.body)
	}
	req, err := http.NewRequestWithContext(ctx, p.method, p.url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range p.header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching bearer token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	c.logger.Debug("sending request", "id", p.id, "method", p.method, "url", p.url)
	res, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", p.method, p.url, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return &response{status: res.StatusCode, header: res.Header, body: data}, nil
}

// joinRefresh returns the running refresh cycle or starts one. Starting a
// cycle aborts every request currently in flight so it is replayed with the
// new credentials.
func (c *Client) joinRefresh(p *pending) *refreshCycle {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cycle != nil {
		return c.cycle
	}

	cycle := &refreshCycle{done: make(chan struct{})}
	c.cycle = cycle

	aborted := 0
	for q := range c.inflight {
		if q.cancel.ByCaller() {
			continue
		}
		q.abortedBy = cycle
		q.cancel.Abort()
		aborted++
	}
	c.logger.Info("credentials rejected, refreshing", "id", p.id, "aborted", aborted)

	go c.runRefresh(p.caller, cycle)
	return cycle
}

// runRefresh is detached from the triggering caller: cancelling that request
// must not fail the others waiting on the same cycle.
func (c *Client) runRefresh(ctx context.Context, cycle *refreshCycle) {
	var err error
	if c.refresh != nil {
		err = c.refresh(context.WithoutCancel(ctx))
	}
	if err != nil {
		c.logger.Warn("credential refresh failed", "err", err)
	} else {
		c.logger.Debug("credential refresh succeeded")
	}

	c.mu.Lock()
	cycle.err = err
	c.cycle = nil
	c.mu.Unlock()
	close(cycle.done)
}

// await blocks until cycle settles. Caller cancellation wins over both
// outcomes of the refresh.
func (c *Client) await(ctx context.Context, cycle *refreshCycle) error {
	select {
	case <-cycle.done:
		if ctx.Err() != nil {
			return abortedErr(ctx)
		}
		if cycle.err != nil {
			return fmt.Errorf("refreshing credentials: %w", cycle.err)
		}
		return nil
	case <-ctx.Done():
		return abortedErr(ctx)
	}
}

func newResult(resp *response) (*Result, error) {
	if resp.status < 200 || resp.status > 299 {
		return nil, &StatusError{StatusCode: resp.status, Body: string(resp.body)}
	}

	res := &Result{StatusCode: resp.status, Header: resp.header}
	if !isJSON(resp.header.Get("Content-Type")) {
		res.Kind = KindText
		res.Text = string(resp.body)
		return res, nil
	}

	res.Kind = KindJSON
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return res, nil
	}
	if !json.Valid(resp.body) {
		return nil, errors.New("decoding JSON response: invalid body")
	}
	res.JSON = json.RawMessage(resp.body)
	return res, nil
}
