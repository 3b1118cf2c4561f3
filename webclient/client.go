// Package webclient is a small non-blocking HTTP client. Performing a request
// returns a [Single]: nothing is sent until it's subscribed to, and each
// subscription emits exactly one response (or one error) before completing.
package webclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderRequestID is set on every request that doesn't already carry one.
const HeaderRequestID = "X-Request-Id"

// maxDrain bounds how much of an unread body is discarded to keep the
// connection reusable.
const maxDrain = 256 << 10

// Client performs requests. The zero value isn't usable; construct one with
// New.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	header     http.Header
}

// Option configures a Client.
type Option func(c *Client)

// WithHTTPClient sets the underlying [http.Client]. The default is
// [http.DefaultClient].
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger logs every exchange at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDefaultHeader adds a header to every request that doesn't set it.
func WithDefaultHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// New constructs a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
		header:     make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Perform prepares an exchange. The request isn't sent until the exchange's
// result is subscribed to.
func (c *Client) Perform(req *RequestBuilder) *Exchange {
	return &Exchange{client: c, request: req}
}

// An Exchange is a prepared request. Use Extract to turn it into a typed
// result, or Response for the raw [http.Response].
type Exchange struct {
	client  *Client
	request *RequestBuilder
}

// Response returns a Single emitting the raw response. Subscribers own the
// response body and must close it; prefer Extract, which always does. If
// Block returns early because its context is done, a response that arrives
// afterwards is closed for the caller. Callers reading Subscribe's channel
// directly must drain it.
func (e *Exchange) Response() *Single[*http.Response] {
	s := Defer(e.do)
	s.discard = func(res *http.Response) {
		if res != nil && res.Body != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxDrain))
			res.Body.Close()
		}
	}
	return s
}

func (e *Exchange) do(ctx context.Context) (*http.Response, error) {
	req, err := e.request.Build(ctx)
	if err != nil {
		return nil, err
	}
	for key, values := range e.client.header {
		if _, ok := req.Header[key]; !ok {
			req.Header[key] = append([]string(nil), values...)
		}
	}
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	start := time.Now()
	res, err := e.client.httpClient.Do(req)
	if err != nil {
		e.client.logger.Debug("exchange failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.String("request_id", req.Header.Get(HeaderRequestID)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	e.client.logger.Debug("exchange completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(HeaderRequestID)),
		zap.Int("status", res.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return res, nil
}

// Extract returns a Single that performs the exchange and applies fn to the
// response. The response body is drained and closed on every path, whether fn
// succeeds, fails, or panics.
func Extract[T any](e *Exchange, fn Extractor[T]) *Single[T] {
	return Defer(func(ctx context.Context) (T, error) {
		res, err := e.do(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		defer drainAndClose(res.Body)
		return fn(res)
	})
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrain))
	_ = body.Close()
}
