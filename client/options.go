package client

import (
	"context"
	"net/http"

	"github.com/erraggy/oasbind/internal/stringutil"
	"github.com/erraggy/oasbind/oaserrors"
	"github.com/erraggy/oasbind/operation"
	"github.com/erraggy/oasbind/spec"
)

// DefaultMaxBodySize is the largest response body read by default (10 MiB).
const DefaultMaxBodySize int64 = 10 << 20

// RequestEditorFn can modify an HTTP request before it is sent.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// Option is a functional option for configuring an HTTPClient.
type Option func(*HTTPClient) error

// WithHTTPClient sets the HTTP client used to send requests.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) error {
		if c == nil {
			return &oaserrors.ConfigError{Option: "WithHTTPClient", Message: "http client cannot be nil"}
		}
		h.httpClient = c
		return nil
	}
}

// WithUserAgent sets the User-Agent header value. An empty value sends no
// User-Agent of its own.
func WithUserAgent(ua string) Option {
	return func(h *HTTPClient) error {
		h.userAgent = ua
		return nil
	}
}

// WithLogger sets the logger for sent requests.
// A nil logger is replaced by spec.NopLogger.
func WithLogger(l spec.Logger) Option {
	return func(h *HTTPClient) error {
		if l == nil {
			l = spec.NopLogger{}
		}
		h.logger = l
		return nil
	}
}

// WithRequestEditor adds a request editor function. Editors run in the
// order they were added, after the request headers are set.
func WithRequestEditor(fn RequestEditorFn) Option {
	return func(h *HTTPClient) error {
		if fn == nil {
			return &oaserrors.ConfigError{Option: "WithRequestEditor", Message: "editor cannot be nil"}
		}
		h.editors = append(h.editors, fn)
		return nil
	}
}

// WithMaxBodySize limits the size of response bodies.
func WithMaxBodySize(n int64) Option {
	return func(h *HTTPClient) error {
		if n <= 0 {
			return &oaserrors.ConfigError{Option: "WithMaxBodySize", Value: n, Message: "must be positive"}
		}
		h.maxBodySize = n
		return nil
	}
}

// SendOption adjusts a single send.
type SendOption func(*operation.PrepareOptions) error

// WithURLNetloc sends the request to netloc ("host" or "host:port")
// instead of the host the document declares.
func WithURLNetloc(netloc string) SendOption {
	return func(o *operation.PrepareOptions) error {
		if !stringutil.IsValidNetloc(netloc) {
			return &oaserrors.ConfigError{Option: "url_netloc", Value: netloc, Message: "expected host or host:port"}
		}
		o.Netloc = netloc
		return nil
	}
}

// WithJoinHeaders controls whether multi-valued headers are sent as one
// comma-separated line.
func WithJoinHeaders(join bool) SendOption {
	return func(o *operation.PrepareOptions) error {
		o.JoinHeaders = join
		return nil
	}
}

// WithHeaders merges extra headers into the request. Use
// operation.HeaderMap for single values and operation.HeaderPairs to send a
// name more than once. When given several times, the last one applies.
func WithHeaders(h operation.Headers) SendOption {
	return func(o *operation.PrepareOptions) error {
		o.Headers = h
		return nil
	}
}

// PrepareOptions applies opts in order. Adapters other than HTTPClient use it
// to honor the same send options.
func PrepareOptions(opts ...SendOption) (operation.PrepareOptions, error) {
	var po operation.PrepareOptions
	for _, opt := range opts {
		if err := opt(&po); err != nil {
			return operation.PrepareOptions{}, err
		}
	}
	return po, nil
}
