package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/erraggy/oasbind"
	"github.com/erraggy/oasbind/operation"
	"github.com/erraggy/oasbind/spec"
)

// Adapter sends a bound request and returns what came back. Send must not
// modify req, so one request can be sent through an adapter repeatedly.
type Adapter interface {
	Send(ctx context.Context, req *operation.Request, opts ...SendOption) (*operation.RawResponse, error)
}

// Request sends req through a and parses the reply with resp.
func Request(ctx context.Context, a Adapter, req *operation.Request, resp *operation.Response, opts ...SendOption) (*operation.Result, error) {
	raw, err := a.Send(ctx, req, opts...)
	if err != nil {
		return nil, err
	}
	return resp.Parse(raw)
}

// HTTPClient is an Adapter over net/http.
type HTTPClient struct {
	httpClient  *http.Client
	userAgent   string
	logger      spec.Logger
	editors     []RequestEditorFn
	maxBodySize int64
}

var _ Adapter = (*HTTPClient)(nil)

// New creates an HTTPClient. Without options it uses http.DefaultClient and
// sends oasbind.UserAgent().
func New(opts ...Option) (*HTTPClient, error) {
	c := &HTTPClient{
		httpClient:  http.DefaultClient,
		userAgent:   oasbind.UserAgent(),
		logger:      spec.NopLogger{},
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Send implements Adapter. Cancellation and timeouts follow ctx and the
// underlying http.Client.
func (c *HTTPClient) Send(ctx context.Context, req *operation.Request, opts ...SendOption) (*operation.RawResponse, error) {
	po, err := PrepareOptions(opts...)
	if err != nil {
		return nil, err
	}
	wire, err := req.Prepare(po)
	if err != nil {
		return nil, err
	}

	var body io.Reader = http.NoBody
	if len(wire.Body) > 0 {
		body = bytes.NewReader(wire.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, wire.Method, wire.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("client: failed to create request: %w", err)
	}
	httpReq.Header = wire.Header
	if c.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	for _, edit := range c.editors {
		if err := edit(ctx, httpReq); err != nil {
			return nil, fmt.Errorf("client: request editor failed: %w", err)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", wire.Method, wire.URL.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("client: failed to read response body: %w", err)
	}
	if int64(len(data)) > c.maxBodySize {
		return nil, fmt.Errorf("client: response body exceeds maximum size (%d bytes)", c.maxBodySize)
	}

	spec.NewContextLogger(ctx, c.logger).Debug("sent request",
		"operation", req.Operation().ID(),
		"method", wire.Method,
		"url", wire.URL.Redacted(),
		"status", resp.StatusCode)

	return &operation.RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Request sends req and parses the reply with resp.
func (c *HTTPClient) Request(ctx context.Context, req *operation.Request, resp *operation.Response, opts ...SendOption) (*operation.Result, error) {
	return Request(ctx, c, req, resp, opts...)
}
