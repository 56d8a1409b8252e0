package operation

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/erraggy/oasbind/internal/stringutil"
	"github.com/erraggy/oasbind/oaserrors"
	"github.com/erraggy/oasbind/primitive"
)

// Request is a fully bound request. Everything it sends, including the
// encoded body and the multipart boundary, is fixed when the operation is
// called, so a Request can be prepared and sent any number of times with
// the same result. A Request is never modified after Call returns and may
// be shared between goroutines.
type Request struct {
	op          *Operation
	method      string
	scheme      string
	host        string
	basePath    string
	path        string
	query       url.Values
	header      http.Header
	accept      []string
	contentType string
	boundary    string
	body        []byte
	value       primitive.Value
}

// Operation returns the operation the request was built from.
func (r *Request) Operation() *Operation { return r.op }

// Method returns the upper-case HTTP method.
func (r *Request) Method() string { return r.method }

// Scheme returns the URL scheme.
func (r *Request) Scheme() string { return r.scheme }

// Host returns the host the request is addressed to ("host" or "host:port").
func (r *Request) Host() string { return r.host }

// Path returns the rendered path including the base path, e.g. "/api/pet/1".
func (r *Request) Path() string {
	base := strings.TrimSuffix(r.basePath, "/")
	return base + r.path
}

// Query returns a copy of the query parameters.
func (r *Request) Query() url.Values {
	out := make(url.Values, len(r.query))
	for k, v := range r.query {
		out[k] = slices.Clone(v)
	}
	return out
}

// Header returns a copy of the request's own headers.
func (r *Request) Header() http.Header { return r.header.Clone() }

// Accept returns the media types the request accepts.
func (r *Request) Accept() []string { return slices.Clone(r.accept) }

// ContentType returns the Content-Type of the body, or "" without a body.
func (r *Request) ContentType() string { return r.contentType }

// Boundary returns the multipart boundary, or "" for other bodies.
func (r *Request) Boundary() string { return r.boundary }

// Body returns a copy of the encoded body.
func (r *Request) Body() []byte { return slices.Clone(r.body) }

// Value returns the typed body parameter, or nil.
func (r *Request) Value() primitive.Value { return r.value }

// URL returns the request URL addressed to the declared host.
func (r *Request) URL() *url.URL { return r.url(r.host) }

func (r *Request) url(host string) *url.URL {
	escaped := r.Path()
	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		decoded = escaped
	}
	return &url.URL{
		Scheme:   r.scheme,
		Host:     host,
		Path:     decoded,
		RawPath:  escaped,
		RawQuery: r.query.Encode(),
	}
}

// PrepareOptions adjust how a Request is rendered for one send.
type PrepareOptions struct {
	// Netloc replaces the host (and port) of the URL.
	Netloc string
	// JoinHeaders sends multi-valued headers as a single comma-separated line.
	JoinHeaders bool
	// Headers are merged over the request's own headers.
	Headers Headers
}

// Wire is the rendered form of a Request handed to a transport.
type Wire struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Prepare renders the request. It does not modify r: the returned Wire owns
// its header and body, and calling Prepare again with the same options
// yields an identical Wire.
func (r *Request) Prepare(opts PrepareOptions) (*Wire, error) {
	host := r.host
	if opts.Netloc != "" {
		if !stringutil.IsValidNetloc(opts.Netloc) {
			return nil, &oaserrors.ConfigError{
				Option:  "url_netloc",
				Value:   opts.Netloc,
				Message: "expected host or host:port",
			}
		}
		host = opts.Netloc
	}
	if host == "" {
		return nil, &oaserrors.ConfigError{
			Option:  "url_netloc",
			Message: "document declares no host and none was given for " + r.op.ID(),
		}
	}

	header := r.header.Clone()
	if opts.Headers != nil {
		opts.Headers.mergeInto(header)
	}
	if opts.JoinHeaders {
		joinValues(header)
	}

	return &Wire{
		Method: r.method,
		URL:    r.url(host),
		Header: header,
		Body:   slices.Clone(r.body),
	}, nil
}
