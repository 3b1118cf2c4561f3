package webclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// A RequestBuilder describes a request to perform. Build it with Get, Post,
// Put, Delete, or Method, then refine it with the chainable setters.
type RequestBuilder struct {
	method   string
	template string
	args     []any
	header   http.Header
	query    url.Values
	body     []byte
}

// Method starts a request with an arbitrary method. The URL may contain
// "{name}" placeholders, which are replaced by args in order after path
// escaping:
//
//	webclient.Get("http://localhost:{port}/", port)
func Method(method, urlTemplate string, args ...any) *RequestBuilder {
	return &RequestBuilder{
		method:   method,
		template: urlTemplate,
		args:     args,
		header:   make(http.Header),
		query:    make(url.Values),
	}
}

// Get starts a GET request. See Method for the URL template syntax.
func Get(urlTemplate string, args ...any) *RequestBuilder {
	return Method(http.MethodGet, urlTemplate, args...)
}

// Post starts a POST request. See Method for the URL template syntax.
func Post(urlTemplate string, args ...any) *RequestBuilder {
	return Method(http.MethodPost, urlTemplate, args...)
}

// Put starts a PUT request. See Method for the URL template syntax.
func Put(urlTemplate string, args ...any) *RequestBuilder {
	return Method(http.MethodPut, urlTemplate, args...)
}

// Delete starts a DELETE request. See Method for the URL template syntax.
func Delete(urlTemplate string, args ...any) *RequestBuilder {
	return Method(http.MethodDelete, urlTemplate, args...)
}

// Accept sets the Accept header to the given media types.
func (b *RequestBuilder) Accept(types ...MediaType) *RequestBuilder {
	values := make([]string, len(types))
	for i, t := range types {
		values[i] = t.String()
	}
	b.header.Set("Accept", strings.Join(values, ", "))
	return b
}

// Header sets a request header, replacing any existing values.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	b.header.Set(key, value)
	return b
}

// Query adds a query parameter. Values are appended to any parameters already
// present in the URL template.
func (b *RequestBuilder) Query(key, value string) *RequestBuilder {
	b.query.Add(key, value)
	return b
}

// Body sets the request body and its Content-Type.
func (b *RequestBuilder) Body(contentType MediaType, body []byte) *RequestBuilder {
	b.header.Set("Content-Type", contentType.String())
	b.body = body
	return b
}

// Build expands the URL template and constructs the request.
func (b *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	raw, err := expandTemplate(b.template, b.args)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if len(b.query) > 0 {
		q := u.Query()
		for key, values := range b.query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	var body io.Reader
	if b.body != nil {
		body = bytes.NewReader(b.body)
	}
	req, err := http.NewRequestWithContext(ctx, b.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", b.method, err)
	}
	req.Header = b.header.Clone()
	return req, nil
}

func expandTemplate(template string, args []any) (string, error) {
	var (
		sb   strings.Builder
		used int
	)
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("url template %q: unclosed placeholder", template)
		}
		if used >= len(args) {
			return "", fmt.Errorf("url template %q: missing value for %s", template, rest[open:open+end+1])
		}
		sb.WriteString(rest[:open])
		sb.WriteString(url.PathEscape(fmt.Sprint(args[used])))
		used++
		rest = rest[open+end+1:]
	}
	if used != len(args) {
		return "", fmt.Errorf("url template %q: %d placeholders, %d values", template, used, len(args))
	}
	return sb.String(), nil
}
