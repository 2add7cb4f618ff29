// Package testutil provides helpers for testing GraphQL HTTP handlers.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// RequestBuilder constructs GraphQL-over-HTTP test requests.
type RequestBuilder struct {
	method    string
	path      string
	query     string
	operation string
	variables map[string]any
	body      []byte
	headers   map[string]string
}

// NewRequest returns a builder for a POST to /graphql.
func NewRequest(query string) *RequestBuilder {
	return &RequestBuilder{
		method:  http.MethodPost,
		path:    "/graphql",
		query:   query,
		headers: make(map[string]string),
	}
}

// GET sends the request as query parameters.
func (b *RequestBuilder) GET() *RequestBuilder {
	b.method = http.MethodGet
	return b
}

// Method sets an arbitrary HTTP method.
func (b *RequestBuilder) Method(m string) *RequestBuilder {
	b.method = m
	return b
}

// Operation sets operationName.
func (b *RequestBuilder) Operation(name string) *RequestBuilder {
	b.operation = name
	return b
}

// Var sets a variable.
func (b *RequestBuilder) Var(name string, value any) *RequestBuilder {
	if b.variables == nil {
		b.variables = make(map[string]any)
	}
	b.variables[name] = value
	return b
}

// WithBody replaces the encoded request with a raw body.
func (b *RequestBuilder) WithBody(body string) *RequestBuilder {
	b.body = []byte(body)
	return b
}

// WithHeader adds a header.
func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.headers[key] = value
	return b
}

// Build returns the request and a recorder for its response.
func (b *RequestBuilder) Build() (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if b.method == http.MethodGet {
		q := url.Values{}
		q.Set("query", b.query)
		if b.operation != "" {
			q.Set("operationName", b.operation)
		}
		if b.variables != nil {
			vars, _ := json.Marshal(b.variables)
			q.Set("variables", string(vars))
		}
		req = httptest.NewRequest(b.method, b.path+"?"+q.Encode(), nil)
	} else {
		body := b.body
		if body == nil {
			body, _ = json.Marshal(map[string]any{
				"query":         b.query,
				"operationName": b.operation,
				"variables":     b.variables,
			})
		}
		req = httptest.NewRequest(b.method, b.path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	return req, httptest.NewRecorder()
}

// Serve builds the request and serves it with h.
func (b *RequestBuilder) Serve(h http.Handler) *httptest.ResponseRecorder {
	req, w := b.Build()
	h.ServeHTTP(w, req)
	return w
}

// Response is a decoded GraphQL response body.
type Response struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

// Decode decodes the recorded body as a GraphQL response.
func Decode(t *testing.T, w *httptest.ResponseRecorder) *Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v\nBody: %s", err, w.Body.String())
	}
	return &resp
}

// AssertStatus checks the response status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Errorf("expected status %d, got %d\nBody: %s", want, w.Code, w.Body.String())
	}
}

// AssertErrorCode checks that the first error carries extensions.code want.
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	resp := Decode(t, w)
	if len(resp.Errors) == 0 {
		t.Fatalf("expected error %s, got none\nBody: %s", want, w.Body.String())
	}
	if got := resp.Errors[0].Extensions["code"]; got != want {
		t.Errorf("expected error code %s, got %v (message: %s)", want, got, resp.Errors[0].Message)
	}
}
