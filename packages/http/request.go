package http

import (
	"encoding/json"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

// DefaultTimeout is applied when a Request carries no timeout
const DefaultTimeout = 60 * time.Second

// Method is the HTTP method of a Request
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// ParseMethod returns the Method named by s, case-insensitively
func ParseMethod(s string) (Method, bool) {
	switch m := Method(strings.ToUpper(s)); m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return m, true
	}
	return "", false
}

// carriesBody reports whether parameters travel in the body rather than the query
func (m Method) carriesBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	}
	return false
}

// Header is one explicit request header
type Header struct {
	Key   string
	Value string
}

// Request describes one HTTP call. The zero value with a URL set is a POST
// with the default timeout. A Request is not modified by Materialize and may
// be materialized any number of times.
type Request struct {
	URL         string
	Method      Method
	Timeout     time.Duration
	CachePolicy CachePolicy

	// Params are sent in the query for GET and DELETE and as a JSON object
	// body otherwise. A nil value is sent as null, or as an empty query value.
	Params map[string]any

	// Body is encoded as the JSON body when Params is nil
	Body any

	// Headers are applied in order after the defaults, so they may replace them
	Headers []Header

	Auth      Authorization
	Signature Signature

	// Locale derives the "lang" parameter. Empty uses ProcessLocale.
	Locale string
}

type RequestOption func(*Request)

// NewRequest creates a POST request for url with the default timeout
func NewRequest(url string, opts ...RequestOption) *Request {
	r := &Request{
		URL:     url,
		Method:  MethodPost,
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithMethod(m Method) RequestOption {
	return func(r *Request) {
		r.Method = m
	}
}

func WithTimeout(d time.Duration) RequestOption {
	return func(r *Request) {
		r.Timeout = d
	}
}

func WithCachePolicy(p CachePolicy) RequestOption {
	return func(r *Request) {
		r.CachePolicy = p
	}
}

func WithParams(params map[string]any) RequestOption {
	return func(r *Request) {
		r.Params = params
	}
}

// WithBody sets the object encoded as the JSON body when no params are set
func WithBody(body any) RequestOption {
	return func(r *Request) {
		r.Body = body
	}
}

// WithHeader appends an explicit header
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		r.Headers = append(r.Headers, Header{Key: key, Value: value})
	}
}

func WithAuthorization(auth Authorization) RequestOption {
	return func(r *Request) {
		r.Auth = auth
	}
}

func WithSignature(sig Signature) RequestOption {
	return func(r *Request) {
		r.Signature = sig
	}
}

func WithLocale(locale string) RequestOption {
	return func(r *Request) {
		r.Locale = locale
	}
}

func (r *Request) method() Method {
	if r.Method == "" {
		return MethodPost
	}
	return r.Method
}

func (r *Request) language() string {
	if r.Locale != "" {
		return languageIdentifier(r.Locale)
	}
	return languageIdentifier(ProcessLocale())
}

// Materialize turns r into a transport-ready request. It fails with
// ErrBadURL, ErrBadRequestAuthorization or *BadRequestParametersError.
func (r *Request) Materialize() (*Prepared, error) {
	encoded, err := encodeTarget(r.URL)
	if err != nil {
		return nil, err
	}

	// concatenated onto the encoded string rather than added as a query item
	if sig, ok := r.Signature.(DigestSignature); ok {
		encoded += "&signature=" + sig.Content()
	}

	u, err := parseTarget(encoded)
	if err != nil {
		return nil, err
	}

	method := r.method()
	p := &Prepared{
		Method:      method,
		URL:         u,
		Header:      make(http.Header),
		Timeout:     r.Timeout,
		CachePolicy: r.CachePolicy,
	}
	p.Header.Set("Content-Type", "application/json")

	if sig, ok := r.Signature.(PlainSignature); ok {
		p.Header.Set("Signature", sig.Content())
	}

	for _, h := range r.Headers {
		p.Header.Set(h.Key, h.Value)
	}

	params := copyParams(r.Params)
	if r.Auth != nil {
		params, err = r.Auth.apply(method, p.Header, params)
		if err != nil {
			return nil, err
		}
	}

	if params == nil {
		if r.Body != nil {
			body, err := json.Marshal(r.Body)
			if err != nil {
				return nil, &BadRequestParametersError{Err: err}
			}
			p.Body = body
		}
		return p, nil
	}

	params["lang"] = r.language()

	if method.carriesBody() {
		body, err := json.Marshal(params)
		if err != nil {
			return nil, &BadRequestParametersError{Params: r.Params, Err: err}
		}
		p.Body = body
		return p, nil
	}

	final, err := neturl.Parse(encoded)
	if err != nil {
		return nil, ErrBadURL
	}
	final.RawQuery = encodeQuery(params)
	p.URL = final
	return p, nil
}

// parseTarget parses an encoded target and requires an absolute http(s) URL
func parseTarget(encoded string) (*neturl.URL, error) {
	if encoded == "" {
		return nil, ErrBadURL
	}
	u, err := neturl.Parse(encoded)
	if err != nil {
		return nil, ErrBadURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrBadURL
	}
	if u.Host == "" {
		return nil, ErrBadURL
	}
	return u, nil
}

// copyParams returns a shallow copy of params, or nil when params is nil
func copyParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	return out
}
