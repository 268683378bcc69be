package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

// CachePolicy selects how the session cache treats a request
type CachePolicy int

const (
	// UseProtocolCachePolicy follows the response cache headers
	UseProtocolCachePolicy CachePolicy = iota
	// ReloadIgnoringLocalCacheData always goes to the network
	ReloadIgnoringLocalCacheData
	// ReturnCacheDataElseLoad accepts any cached response however stale
	ReturnCacheDataElseLoad
	// ReturnCacheDataDontLoad never goes to the network
	ReturnCacheDataDontLoad
)

var cachePolicyNames = map[CachePolicy]string{
	UseProtocolCachePolicy:       "protocol",
	ReloadIgnoringLocalCacheData: "reload",
	ReturnCacheDataElseLoad:      "cache-else-load",
	ReturnCacheDataDontLoad:      "cache-only",
}

func (p CachePolicy) String() string {
	if name, ok := cachePolicyNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseCachePolicy accepts the names returned by CachePolicy.String
func ParseCachePolicy(s string) (CachePolicy, bool) {
	for p, name := range cachePolicyNames {
		if strings.EqualFold(name, s) {
			return p, true
		}
	}
	return UseProtocolCachePolicy, false
}

// directive is the request Cache-Control value expressing p
func (p CachePolicy) directive() string {
	switch p {
	case ReloadIgnoringLocalCacheData:
		return "no-cache"
	case ReturnCacheDataElseLoad:
		return "max-stale"
	case ReturnCacheDataDontLoad:
		return "only-if-cached"
	default:
		return ""
	}
}

// Prepared is a materialized Request, ready for the transport
type Prepared struct {
	Method      Method
	URL         *neturl.URL
	Header      http.Header
	Body        []byte
	Timeout     time.Duration
	CachePolicy CachePolicy
}

// HTTPRequest builds the wire request. The cache policy becomes a
// Cache-Control directive unless that header was set explicitly.
func (p *Prepared) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if len(p.Body) > 0 {
		body = bytes.NewReader(p.Body)
	}

	req, err := http.NewRequestWithContext(ctx, string(p.Method), p.URL.String(), body)
	if err != nil {
		return nil, ErrBadURL
	}
	req.Header = p.Header.Clone()

	if d := p.CachePolicy.directive(); d != "" && req.Header.Get("Cache-Control") == "" {
		req.Header.Set("Cache-Control", d)
	}
	return req, nil
}

// timeout returns the exchange deadline, falling back to DefaultTimeout
func (p *Prepared) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}
