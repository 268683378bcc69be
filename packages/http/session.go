package http

import (
	"net/http"
	"sync"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/gregjones/httpcache"
	httpmemcache "github.com/gregjones/httpcache/memcache"
)

// Doer executes wire requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CacheBackend names where the session keeps cached responses
type CacheBackend string

const (
	CacheMemory   CacheBackend = "memory"
	CacheMemcache CacheBackend = "memcache"
	CacheNone     CacheBackend = "none"
)

// SessionConfig configures NewSession
type SessionConfig struct {
	// Cache defaults to CacheMemory
	Cache CacheBackend

	// MemcacheServers are used when Cache is CacheMemcache
	MemcacheServers []string

	// Transport is the network round tripper beneath the cache. Nil uses
	// a clone of http.DefaultTransport.
	Transport http.RoundTripper
}

// NewSession builds an HTTP client whose transport honours the Cache-Control
// directives derived from each request's CachePolicy.
func NewSession(cfg SessionConfig) *http.Client {
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}

	var cache httpcache.Cache
	switch cfg.Cache {
	case CacheNone:
		return &http.Client{Transport: base}
	case CacheMemcache:
		cache = httpmemcache.NewWithClient(memcache.New(cfg.MemcacheServers...))
	default:
		cache = httpcache.NewMemoryCache()
	}

	transport := httpcache.NewTransport(cache)
	transport.Transport = base
	return &http.Client{Transport: transport}
}

var (
	sessionOnce sync.Once
	session     *http.Client
)

// Session returns the process-wide client, creating it with an in-memory
// cache on first use. It is never torn down.
func Session() *http.Client {
	sessionOnce.Do(func() {
		session = NewSession(SessionConfig{Cache: CacheMemory})
	})
	return session
}

// FromCache reports whether resp was served by the session cache
func FromCache(resp *http.Response) bool {
	return resp != nil && resp.Header.Get(httpcache.XFromCache) == "1"
}
