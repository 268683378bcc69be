package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/courier/packages/notify"
)

func cachingServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "max-age=60")
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func newCachingClient() *Client {
	return NewClient(
		WithSession(NewSession(SessionConfig{})),
		WithExecutor(Immediate),
		WithNotifier(notify.NewCenter()),
		WithLogger(DiscardLogger),
	)
}

func TestSession_ProtocolPolicyServesFromCache(t *testing.T) {
	server, hits := cachingServer(t)
	c := newCachingClient()

	first, err := c.Exchange(context.Background(), NewRequest(server.URL, WithMethod(MethodGet)))
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := c.Exchange(context.Background(), NewRequest(server.URL, WithMethod(MethodGet)))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, `{"id":1}`, second.BodyString())

	assert.Equal(t, int32(1), hits.Load())
}

func TestSession_ReloadPolicyBypassesCache(t *testing.T) {
	server, hits := cachingServer(t)
	c := newCachingClient()

	for i := 0; i < 2; i++ {
		resp, err := c.Exchange(context.Background(), NewRequest(server.URL,
			WithMethod(MethodGet),
			WithCachePolicy(ReloadIgnoringLocalCacheData),
		))
		require.NoError(t, err)
		assert.False(t, resp.Cached)
	}

	assert.Equal(t, int32(2), hits.Load())
}

func TestSession_CacheOnlyWithEmptyCache(t *testing.T) {
	server, hits := cachingServer(t)
	c := newCachingClient()

	resp, err := c.Exchange(context.Background(), NewRequest(server.URL,
		WithMethod(MethodGet),
		WithCachePolicy(ReturnCacheDataDontLoad),
	))

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusGatewayTimeout, serverErr.Code)
	assert.Equal(t, StatusUnknown, serverErr.Status)
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	assert.Equal(t, int32(0), hits.Load())
}

func TestSession_NoCache(t *testing.T) {
	server, hits := cachingServer(t)
	c := newTestClient(notify.NewCenter())

	for i := 0; i < 2; i++ {
		resp, err := c.Exchange(context.Background(), NewRequest(server.URL, WithMethod(MethodGet)))
		require.NoError(t, err)
		assert.False(t, resp.Cached)
	}

	assert.Equal(t, int32(2), hits.Load())
}

func TestSession_Singleton(t *testing.T) {
	assert.Same(t, Session(), Session())
}

func TestFromCache(t *testing.T) {
	assert.False(t, FromCache(nil))
	assert.False(t, FromCache(&http.Response{Header: http.Header{}}))
	assert.True(t, FromCache(&http.Response{Header: http.Header{"X-From-Cache": []string{"1"}}}))
}
