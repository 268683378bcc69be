package cmd

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/courier/packages/core/config"
	"github.com/abdul-hamid-achik/courier/packages/http"
)

func resetSendFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		methodFlag, bearerFlag, basicFlag, apiKeyFlag = "", "", "", ""
		signMD5Flag, signFlag, timeoutFlag, cacheFlag = "", "", "", ""
		bodyFlag, schemaFlag, fileFlag = "", "", ""
		paramFlags, headerFlags = nil, nil
		watchFlag, repeatFlag = false, 1
	}
	reset()
	t.Cleanup(reset)
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"a=1", "b=", "c=x=y"}, map[string]any{"a": "0", "z": "keep"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1", "b": nil, "c": "x=y", "z": "keep"}, params)

	_, err = parseParams([]string{"novalue"}, nil)
	assert.Error(t, err)

	_, err = parseParams([]string{"=v"}, nil)
	assert.Error(t, err)
}

func TestAuthorizationFromFlags(t *testing.T) {
	resetSendFlags(t)

	auth, err := authorizationFromFlags()
	require.NoError(t, err)
	assert.Nil(t, auth)

	basicFlag = "user:pa:ss"
	auth, err = authorizationFromFlags()
	require.NoError(t, err)
	assert.Equal(t, http.BasicAuth{Username: "user", Password: "pa:ss"}, auth)

	bearerFlag = "tok"
	_, err = authorizationFromFlags()
	assert.Error(t, err)

	resetSendFlags(t)
	apiKeyFlag = "api_key=k"
	auth, err = authorizationFromFlags()
	require.NoError(t, err)
	assert.Equal(t, http.APIKey{Key: "api_key", Value: "k"}, auth)
}

func TestBuildRequest_FromFlags(t *testing.T) {
	resetSendFlags(t)
	methodFlag = "get"
	paramFlags = []string{"page=2"}
	headerFlags = []string{"X-Client: courier"}
	timeoutFlag = "5s"
	cacheFlag = "reload"
	signMD5Flag = "secret"

	cfg := config.DefaultConfig()
	cfg.Headers = map[string]string{"X-Default": "1"}

	req, schema, err := buildRequest(cfg, []string{"https://api.example.com/items"})
	require.NoError(t, err)

	assert.Equal(t, "", schema)
	assert.Equal(t, "https://api.example.com/items", req.URL)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, 5*time.Second, req.Timeout)
	assert.Equal(t, http.ReloadIgnoringLocalCacheData, req.CachePolicy)
	assert.Equal(t, map[string]any{"page": "2"}, req.Params)
	assert.Equal(t, []http.Header{
		{Key: "X-Default", Value: "1"},
		{Key: "X-Client", Value: "courier"},
	}, req.Headers)
	assert.Equal(t, http.MD5("secret").Content(), req.Signature.Content())
}

func TestBuildRequest_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
		args  []string
	}{
		{name: "no url", setup: func() {}},
		{name: "method", setup: func() { methodFlag = "HEAD" }, args: []string{"https://x.test"}},
		{name: "timeout", setup: func() { timeoutFlag = "later" }, args: []string{"https://x.test"}},
		{name: "cache", setup: func() { cacheFlag = "never" }, args: []string{"https://x.test"}},
		{name: "body", setup: func() { bodyFlag = "{" }, args: []string{"https://x.test"}},
		{name: "header", setup: func() { headerFlags = []string{"nocolon"} }, args: []string{"https://x.test"}},
		{name: "signatures", setup: func() { signFlag, signMD5Flag = "a", "b" }, args: []string{"https://x.test"}},
		{name: "missing file", setup: func() { fileFlag = "/nonexistent/request.yaml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetSendFlags(t)
			tt.setup()
			_, _, err := buildRequest(config.DefaultConfig(), tt.args)
			require.Error(t, err)
			assert.Equal(t, ExitUsageError, exitCode(err))
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{err: nil, expected: ExitSuccess},
		{err: &http.ServerError{Code: 500, Status: http.StatusInternalServerError}, expected: ExitRequestFailure},
		{err: &http.DecodeError{}, expected: ExitRequestFailure},
		{err: &http.TransportError{}, expected: ExitNetworkError},
		{err: http.ErrBadURL, expected: ExitUsageError},
		{err: http.ErrBadRequestAuthorization, expected: ExitUsageError},
		{err: &http.BadRequestParametersError{}, expected: ExitUsageError},
		{err: withExitCode(ExitConfigError, errors.New("bad config")), expected: ExitConfigError},
		{err: errors.Wrap(&http.TransportError{}, "send"), expected: ExitNetworkError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.err), func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCode(tt.err))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250µs", formatDuration(250*time.Microsecond))
	assert.Equal(t, "42ms", formatDuration(42*time.Millisecond))
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", prettyJSON([]byte(`{"a":1}`)))
	assert.Equal(t, "not json", prettyJSON([]byte("not json")))
}
