package http

import (
	"encoding/hex"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Response is the result of one completed exchange
type Response struct {
	StatusCode int
	Status     Status
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
	// Cached is set when the session cache served the response
	Cached bool
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.Status == StatusSuccess
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// reportsSuspension reports whether the body is a JSON object whose
// "status" field is the number 0
func (r *Response) reportsSuspension() bool {
	if !gjson.ValidBytes(r.Body) {
		return false
	}
	doc := gjson.ParseBytes(r.Body)
	if !doc.IsObject() {
		return false
	}
	status := doc.Get("status")
	return status.Type == gjson.Number && status.Num == 0
}

// dump renders the body for debug logs: as text when it is valid UTF-8,
// otherwise as a hex dump.
func (r *Response) dump() string {
	if utf8.Valid(r.Body) {
		return string(r.Body)
	}
	return "hex dump of the body\n" + hex.Dump(r.Body)
}
