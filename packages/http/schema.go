package http

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// callConfig holds the options of a typed call
type callConfig struct {
	schema gojsonschema.JSONLoader
}

// CallOption configures Get and SendCodable
type CallOption func(*callConfig)

// WithSchema validates a success body against the JSON schema document
// before decoding it. A body that does not conform is a *DecodeError.
func WithSchema(schema string) CallOption {
	return func(c *callConfig) {
		c.schema = gojsonschema.NewStringLoader(schema)
	}
}

func newCallConfig(opts []CallOption) *callConfig {
	c := &callConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// validate checks body against the configured schema, if any
func (c *callConfig) validate(body []byte) error {
	if c.schema == nil {
		return nil
	}

	result, err := gojsonschema.Validate(c.schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &DecodeError{Body: body, Err: err}
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return &DecodeError{
		Body: body,
		Err:  fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; ")),
	}
}
