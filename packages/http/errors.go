package http

import (
	"errors"
	"fmt"
)

var (
	// ErrBadURL means the target could not be encoded or parsed
	ErrBadURL = errors.New("http: bad url")

	// ErrBadRequestAuthorization means a required credential is missing
	ErrBadRequestAuthorization = errors.New("http: missing request authorization")

	// ErrTransport means the exchange produced no usable response
	ErrTransport = errors.New("http: transport error")

	// ErrJSONFormat means a success body could not be decoded
	ErrJSONFormat = errors.New("http: response body is not in the expected json format")
)

// BadRequestParametersError reports a request body that could not be
// serialized. Params holds the caller's parameters before any derived
// values were added; it is nil when the failing body was the request object.
type BadRequestParametersError struct {
	Params map[string]any
	Err    error
}

func (e *BadRequestParametersError) Error() string {
	if e.Params == nil {
		return fmt.Sprintf("http: invalid request body: %v", e.Err)
	}
	return fmt.Sprintf("http: invalid request parameters %v: %v", e.Params, e.Err)
}

func (e *BadRequestParametersError) Unwrap() error {
	return e.Err
}

// TransportError wraps a failure reported by the transport, or stands alone
// when the transport returned neither a response nor an error.
// errors.Is(err, ErrTransport) holds for every TransportError.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return ErrTransport.Error()
	}
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ServerError is any response whose status is not StatusSuccess. The body is
// kept so callers can inspect the server's explanation.
type ServerError struct {
	Body   []byte
	Status Status
	Code   int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("http: server error with status code %d", e.Code)
}

// DecodeError is a success response whose body did not decode into the
// requested type. errors.Is(err, ErrJSONFormat) holds for every DecodeError.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", ErrJSONFormat, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrJSONFormat
}
