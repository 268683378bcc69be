package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/courier/packages/http"
)

// Exit codes for courier CLI
const (
	// ExitSuccess indicates the request succeeded
	ExitSuccess = 0

	// ExitRequestFailure indicates a server error or an undecodable response
	ExitRequestFailure = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage or a request that cannot be built
	ExitUsageError = 64
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode maps an error returned by a command to the process exit code
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	var paramsErr *http.BadRequestParametersError
	switch {
	case errors.Is(err, http.ErrTransport):
		return ExitNetworkError
	case errors.Is(err, http.ErrBadURL),
		errors.Is(err, http.ErrBadRequestAuthorization),
		errors.As(err, &paramsErr):
		return ExitUsageError
	default:
		return ExitRequestFailure
	}
}
