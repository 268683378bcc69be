package http

// Status is the classification of a response status code. Codes the
// dispatcher does not distinguish collapse to StatusUnknown.
type Status int

const (
	StatusUnknown Status = 0

	StatusSuccess Status = 200

	StatusPermanentRedirect Status = 301
	StatusTemporaryRedirect Status = 302

	StatusBadRequest    Status = 400
	StatusNotAuthorized Status = 401
	StatusForbidden     Status = 403
	StatusNotFound      Status = 404

	StatusInternalServerError Status = 500
	StatusServiceUnavailable  Status = 503
)

// StatusClass groups statuses by their leading digit
type StatusClass int

const (
	ClassUnknown StatusClass = iota
	ClassInformational
	ClassSuccess
	ClassRedirect
	ClassClientError
	ClassServerError
)

// NewStatus classifies a numeric status code
func NewStatus(code int) Status {
	switch s := Status(code); s {
	case StatusSuccess,
		StatusPermanentRedirect, StatusTemporaryRedirect,
		StatusBadRequest, StatusNotAuthorized, StatusForbidden, StatusNotFound,
		StatusInternalServerError, StatusServiceUnavailable:
		return s
	default:
		return StatusUnknown
	}
}

// Class returns the status group. StatusUnknown has no group.
func (s Status) Class() StatusClass {
	switch {
	case s >= 100 && s < 200:
		return ClassInformational
	case s >= 200 && s < 300:
		return ClassSuccess
	case s >= 300 && s < 400:
		return ClassRedirect
	case s >= 400 && s < 500:
		return ClassClientError
	case s >= 500 && s < 600:
		return ClassServerError
	default:
		return ClassUnknown
	}
}

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPermanentRedirect:
		return "permanent redirect"
	case StatusTemporaryRedirect:
		return "temporary redirect"
	case StatusBadRequest:
		return "bad request"
	case StatusNotAuthorized:
		return "not authorized"
	case StatusForbidden:
		return "forbidden"
	case StatusNotFound:
		return "not found"
	case StatusInternalServerError:
		return "internal server error"
	case StatusServiceUnavailable:
		return "service unavailable"
	default:
		return "unknown"
	}
}

func (c StatusClass) String() string {
	switch c {
	case ClassInformational:
		return "informational"
	case ClassSuccess:
		return "success"
	case ClassRedirect:
		return "redirect"
	case ClassClientError:
		return "client error"
	case ClassServerError:
		return "server error"
	default:
		return "unknown"
	}
}
