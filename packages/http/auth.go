package http

import (
	"encoding/base64"
	"net/http"
)

// Authorization is one of BearerToken, BasicAuth or APIKey.
type Authorization interface {
	// apply sets the credential on header, or on params when it travels
	// in the query. params may be nil on entry.
	apply(method Method, header http.Header, params map[string]any) (map[string]any, error)
}

// BearerToken sends "Authorization: Bearer <token>". A nil Token fails
// materialization with ErrBadRequestAuthorization.
type BearerToken struct {
	Token *string
}

// Bearer is shorthand for a BearerToken holding token
func Bearer(token string) BearerToken {
	return BearerToken{Token: &token}
}

func (a BearerToken) apply(_ Method, header http.Header, params map[string]any) (map[string]any, error) {
	if a.Token == nil {
		return params, ErrBadRequestAuthorization
	}
	header.Set("Authorization", "Bearer "+*a.Token)
	return params, nil
}

// BasicAuth sends "Authorization: Basic base64(username:password)"
type BasicAuth struct {
	Username string
	Password string
}

func (a BasicAuth) apply(_ Method, header http.Header, params map[string]any) (map[string]any, error) {
	creds := a.Username + ":" + a.Password
	encoded := base64.StdEncoding.EncodeToString([]byte(creds))
	header.Set("Authorization", "Basic "+encoded)
	return params, nil
}

// APIKey sends Key=Value as a query parameter on GET and as a header
// otherwise.
type APIKey struct {
	Key   string
	Value string
}

func (a APIKey) apply(method Method, header http.Header, params map[string]any) (map[string]any, error) {
	if method != MethodGet {
		header.Set(a.Key, a.Value)
		return params, nil
	}
	if params == nil {
		params = make(map[string]any, 1)
	}
	params[a.Key] = a.Value
	return params, nil
}
