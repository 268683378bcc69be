// Package http builds and dispatches JSON API requests.
//
// A Request describes one call declaratively:
//   - Target URL, method, timeout and cache policy
//   - Parameters, sent in the query for GET/DELETE and as a JSON body otherwise
//   - Explicit headers applied over the defaults
//   - Bearer, basic or API key authorization
//   - An optional digest or plain signature
//
// Request.Materialize turns it into a Prepared request. A Client submits the
// Prepared request to its session and classifies the response into the
// success value or one of the errors declared in errors.go. Completion
// handlers run on the client's Executor.
package http
