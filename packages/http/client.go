package http

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/courier/packages/metrics"
	"github.com/abdul-hamid-achik/courier/packages/notify"
)

// RequestIDHeader carries the identifier added when WithRequestID is enabled
const RequestIDHeader = "X-Request-Id"

// Client dispatches Requests and classifies their responses. Completion
// handlers run on the client's Executor, one at a time when it is a Queue.
type Client struct {
	session   Doer
	executor  Executor
	notifier  *notify.Center
	logger    Logger
	limiter   *rate.Limiter
	metrics   *metrics.Recorder
	requestID bool
}

type ClientOption func(*Client)

// NewClient creates a client. Without options it uses Session(), Main(),
// notify.Default and DefaultLogger.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.session == nil {
		c.session = Session()
	}
	if c.executor == nil {
		c.executor = Main()
	}
	if c.notifier == nil {
		c.notifier = notify.Default
	}
	if c.logger == nil {
		c.logger = DefaultLogger
	}
	return c
}

// WithSession sets the transport the client submits requests to
func WithSession(d Doer) ClientOption {
	return func(c *Client) {
		c.session = d
	}
}

// WithExecutor sets where completion handlers run
func WithExecutor(e Executor) ClientOption {
	return func(c *Client) {
		c.executor = e
	}
}

// WithNotifier sets the center that receives domain events
func WithNotifier(n *notify.Center) ClientOption {
	return func(c *Client) {
		c.notifier = n
	}
}

func WithLogger(l Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRateLimit spaces exchanges to at most limit per second with the given burst
func WithRateLimit(limit float64, burst int) ClientOption {
	return func(c *Client) {
		if limit > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
		}
	}
}

func WithMetrics(r *metrics.Recorder) ClientOption {
	return func(c *Client) {
		c.metrics = r
	}
}

// WithRequestID adds a random X-Request-Id header to requests lacking one
func WithRequestID(enabled bool) ClientOption {
	return func(c *Client) {
		c.requestID = enabled
	}
}

// Send dispatches req and hands the raw success body to handler. A 403 whose
// body reports status 0 on a non-login URL posts notify.AccountSuspended.
func (c *Client) Send(ctx context.Context, req *Request, handler func(body []byte, err error)) {
	c.dispatch(ctx, req, true, func(resp *Response, err error) func() {
		if err != nil {
			return func() { handler(nil, err) }
		}
		return func() { handler(resp.Body, nil) }
	})
}

// Do is the blocking form of Send
func (c *Client) Do(ctx context.Context, req *Request) ([]byte, error) {
	resp, err := c.Exchange(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Exchange materializes req and performs one blocking exchange. The Response
// is returned alongside a *ServerError so callers can inspect it.
func (c *Client) Exchange(ctx context.Context, req *Request) (*Response, error) {
	p, err := req.Materialize()
	if err != nil {
		return nil, err
	}
	return c.exchange(ctx, p, true)
}

// Get dispatches req and decodes the success body into T. It never posts
// domain events.
func Get[T any](ctx context.Context, c *Client, req *Request, handler func(T, error), opts ...CallOption) {
	call(ctx, c, req, false, handler, opts)
}

// SendCodable is Get with the forbidden side channel of Send
func SendCodable[T any](ctx context.Context, c *Client, req *Request, handler func(T, error), opts ...CallOption) {
	call(ctx, c, req, true, handler, opts)
}

func call[T any](ctx context.Context, c *Client, req *Request, emit bool, handler func(T, error), opts []CallOption) {
	cfg := newCallConfig(opts)
	c.dispatch(ctx, req, emit, func(resp *Response, err error) func() {
		if err != nil {
			var zero T
			return func() { handler(zero, err) }
		}
		v, err := decode[T](resp.Body, cfg)
		return func() { handler(v, err) }
	})
}

func decode[T any](body []byte, cfg *callConfig) (T, error) {
	var out T
	if err := cfg.validate(body); err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		var zero T
		return zero, &DecodeError{Body: body, Err: err}
	}
	return out, nil
}

// dispatch materializes on the calling goroutine, so a bad request never
// reaches the network, then exchanges in the background. finish runs off the
// executor and returns the function delivered on it.
func (c *Client) dispatch(ctx context.Context, req *Request, emit bool, finish func(*Response, error) func()) {
	p, err := req.Materialize()
	if err != nil {
		c.logger.Warnf("http: cannot build request for %s: %v", req.URL, err)
		c.executor.Submit(finish(nil, err))
		return
	}

	go func() {
		resp, err := c.exchange(ctx, p, emit)
		c.executor.Submit(finish(resp, err))
	}()
}

// exchange performs one round trip of p and classifies the response
func (c *Client) exchange(ctx context.Context, p *Prepared, emit bool) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: err}
		}
	}

	httpReq, err := p.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}
	if c.requestID && httpReq.Header.Get(RequestIDHeader) == "" {
		httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	}

	c.logger.Debugf("http: begin request %s %s", p.Method, p.URL.Redacted())

	start := time.Now()
	httpResp, err := c.session.Do(httpReq)
	if err != nil {
		c.observe(p.Method, 0, time.Since(start))
		c.logger.Warnf("http: %s %s failed: %v", p.Method, p.URL.Redacted(), err)
		return nil, &TransportError{Err: err}
	}
	if httpResp == nil || httpResp.Body == nil {
		c.observe(p.Method, 0, time.Since(start))
		return nil, &TransportError{}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	duration := time.Since(start)
	if err != nil {
		c.observe(p.Method, 0, duration)
		return nil, &TransportError{Err: err}
	}
	c.observe(p.Method, httpResp.StatusCode, duration)

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     NewStatus(httpResp.StatusCode),
		Headers:    httpResp.Header,
		Body:       body,
		Duration:   duration,
		Cached:     FromCache(httpResp),
	}
	c.logger.Debugf("http: %s %s -> %d (%s)\n%s", p.Method, p.URL.Redacted(), resp.StatusCode, duration, resp.dump())

	if resp.Status == StatusSuccess {
		return resp, nil
	}

	if resp.Status == StatusForbidden && emit && resp.reportsSuspension() &&
		!strings.Contains(p.URL.String(), "login") {
		c.suspend()
	}
	return resp, &ServerError{Body: body, Status: resp.Status, Code: resp.StatusCode}
}

func (c *Client) suspend() {
	c.logger.Infof("http: account suspended")
	if c.metrics != nil {
		c.metrics.ObserveSuspension()
	}
	c.notifier.Post(notify.AccountSuspended)
}

func (c *Client) observe(method Method, code int, d time.Duration) {
	if c.metrics != nil {
		c.metrics.Observe(string(method), code, d)
	}
}
