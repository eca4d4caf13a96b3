package vend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	defaultTimeout          = 15 * time.Second
	defaultUserAgent        = "go-vend"
	defaultMaxResponseBytes = 10 << 20
	headerRequestID         = "X-Request-ID"
)

// Client issues requests against the vending API. Every request goes
// through the same pipeline: the session token is attached as a bearer
// credential, a 401 tears the session down and navigates to login, and a
// response that outlived its session is discarded.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	session     *SessionStore
	loginPath   string
	logger      Logger
	metrics     *Metrics
	userAgent   string
	requestID   func() string
	maxResponse int64
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records pipeline metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRequestIDGenerator overrides the X-Request-ID generator.
func WithRequestIDGenerator(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// WithMaxResponseBytes limits how much of a response body is read. Larger
// bodies fail as malformed responses.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponse = n
		}
	}
}

// NewClient creates a client bound to session. A nil session behaves as an
// environment without client storage.
func NewClient(cfg Config, session *SessionStore, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, goerrors.New("client config is required", goerrors.CategoryBadInput).
			WithTextCode(TextCodeInvalidConfig)
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.GetBaseURL()), "/")
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, goerrors.New("invalid base url", goerrors.CategoryBadInput).
			WithTextCode(TextCodeInvalidConfig).
			WithMetadata(map[string]any{"base_url": cfg.GetBaseURL()})
	}

	timeout := cfg.GetTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := cfg.GetUserAgent()
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	loginPath := cfg.GetLoginPath()
	if session == nil {
		session = NewSessionStore(context.Background(), nil, WithLoginPath(loginPath))
	}

	c := &Client{
		baseURL:     base,
		httpClient:  &http.Client{Timeout: timeout},
		session:     session,
		loginPath:   loginPath,
		logger:      defLogger{},
		userAgent:   userAgent,
		requestID:   uuid.NewString,
		maxResponse: defaultMaxResponseBytes,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

// Session returns the session store the client reads tokens from.
func (c *Client) Session() *SessionStore {
	return c.session
}

// WithSession returns a copy of the client bound to another session store.
// The HTTP client, logger and metrics are shared.
func (c *Client) WithSession(session *SessionStore) *Client {
	clone := *c
	if session == nil {
		session = NewSessionStore(context.Background(), nil, WithLoginPath(c.loginPath))
	}
	clone.session = session
	return &clone
}

// CallOption customizes a single call.
type CallOption func(*callOptions)

type callOptions struct {
	params map[string]string
	query  url.Values
	body   any
}

// WithParam fills a {name} placeholder in the endpoint path.
func WithParam(name, value string) CallOption {
	return func(o *callOptions) {
		if o.params == nil {
			o.params = map[string]string{}
		}
		o.params[name] = value
	}
}

// WithQuery sets the query string.
func WithQuery(q url.Values) CallOption {
	return func(o *callOptions) {
		o.query = q
	}
}

// WithBody sets the JSON request body.
func WithBody(body any) CallOption {
	return func(o *callOptions) {
		o.body = body
	}
}

// Call issues a request for endpoint and decodes the response into T
// following the endpoint's envelope contract.
func Call[T any](ctx context.Context, c *Client, endpoint Endpoint, opts ...CallOption) (T, error) {
	var out T

	body, err := c.do(ctx, endpoint, opts...)
	if err != nil {
		return out, err
	}

	if endpoint.Envelope == EnvelopeNone || len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}

	if endpoint.Envelope == EnvelopeNormalized {
		if body, err = NormalizeJSON(body); err != nil {
			return out, err
		}
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to decode response").
			WithTextCode(TextCodeMalformedResponse).
			WithMetadata(map[string]any{"endpoint": endpoint.Name})
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, endpoint Endpoint, opts ...CallOption) ([]byte, error) {
	o := &callOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	epoch := c.session.Epoch()
	token, hasToken := c.session.GetToken()
	if !endpoint.Public && !hasToken {
		return nil, ErrNotAuthenticated
	}

	path := endpoint.Resolve(o.params)
	target := c.baseURL + path
	if len(o.query) > 0 {
		target += "?" + o.query.Encode()
	}

	var reqBody io.Reader
	if o.body != nil {
		payload, err := json.Marshal(o.body)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to encode request body").
				WithTextCode(TextCodeInvalidRequest)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, endpoint.Method, target, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, c.requestID())
	if hasToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(endpoint.Name, 0, time.Since(start))
		c.logger.Debug("request failed", "endpoint", endpoint.Name, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponse+1))
	c.metrics.observe(endpoint.Name, resp.StatusCode, time.Since(start))
	if err != nil {
		c.logger.Debug("response read failed", "endpoint", endpoint.Name, "error", err)
		return nil, err
	}
	if int64(len(data)) > c.maxResponse {
		return nil, goerrors.New("response body too large", goerrors.CategoryInternal).
			WithTextCode(TextCodeMalformedResponse).
			WithMetadata(map[string]any{"endpoint": endpoint.Name, "limit": c.maxResponse})
	}

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr := newAPIError(endpoint.Method, path, resp.StatusCode, data)
		c.logger.Info("authorization failed, clearing session", "endpoint", endpoint.Name)
		if !c.session.ClearIfCurrent(epoch) {
			c.logger.Debug("ignoring authorization failure from previous session", "endpoint", endpoint.Name)
			return nil, apiErr
		}
		c.metrics.teardown()
		c.session.RedirectToLogin()
		return nil, apiErr
	}

	stale := hasToken && c.session.Epoch() != epoch

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(endpoint.Method, path, resp.StatusCode, data)
		c.logger.Debug("request rejected", "endpoint", endpoint.Name, "status", resp.StatusCode)
		return nil, apiErr
	}

	if stale {
		c.logger.Debug("discarding response from previous session", "endpoint", endpoint.Name)
		return nil, ErrStaleSession
	}

	return data, nil
}
