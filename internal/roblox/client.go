package roblox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/time/rate"
)

// DefaultUserAgent is sent on every request that does not set its own.
const DefaultUserAgent = "rbxupload"

// Endpoints are the base URLs of the Roblox web services the client talks to.
type Endpoints struct {
	Data string
	API  string
	WWW  string
	Auth string
}

// DefaultEndpoints returns the production Roblox hosts.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Data: "https://data.roblox.com",
		API:  "https://api.roblox.com",
		WWW:  "https://www.roblox.com",
		Auth: "https://auth.roblox.com",
	}
}

// Client sends requests to the Roblox web API on behalf of a Session.
type Client struct {
	http      *http.Client
	jar       http.CookieJar
	session   *Session
	endpoints Endpoints
	limiter   *rate.Limiter
	classify  Classifier
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithEndpoints overrides the service base URLs. Empty fields keep their defaults.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) {
		if e.Data != "" {
			c.endpoints.Data = strings.TrimRight(e.Data, "/")
		}
		if e.API != "" {
			c.endpoints.API = strings.TrimRight(e.API, "/")
		}
		if e.WWW != "" {
			c.endpoints.WWW = strings.TrimRight(e.WWW, "/")
		}
		if e.Auth != "" {
			c.endpoints.Auth = strings.TrimRight(e.Auth, "/")
		}
	}
}

// WithRateLimit paces outgoing requests to rps per second. Zero disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithClassifier replaces the rules used to classify upload failures.
func WithClassifier(classify Classifier) Option {
	return func(c *Client) {
		if classify != nil {
			c.classify = classify
		}
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client bound to session. A nil session is treated as
// an anonymous session with no cookie.
func NewClient(session *Session, opts ...Option) *Client {
	// cookiejar.New only fails for a non-nil Options with a bad PublicSuffixList.
	jar, _ := cookiejar.New(nil)
	if session == nil {
		session = NewSession("")
	}
	c := &Client{
		http:      &http.Client{Jar: jar, Timeout: 60 * time.Second},
		jar:       jar,
		session:   session,
		endpoints: DefaultEndpoints(),
		classify:  DefaultClassifier,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http.Jar == nil {
		c.http.Jar = c.jar
	} else {
		c.jar = c.http.Jar
	}
	return c
}

// Session returns the session the client reads and updates.
func (c *Client) Session() *Session {
	return c.session
}

// Endpoints returns the base URLs in use.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Cookies returns the cookies the jar holds for u.
func (c *Client) Cookies(u *url.URL) []*http.Cookie {
	if c.jar == nil {
		return nil
	}
	return c.jar.Cookies(u)
}

// Request describes one outbound call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	// Body is sent as-is when it is []byte. With JSON set, any other value is
	// encoded as JSON.
	Body any
	// JSON marks the exchange as JSON: the body is encoded and the response
	// decoded into the out value passed to Send.
	JSON bool
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Send performs req, keeping the session token current. A 403 rejecting the
// anti-forgery token is resent exactly once with the token the rejection
// carried; any other failure, including a second rejection, is returned as is.
func (c *Client) Send(ctx context.Context, req Request, out any) (*Response, error) {
	body, err := encodeBody(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, req, body)
	if err != nil {
		var se *StatusError
		if !errors.As(err, &se) || !se.TokenRejected() {
			return resp, err
		}
		slog.Debug("Anti-forgery token rejected, resending", "method", req.Method, "url", req.URL, "has_token", c.session.Token() != "")
		resp, err = c.do(ctx, req, body)
		if err != nil {
			return resp, err
		}
	}
	if req.JSON && out != nil && len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := sonic.Unmarshal(resp.Body, out); err != nil {
			return resp, &DecodeError{Status: resp.StatusCode, Err: err}
		}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, req Request, body []byte) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if c.session.Cookie != "" && httpReq.Header.Get("Cookie") == "" {
		httpReq.Header.Set("Cookie", c.session.Cookie)
	}
	if token := c.session.Token(); token != "" {
		httpReq.Header.Set(TokenHeader, token)
	}
	if req.JSON {
		httpReq.Header.Set("Accept", "application/json")
		if body != nil && httpReq.Header.Get("Content-Type") == "" {
			httpReq.Header.Set("Content-Type", "application/json")
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	c.session.SetToken(resp.Header.Get(TokenHeader))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return out, &StatusError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
			Body:       data,
		}
	}
	return out, nil
}

func encodeBody(req Request) ([]byte, error) {
	switch body := req.Body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return body, nil
	}
	if !req.JSON {
		return nil, fmt.Errorf("roblox: unsupported body type %T without JSON encoding", req.Body)
	}
	data, err := sonic.Marshal(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}

// reasonPhrase returns the status text the server sent, which may differ from
// the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	code := fmt.Sprintf("%d", resp.StatusCode)
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, code))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
