// Package http implements the platform connection: URL building against the
// platform base, default headers, cookie and bearer-token session state, and
// the single transparent reauthenticate-and-replay on an expired session.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/docutrack-io/dwapi-client/internal/constants"
	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Authenticator establishes a platform session on a Client and restores it
// when the server reports the session expired. Implementations issue their
// own requests through the Client with NoReauth set, so an authentication
// failure never recurses back into authentication.
type Authenticator interface {
	// Login performs a full login and returns the persistable session blob.
	Login(ctx context.Context, client *Client) (dwapi.SessionState, error)
	// Authenticate re-establishes an expired session before a replay.
	Authenticate(ctx context.Context, client *Client) error
	// Logoff ends the session.
	Logoff(ctx context.Context, client *Client) error
}

// Request represents an HTTP request against the platform.
type Request struct {
	Method string
	// Path is resolved against the platform base URL. It may be a relative
	// path, an absolute path, or a complete URL (servers hand back complete
	// URLs in link tables).
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    []byte
	// NoReauth disables the transparent reauthenticate-and-replay. The
	// authenticators set it on their own requests.
	NoReauth bool
}

// Response represents an HTTP response from the platform.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client is the HTTP connection to a platform instance.
type Client struct {
	baseURL      string
	base         *url.URL
	httpClient   *nethttp.Client
	jar          nethttp.CookieJar
	userAgent    string
	logger       Logger
	debug        bool
	interceptors *dwapi.InterceptorChain

	mu            sync.Mutex
	authenticator Authenticator
	bearer        string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for the client.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithInterceptors attaches a request/response interceptor chain.
func WithInterceptors(chain *dwapi.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithTimeout sets an overall timeout on the underlying transport. Zero means
// no client-imposed timeout; callers control deadlines via context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetryConfig enables transport-level retries for transient failures and
// 5xx responses. Session expiry is handled separately by the reauthentication
// step, never by retries.
func WithRetryConfig(retryMax int, retryWaitMin, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = retryMax
		retryClient.RetryWaitMin = retryWaitMin
		retryClient.RetryWaitMax = retryWaitMax
		retryClient.Logger = nil
		retryClient.HTTPClient.Jar = c.jar
		retryClient.HTTPClient.Timeout = c.httpClient.Timeout
		retryClient.HTTPClient.Transport = c.httpClient.Transport
		c.httpClient = retryClient.StandardClient()
	}
}

// WithInsecureTLS disables server certificate verification. The facade only
// applies this in dev mode.
func WithInsecureTLS() Option {
	return func(c *Client) {
		transport := nethttp.DefaultTransport.(*nethttp.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // dev-mode only
		c.httpClient.Transport = transport
	}
}

// NewClient creates a new platform connection. baseURL must be normalized
// (scheme present, no trailing slash).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing platform URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	client := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		base:    base,
		jar:     jar,
		httpClient: &nethttp.Client{
			Jar: jar,
		},
		userAgent: constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	// Options may swap the http.Client; the jar must survive the swap.
	if c := client.httpClient; c.Jar == nil {
		c.Jar = jar
	}

	return client, nil
}

// BaseURL returns the normalized platform base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAuthenticator attaches the authenticator used for transparent
// reauthentication.
func (c *Client) SetAuthenticator(auth Authenticator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authenticator = auth
}

// Authenticator returns the attached authenticator, or nil.
func (c *Client) Authenticator() Authenticator {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.authenticator
}

// SetBearerToken installs token as the Authorization bearer credential on
// every subsequent request.
func (c *Client) SetBearerToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer = token
}

// ClearBearerToken drops the Authorization credential.
func (c *Client) ClearBearerToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer = ""
}

// HasBearerToken reports whether a bearer credential is installed.
func (c *Client) HasBearerToken() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.bearer != ""
}

func (c *Client) bearerToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.bearer
}

// Cookies returns the session cookies currently held for the platform base
// URL, as a name/value map.
func (c *Client) Cookies() map[string]string {
	cookies := make(map[string]string)
	for _, cookie := range c.jar.Cookies(c.base) {
		cookies[cookie.Name] = cookie.Value
	}

	return cookies
}

// SetCookies restores session cookies for the platform base URL.
func (c *Client) SetCookies(cookies map[string]string) {
	restored := make([]*nethttp.Cookie, 0, len(cookies))
	for name, value := range cookies {
		restored = append(restored, &nethttp.Cookie{Name: name, Value: value, Path: "/"})
	}

	c.jar.SetCookies(c.base, restored)
}

// BuildURL resolves path against the platform base URL and appends query to
// any query string the path already carries. Values are percent encoded.
func (c *Client) BuildURL(path string, query url.Values) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parsing request path %q: %w", path, err)
	}

	if len(query) > 0 {
		encoded := query.Encode()
		if ref.RawQuery != "" {
			ref.RawQuery += "&" + encoded
		} else {
			ref.RawQuery = encoded
		}
	}

	return c.base.ResolveReference(ref).String(), nil
}

// Do executes a request. The final response is returned alongside any error,
// so callers can still inspect the status on failure.
//
// When the first attempt comes back 401 or 403 and an authenticator is
// attached, the session is re-established once and the request replayed;
// the replay's status is final either way. Any other non-200 status yields a
// *dwapi.ResourceError carrying the URL and status.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.BuildURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, req, fullURL)
	if err != nil {
		return nil, err
	}

	if (resp.StatusCode == nethttp.StatusUnauthorized || resp.StatusCode == nethttp.StatusForbidden) && !req.NoReauth {
		if auth := c.Authenticator(); auth != nil {
			if c.logger != nil {
				c.logger.Debug("Reauthenticating expired session", map[string]interface{}{
					"status": resp.StatusCode,
					"url":    fullURL,
				})
			}

			err = auth.Authenticate(ctx, c)
			if err != nil {
				return resp, fmt.Errorf("reauthenticating: %w", err)
			}

			resp, err = c.send(ctx, req, fullURL)
			if err != nil {
				return nil, err
			}
		}
	}

	if resp.StatusCode != nethttp.StatusOK {
		return resp, &dwapi.ResourceError{
			Message:    fmt.Sprintf("%s request failed", req.Method),
			URL:        fullURL,
			StatusCode: resp.StatusCode,
		}
	}

	return resp, nil
}

// send performs a single HTTP exchange without status interpretation.
func (c *Client) send(ctx context.Context, req *Request, fullURL string) (*Response, error) {
	headers := make(nethttp.Header, len(req.Headers)+2)
	headers.Set("User-Agent", c.userAgent)

	if token := c.bearerToken(); token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	intercepted := &dwapi.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: headers,
		Body:    req.Body,
	}

	if c.interceptors != nil {
		err := c.interceptors.RunRequest(ctx, intercepted)
		if err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}

		headers = intercepted.Headers
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, values := range headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	requestID := ""
	if c.debug && c.logger != nil {
		requestID = uuid.NewString()
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"request_id": requestID,
			"method":     req.Method,
			"url":        fullURL,
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"request_id": requestID,
			"status":     httpResp.StatusCode,
			"duration":   time.Since(start).String(),
			"size":       len(respBody),
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.interceptors != nil {
		err = c.interceptors.RunResponse(ctx, intercepted, &dwapi.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		})
		if err != nil {
			return nil, fmt.Errorf("response interceptor: %w", err)
		}
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// GetJSON performs a GET with a JSON accept header and decodes the response
// into out. A nil out discards the body.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.Do(ctx, &Request{
		Method:  nethttp.MethodGet,
		Path:    path,
		Query:   query,
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return err
	}

	return decodeJSON(resp.Body, out)
}

// GetText performs a GET with a plain-text accept header.
func (c *Client) GetText(ctx context.Context, path string, query url.Values) (string, error) {
	resp, err := c.Do(ctx, &Request{
		Method:  nethttp.MethodGet,
		Path:    path,
		Query:   query,
		Headers: map[string]string{"Accept": "text/plain"},
	})
	if err != nil {
		return "", err
	}

	return string(resp.Body), nil
}

// PostJSON performs a POST with a JSON body and decodes the response into
// out. A nil out discards the body.
func (c *Client) PostJSON(ctx context.Context, path string, query url.Values, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}

	resp, err := c.Do(ctx, &Request{
		Method: nethttp.MethodPost,
		Path:   path,
		Query:  query,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		},
		Body: encoded,
	})
	if err != nil {
		return err
	}

	return decodeJSON(resp.Body, out)
}

// PostText performs a POST with a JSON body and returns the plain-text
// response.
func (c *Client) PostText(ctx context.Context, path string, query url.Values, body any) (string, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding request body: %w", err)
	}

	resp, err := c.Do(ctx, &Request{
		Method: nethttp.MethodPost,
		Path:   path,
		Query:  query,
		Headers: map[string]string{
			"Accept":       "text/plain",
			"Content-Type": "application/json",
		},
		Body: encoded,
	})
	if err != nil {
		return "", err
	}

	return string(resp.Body), nil
}

// PostForm performs a POST with a URL-encoded form body. The authenticators
// use it for logon and token requests.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, noReauth bool) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: nethttp.MethodPost,
		Path:   path,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/x-www-form-urlencoded",
		},
		Body:     []byte(form.Encode()),
		NoReauth: noReauth,
	})
}

// PutJSON performs a PUT with a JSON body and decodes the response into out.
// A nil out discards the body.
func (c *Client) PutJSON(ctx context.Context, path string, query url.Values, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}

	resp, err := c.Do(ctx, &Request{
		Method: nethttp.MethodPut,
		Path:   path,
		Query:  query,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		},
		Body: encoded,
	})
	if err != nil {
		return err
	}

	return decodeJSON(resp.Body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})

	return err
}

// GetBytes downloads a binary resource. mimeType, when non-empty, is sent as
// the Accept header. The declared Content-Length, when present, must match
// the received byte count exactly; the filename comes from the
// Content-Disposition header when the server suggests one.
//
// A non-200 status yields a *dwapi.ResourceNotFoundError rather than the
// generic resource error: the dominant failure for binary fetches is a stale
// or wrong document URL.
func (c *Client) GetBytes(ctx context.Context, path string, query url.Values, mimeType string) (*dwapi.Download, error) {
	fullURL, err := c.BuildURL(path, query)
	if err != nil {
		return nil, err
	}

	accept := mimeType
	if accept == "" {
		accept = "*/*"
	}

	req := &Request{
		Method:  nethttp.MethodGet,
		Path:    path,
		Query:   query,
		Headers: map[string]string{"Accept": accept},
	}

	resp, err := c.send(ctx, req, fullURL)
	if err != nil {
		return nil, err
	}

	if (resp.StatusCode == nethttp.StatusUnauthorized || resp.StatusCode == nethttp.StatusForbidden) && !req.NoReauth {
		if auth := c.Authenticator(); auth != nil {
			err = auth.Authenticate(ctx, c)
			if err != nil {
				return nil, fmt.Errorf("reauthenticating: %w", err)
			}

			resp, err = c.send(ctx, req, fullURL)
			if err != nil {
				return nil, err
			}
		}
	}

	if resp.StatusCode != nethttp.StatusOK {
		return nil, &dwapi.ResourceNotFoundError{
			ResourceError: dwapi.ResourceError{
				Message:    "resource not found",
				URL:        fullURL,
				StatusCode: resp.StatusCode,
			},
		}
	}

	if declared := resp.Headers.Get("Content-Length"); declared != "" {
		length, convErr := strconv.Atoi(declared)
		if convErr != nil || length != len(resp.Body) {
			return nil, &dwapi.ResourceError{
				Message:    fmt.Sprintf("%v: declared %s, received %d", dwapi.ErrContentLengthMismatch, declared, len(resp.Body)),
				URL:        fullURL,
				StatusCode: resp.StatusCode,
				Err:        dwapi.ErrContentLengthMismatch,
			}
		}
	}

	download := &dwapi.Download{
		Data:        resp.Body,
		ContentType: resp.Headers.Get("Content-Type"),
		Filename:    constants.DefaultDownloadFilename,
	}

	if disposition := resp.Headers.Get("Content-Disposition"); disposition != "" {
		params, parseErr := dwapi.ParseContentDisposition(disposition)
		if parseErr == nil {
			if name, ok := params.Get("filename"); ok && name != "" {
				download.Filename = name
			}
		} else if c.logger != nil {
			c.logger.Warn("Unparseable Content-Disposition header", map[string]interface{}{
				"url": fullURL,
			})
		}
	}

	return download, nil
}

func decodeJSON(body []byte, out any) error {
	if out == nil {
		return nil
	}

	err := json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("parsing response body: %w", err)
	}

	return nil
}
