package dwapi

import (
	"context"
	"net/url"
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// SessionState is the opaque, round-trippable session blob callers persist
// between process runs. An OAuth2 session stores the access token under
// SessionAccessTokenKey; a cookie session stores the raw cookie map.
type SessionState map[string]string

// SessionAccessTokenKey marks a session blob as belonging to the OAuth2
// variant.
const SessionAccessTokenKey = "access_token"

// HasAccessToken reports whether the blob carries a non-empty access token.
func (s SessionState) HasAccessToken() bool {
	return s != nil && s[SessionAccessTokenKey] != ""
}

// Copy returns an independent copy of the blob.
func (s SessionState) Copy() SessionState {
	if s == nil {
		return nil
	}

	dup := make(SessionState, len(s))
	for k, v := range s {
		dup[k] = v
	}

	return dup
}

// Config carries everything needed to build a platform client.
//
// # Authentication
//
// Username and Password are required for a fresh login; Organization narrows
// the login when the account belongs to several. SavedSession resumes a
// previous session without re-prompting. When UseOAuth2 is nil the client
// picks the variant itself: a saved session containing an access token means
// OAuth2, a saved session without one means cookies, and no saved session
// defaults to OAuth2.
//
// # Timeouts, retries, and TLS
//
// Per-request deadlines are controlled via the context passed to client
// methods; the core imposes none of its own. RetryMax/RetryWaitMin/
// RetryWaitMax tune the transport's handling of transient network failures
// and 5xx responses. Authentication expiry is not a transport concern: a
// 401/403 triggers exactly one reauthenticate-and-replay, independent of
// these settings. SkipTLSVerify is honored only when DWAPI_DEV_MODE is set;
// do not use it in production.
type Config struct {
	// PlatformURL: base URL of the platform (e.g. "https://acme.docuware.cloud").
	// dwclient.New normalizes this value by trimming a trailing slash and
	// adding "https://" if no scheme is present.
	PlatformURL string

	// Username: account username. Never logged.
	Username string
	// Password: account password. Never logged.
	Password string
	// Organization: optional organization name or id for the logon form.
	Organization string
	// SavedSession: previously persisted session blob, or nil.
	SavedSession SessionState
	// UseOAuth2: forces the authentication variant; nil selects automatically
	// from SavedSession.
	UseOAuth2 *bool

	// HTTPTimeout: optional default timeout on the underlying transport.
	HTTPTimeout time.Duration
	// RetryMax: maximum transport-level retries for transient failures.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is set.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Interceptors: optional chain run around every dispatch, the
	// reauthentication replay included.
	Interceptors *InterceptorChain
	// SkipTLSVerify: honored only when DWAPI_DEV_MODE is set.
	SkipTLSVerify bool
}

// Download is the result of a binary download.
type Download struct {
	Data        []byte
	ContentType string
	// Filename is derived from the Content-Disposition header, or
	// "unknown.bin" when the server does not suggest one.
	Filename string
}

// Client is the authenticated resource-navigation client. Domain layers
// (organizations, file cabinets, dialogs, documents) are built on top of this
// contract; they are not part of this module.
//
// A Client is not safe for concurrent use without external locking: the
// transparent reauthentication step mutates the shared session (headers,
// cookies) as a side effect of a single request's failure.
type Client interface {
	// Endpoint resolves a server-advertised link relation to a URL.
	Endpoint(rel string) (string, error)
	// Resource resolves a server-advertised URI template by name.
	Resource(name string) (*ResourcePattern, error)
	// Version reports the platform version captured at login.
	Version() string
	// Session returns the persistable session blob of the active login.
	Session() SessionState

	// GetJSON issues a GET and decodes the JSON response into out.
	GetJSON(ctx context.Context, path string, out any) error
	// GetText issues a GET with a text/plain accept header.
	GetText(ctx context.Context, path string) (string, error)
	// PostJSON issues a POST with a JSON body and decodes the response into out.
	PostJSON(ctx context.Context, path string, body, out any) error
	// PostText issues a POST with a JSON body and returns the plain-text response.
	PostText(ctx context.Context, path string, body any) (string, error)
	// PutJSON issues a PUT with a JSON body and decodes the response into out.
	PutJSON(ctx context.Context, path string, query url.Values, body, out any) error
	// Delete issues a DELETE.
	Delete(ctx context.Context, path string) error
	// Download fetches a binary resource, verifying the declared
	// Content-Length and deriving a filename from Content-Disposition.
	Download(ctx context.Context, path, mimeType string) (*Download, error)

	// Logoff ends the session: the cookie variant hits the logoff endpoint,
	// the OAuth2 variant drops the bearer token locally.
	Logoff(ctx context.Context) error
}

// PlatformInfo is the platform root document: the version plus the link and
// resource-pattern tables every navigation starts from.
type PlatformInfo struct {
	Version   string          `json:"Version"`
	Links     []Link          `json:"Links"`
	Resources []ResourceEntry `json:"Resources"`
}
