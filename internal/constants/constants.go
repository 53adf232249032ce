package constants

import "time"

// Platform endpoint paths. Only the entry points are fixed; everything else
// is discovered through links and resource patterns.
const (
	// PlatformRootPath is the root document with the Links/Resources tables.
	PlatformRootPath = "/DocuWare/Platform"

	// LogonPath is the form-encoded logon endpoint of the cookie variant.
	LogonPath = "/DocuWare/Platform/Account/Logon"

	// LogoffPath ends a cookie session.
	LogoffPath = "/DocuWare/Platform/Account/Logoff"

	// IdentityServiceInfoPath is step one of the OAuth2 discovery.
	IdentityServiceInfoPath = "/DocuWare/Platform/Home/IdentityServiceInfo"

	// OpenIDConfigurationPath is appended to the identity service URL in step
	// two of the OAuth2 discovery.
	OpenIDConfigurationPath = "/.well-known/openid-configuration"

	// FallbackTokenEndpoint is used when discovery fails to produce a token
	// endpoint. Kept verbatim from the platform documentation.
	FallbackTokenEndpoint = "/DocuWare/Identity/connect/token"
)

// OAuth2 password-grant parameters fixed by the platform.
const (
	OAuth2ClientID = "docuware.platform.net.client"
	OAuth2Scope    = "docuware.platform"
)

// HTTP defaults.
const (
	// DefaultUserAgent identifies the client when the caller does not.
	DefaultUserAgent = "dwapi-client/1.0 (Go)"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultDownloadFilename is used when Content-Disposition suggests none.
	DefaultDownloadFilename = "unknown.bin"
)

// Retry limits for the transport. Authentication expiry is handled one layer
// up and is never retried at this level.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// File permissions for persisted session and credential data.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)
