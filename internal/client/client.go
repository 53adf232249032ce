// Package client implements the dwapi.Client contract on top of the
// connection and authentication layers: it owns the login flow, the platform
// root document, and the link and resource-pattern tables navigation starts
// from.
package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/docutrack-io/dwapi-client/internal/auth"
	"github.com/docutrack-io/dwapi-client/internal/constants"
	dwhttp "github.com/docutrack-io/dwapi-client/internal/http"
	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

// Client implements the dwapi.Client interface.
type Client struct {
	httpClient    *dwhttp.Client
	authenticator dwhttp.Authenticator
	logger        dwapi.Logger

	endpoints dwapi.Endpoints
	resources dwapi.Resources
	version   string
	session   dwapi.SessionState
}

// createHTTPClientOptions builds connection options from config.
func createHTTPClientOptions(config *dwapi.Config) []dwhttp.Option {
	var httpOpts []dwhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, dwhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, dwhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, dwhttp.WithUserAgent(config.UserAgent))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, dwhttp.WithInterceptors(config.Interceptors))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, dwhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, dwhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a platform client and logs it in. config.PlatformURL must
// already be normalized.
func New(ctx context.Context, config *dwapi.Config, extraOpts ...dwhttp.Option) (*Client, error) {
	if config == nil {
		return nil, dwapi.ErrConfigRequired
	}

	if config.PlatformURL == "" {
		return nil, dwapi.ErrPlatformURLRequired
	}

	if config.Username == "" && len(config.SavedSession) == 0 {
		return nil, dwapi.ErrCredentialsRequired
	}

	// Extra options first: the retry option wraps whatever transport is
	// already configured.
	httpOpts := append(append([]dwhttp.Option{}, extraOpts...), createHTTPClientOptions(config)...)

	httpClient, err := dwhttp.NewClient(config.PlatformURL, httpOpts...)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient: httpClient,
		logger:     config.Logger,
	}

	err = client.login(ctx, config)
	if err != nil {
		return nil, err
	}

	err = client.fetchPlatformInfo(ctx)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// login runs the variant-specific login flow. The cookie variant only gets
// the transparent-reauthentication hook once a login has succeeded or a
// saved session provides cookies to restore; attaching it earlier would
// replay requests against an authenticator that has nothing to offer.
func (c *Client) login(ctx context.Context, config *dwapi.Config) error {
	authenticator := auth.Select(config, config.Logger)

	_, isCookie := authenticator.(*auth.CookieAuthenticator)
	if !isCookie || len(config.SavedSession) > 0 {
		c.httpClient.SetAuthenticator(authenticator)
	}

	session, err := authenticator.Login(ctx, c.httpClient)
	if err != nil {
		return err
	}

	c.httpClient.SetAuthenticator(authenticator)
	c.authenticator = authenticator
	c.session = session

	return nil
}

// fetchPlatformInfo loads the platform root document and builds the link and
// resource tables.
func (c *Client) fetchPlatformInfo(ctx context.Context) error {
	var info dwapi.PlatformInfo

	err := c.httpClient.GetJSON(ctx, constants.PlatformRootPath, nil, &info)
	if err != nil {
		return fmt.Errorf("fetching platform info: %w", err)
	}

	c.endpoints = dwapi.NewEndpoints(info.Links)
	c.resources = dwapi.NewResources(info.Resources)
	c.version = info.Version

	return nil
}

// Endpoint implements dwapi.Client.Endpoint.
func (c *Client) Endpoint(rel string) (string, error) {
	return c.endpoints.URL(rel)
}

// Resource implements dwapi.Client.Resource.
func (c *Client) Resource(name string) (*dwapi.ResourcePattern, error) {
	return c.resources.Pattern(name)
}

// Version implements dwapi.Client.Version.
func (c *Client) Version() string {
	return c.version
}

// Session implements dwapi.Client.Session.
func (c *Client) Session() dwapi.SessionState {
	return c.session.Copy()
}

// GetJSON implements dwapi.Client.GetJSON.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.httpClient.GetJSON(ctx, path, nil, out)
}

// GetText implements dwapi.Client.GetText.
func (c *Client) GetText(ctx context.Context, path string) (string, error) {
	return c.httpClient.GetText(ctx, path, nil)
}

// PostJSON implements dwapi.Client.PostJSON.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.httpClient.PostJSON(ctx, path, nil, body, out)
}

// PostText implements dwapi.Client.PostText.
func (c *Client) PostText(ctx context.Context, path string, body any) (string, error) {
	return c.httpClient.PostText(ctx, path, nil, body)
}

// PutJSON implements dwapi.Client.PutJSON.
func (c *Client) PutJSON(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.httpClient.PutJSON(ctx, path, query, body, out)
}

// Delete implements dwapi.Client.Delete.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.httpClient.Delete(ctx, path)
}

// Download implements dwapi.Client.Download.
func (c *Client) Download(ctx context.Context, path, mimeType string) (*dwapi.Download, error) {
	return c.httpClient.GetBytes(ctx, path, nil, mimeType)
}

// Logoff implements dwapi.Client.Logoff.
func (c *Client) Logoff(ctx context.Context) error {
	if c.authenticator == nil {
		return dwapi.ErrNoAuthenticator
	}

	return c.authenticator.Logoff(ctx, c.httpClient)
}

// HTTPClient exposes the underlying connection for tests.
func (c *Client) HTTPClient() *dwhttp.Client {
	return c.httpClient
}
