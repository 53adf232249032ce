package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/docutrack-io/dwapi-client/internal/constants"
	dwhttp "github.com/docutrack-io/dwapi-client/internal/http"
	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

// identityServiceInfo is the platform's pointer to its identity service.
type identityServiceInfo struct {
	IdentityServiceURL string `json:"IdentityServiceUrl"`
}

// openIDConfiguration is the subset of the identity service's discovery
// document the client needs.
type openIDConfiguration struct {
	TokenEndpoint string `json:"token_endpoint"`
}

// tokenResponse is the password-grant token response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// OAuth2Authenticator implements the token variant. Tokens come from the
// platform's identity service via three discovery steps: the identity
// service info document, its openid-configuration, and finally the token
// endpoint (with a well-known fallback path when discovery omits one).
type OAuth2Authenticator struct {
	username     string
	password     string
	organization string
	token        string
	logger       dwhttp.Logger
}

// NewOAuth2Authenticator creates an OAuth2 authenticator. savedState may
// carry a previous session's access token.
func NewOAuth2Authenticator(username, password, organization string, savedState dwapi.SessionState, logger dwhttp.Logger) *OAuth2Authenticator {
	return &OAuth2Authenticator{
		username:     username,
		password:     password,
		organization: organization,
		token:        savedState[dwapi.SessionAccessTokenKey],
		logger:       logger,
	}
}

// Token returns the current access token, if any.
func (a *OAuth2Authenticator) Token() string {
	return a.token
}

func (a *OAuth2Authenticator) applyToken(client *dwhttp.Client) {
	if a.token != "" {
		client.SetBearerToken(a.token)
	} else {
		client.ClearBearerToken()
	}
}

// fetchToken walks the discovery chain and requests a password-grant token.
// Any failure degrades to an empty token with a warning: the platform may
// still honor requests carrying session cookies, and callers see the real
// error on their own request if it does not.
func (a *OAuth2Authenticator) fetchToken(ctx context.Context, client *dwhttp.Client) string {
	if a.logger != nil {
		a.logger.Debug("Requesting access token", nil)
	}

	token, err := a.requestToken(ctx, client)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("Failed to get access token", map[string]interface{}{
				"status": dwapi.ResourceStatus(err),
			})
		}

		return ""
	}

	return token
}

func (a *OAuth2Authenticator) requestToken(ctx context.Context, client *dwhttp.Client) (string, error) {
	var info identityServiceInfo

	err := a.getJSON(ctx, client, constants.IdentityServiceInfoPath, &info)
	if err != nil {
		return "", err
	}

	var oidc openIDConfiguration

	discoveryPath := strings.TrimSuffix(info.IdentityServiceURL, "/") + constants.OpenIDConfigurationPath

	err = a.getJSON(ctx, client, discoveryPath, &oidc)
	if err != nil {
		return "", err
	}

	tokenEndpoint := oidc.TokenEndpoint
	if tokenEndpoint == "" {
		tokenEndpoint = constants.FallbackTokenEndpoint
	}

	form := url.Values{
		"grant_type": {"password"},
		"username":   {a.username},
		"password":   {a.password},
		"client_id":  {constants.OAuth2ClientID},
		"scope":      {constants.OAuth2Scope},
	}

	resp, err := client.PostForm(ctx, tokenEndpoint, form, true)
	if err != nil {
		return "", err
	}

	var tokens tokenResponse

	err = json.Unmarshal(resp.Body, &tokens)
	if err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}

	if tokens.AccessToken == "" {
		return "", &dwapi.ResourceError{
			Message:    "token response carried no access token",
			URL:        tokenEndpoint,
			StatusCode: resp.StatusCode,
		}
	}

	return tokens.AccessToken, nil
}

func (a *OAuth2Authenticator) getJSON(ctx context.Context, client *dwhttp.Client, path string, out any) error {
	resp, err := client.Do(ctx, &dwhttp.Request{
		Method:   "GET",
		Path:     path,
		Headers:  map[string]string{"Accept": "application/json"},
		NoReauth: true,
	})
	if err != nil {
		return err
	}

	err = json.Unmarshal(resp.Body, out)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}

// Authenticate fetches a fresh token and installs (or clears) the bearer
// credential on the client.
func (a *OAuth2Authenticator) Authenticate(ctx context.Context, client *dwhttp.Client) error {
	a.token = a.fetchToken(ctx, client)
	a.applyToken(client)

	return nil
}

// Login applies any saved token, then authenticates, and returns the session
// blob carrying the resulting token.
func (a *OAuth2Authenticator) Login(ctx context.Context, client *dwhttp.Client) (dwapi.SessionState, error) {
	a.applyToken(client)

	err := a.Authenticate(ctx, client)
	if err != nil {
		return nil, err
	}

	return dwapi.SessionState{dwapi.SessionAccessTokenKey: a.token}, nil
}

// Logoff drops the bearer token locally. The identity service offers no
// revocation endpoint the platform documents for this flow.
func (a *OAuth2Authenticator) Logoff(_ context.Context, client *dwhttp.Client) error {
	if a.token != "" {
		a.token = ""
		client.ClearBearerToken()
	}

	return nil
}
