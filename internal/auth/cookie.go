// Package auth implements the two platform authentication variants: the
// classic cookie-based logon and OAuth2 password-grant tokens obtained from
// the platform's identity service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/docutrack-io/dwapi-client/internal/constants"
	dwhttp "github.com/docutrack-io/dwapi-client/internal/http"
	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

// CookieAuthenticator implements the classic logon-form variant. A fresh
// login posts the credentials to the logon endpoint and captures the session
// cookies; a saved session restores those cookies without contacting the
// server.
type CookieAuthenticator struct {
	username     string
	password     string
	organization string
	cookies      map[string]string
	logger       dwhttp.Logger
	warned       bool
}

// NewCookieAuthenticator creates a cookie authenticator. savedState restores
// a previous session's cookie map; it may be nil.
func NewCookieAuthenticator(username, password, organization string, savedState dwapi.SessionState, logger dwhttp.Logger) *CookieAuthenticator {
	var cookies map[string]string
	if len(savedState) > 0 {
		cookies = savedState.Copy()
	}

	return &CookieAuthenticator{
		username:     username,
		password:     password,
		organization: organization,
		cookies:      cookies,
		logger:       logger,
	}
}

// Login posts the logon form and returns the captured session cookies as the
// persistable session blob.
func (a *CookieAuthenticator) Login(ctx context.Context, client *dwhttp.Client) (dwapi.SessionState, error) {
	form := url.Values{
		"LoginType":                     {"DocuWare"},
		"RedirectToMyselfInCaseOfError": {"false"},
		"RememberMe":                    {"false"},
		"Password":                      {a.password},
		"UserName":                      {a.username},
	}
	if a.organization != "" {
		form.Set("Organization", a.organization)
	}

	_, err := client.PostForm(ctx, constants.LogonPath, form, true)
	if err != nil {
		// Only an HTTP-level rejection means bad credentials; transport
		// failures keep their own identity.
		resErr := &dwapi.ResourceError{}
		if !errors.As(err, &resErr) {
			return nil, fmt.Errorf("logging on: %w", err)
		}

		return nil, &dwapi.AccountError{
			Message:    fmt.Sprintf("log in failed with code %d", resErr.StatusCode),
			StatusCode: resErr.StatusCode,
			Err:        err,
		}
	}

	a.cookies = client.Cookies()

	return dwapi.SessionState(a.cookies).Copy(), nil
}

// Authenticate restores the saved cookies into the client's cookie jar. When
// no cookies were ever captured there is nothing to restore; the condition is
// logged once, and the pending replay is left to fail on its own.
func (a *CookieAuthenticator) Authenticate(_ context.Context, client *dwhttp.Client) error {
	if len(a.cookies) > 0 {
		if a.logger != nil {
			a.logger.Debug("Authenticating with cookies", nil)
		}

		client.SetCookies(a.cookies)

		return nil
	}

	if !a.warned && a.logger != nil {
		a.logger.Warn("Cookie authentication not available", nil)
		a.warned = true
	}

	return nil
}

// Logoff hits the logoff endpoint, invalidating the server-side session.
func (a *CookieAuthenticator) Logoff(ctx context.Context, client *dwhttp.Client) error {
	_, err := client.Do(ctx, &dwhttp.Request{
		Method:   "GET",
		Path:     constants.LogoffPath,
		Headers:  map[string]string{"Accept": "application/json"},
		NoReauth: true,
	})
	if err != nil {
		return fmt.Errorf("logging off: %w", err)
	}

	return nil
}
