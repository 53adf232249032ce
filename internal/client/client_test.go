package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docutrack-io/dwapi-client/internal/client"
	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

// platformHandler serves a minimal platform: OAuth2 discovery, token
// issuance, logon, and the root document.
func platformHandler(t *testing.T) http.HandlerFunc {
	t.Helper()

	return func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/DocuWare/Platform/Home/IdentityServiceInfo":
			_ = json.NewEncoder(writer).Encode(map[string]string{"IdentityServiceUrl": "/DocuWare/Identity"})
		case "/DocuWare/Identity/.well-known/openid-configuration":
			_ = json.NewEncoder(writer).Encode(map[string]string{"token_endpoint": "/DocuWare/Identity/connect/token"})
		case "/DocuWare/Identity/connect/token":
			_ = json.NewEncoder(writer).Encode(map[string]string{"access_token": "test-token"})
		case "/DocuWare/Platform/Account/Logon":
			http.SetCookie(writer, &http.Cookie{Name: ".DWPLATFORMAUTH", Value: "ticket", Path: "/"})
			writer.WriteHeader(http.StatusOK)
		case "/DocuWare/Platform":
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			_ = json.NewEncoder(writer).Encode(map[string]any{
				"Version": "7.8",
				"Links": []map[string]string{
					{"rel": "organizations", "href": "/DocuWare/Platform/Organizations"},
				},
				"Resources": []map[string]string{
					{"Name": "documentData", "UriPattern": "/FileCabinets/{cabinetId}/Documents/{id}/Data"},
				},
			})
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("OAuth2 login builds the navigation tables", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(platformHandler(t))
		defer server.Close()

		platform, err := client.New(context.Background(), &dwapi.Config{
			PlatformURL: server.URL,
			Username:    "admin",
			Password:    "secret",
		})
		require.NoError(t, err)

		assert.Equal(t, "7.8", platform.Version())

		url, err := platform.Endpoint("organizations")
		require.NoError(t, err)
		assert.Equal(t, "/DocuWare/Platform/Organizations", url)

		pattern, err := platform.Resource("documentData")
		require.NoError(t, err)
		assert.Equal(t, []string{"cabinetId", "id"}, pattern.Fields())

		session := platform.Session()
		assert.Equal(t, "test-token", session[dwapi.SessionAccessTokenKey])
	})

	t.Run("cookie login captures the session blob", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(platformHandler(t))
		defer server.Close()

		useOAuth2 := false

		platform, err := client.New(context.Background(), &dwapi.Config{
			PlatformURL: server.URL,
			Username:    "admin",
			Password:    "secret",
			UseOAuth2:   &useOAuth2,
		})
		require.NoError(t, err)

		session := platform.Session()
		assert.Equal(t, "ticket", session[".DWPLATFORMAUTH"])
		assert.False(t, session.HasAccessToken())
	})

	t.Run("rejected cookie login fails with an account error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		useOAuth2 := false

		_, err := client.New(context.Background(), &dwapi.Config{
			PlatformURL: server.URL,
			Username:    "admin",
			Password:    "wrong",
			UseOAuth2:   &useOAuth2,
		})
		require.Error(t, err)
		assert.True(t, dwapi.IsAccountError(err))
	})

	t.Run("missing configuration", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(context.Background(), nil)
		assert.ErrorIs(t, err, dwapi.ErrConfigRequired)

		_, err = client.New(context.Background(), &dwapi.Config{Username: "u"})
		assert.ErrorIs(t, err, dwapi.ErrPlatformURLRequired)

		_, err = client.New(context.Background(), &dwapi.Config{PlatformURL: "https://acme.example.com"})
		assert.ErrorIs(t, err, dwapi.ErrCredentialsRequired)
	})
}

func TestClient_Session_IsACopy(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(platformHandler(t))
	defer server.Close()

	platform, err := client.New(context.Background(), &dwapi.Config{
		PlatformURL: server.URL,
		Username:    "admin",
		Password:    "secret",
	})
	require.NoError(t, err)

	session := platform.Session()
	session[dwapi.SessionAccessTokenKey] = "tampered"

	assert.Equal(t, "test-token", platform.Session()[dwapi.SessionAccessTokenKey])
}

func TestClient_Logoff(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(platformHandler(t))
	defer server.Close()

	platform, err := client.New(context.Background(), &dwapi.Config{
		PlatformURL: server.URL,
		Username:    "admin",
		Password:    "secret",
	})
	require.NoError(t, err)
	require.True(t, platform.HTTPClient().HasBearerToken())

	err = platform.Logoff(context.Background())
	require.NoError(t, err)
	assert.False(t, platform.HTTPClient().HasBearerToken())
}

func TestNew_Interceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(platformHandler(t))
	defer server.Close()

	var paths []string

	chain := dwapi.NewInterceptorChain().OnRequest(func(ctx context.Context, req *dwapi.Request) error {
		paths = append(paths, req.Path)
		return nil
	})

	platform, err := client.New(context.Background(), &dwapi.Config{
		PlatformURL:  server.URL,
		Username:     "admin",
		Password:     "secret",
		Interceptors: chain,
	})
	require.NoError(t, err)

	// The whole login flow runs through the chain: discovery, token
	// request, and the platform root fetch.
	assert.Contains(t, paths, "/DocuWare/Platform/Home/IdentityServiceInfo")
	assert.Contains(t, paths, "/DocuWare/Platform")

	before := len(paths)

	_, err = platform.Endpoint("organizations")
	require.NoError(t, err)
	require.NoError(t, platform.GetJSON(context.Background(), "/DocuWare/Platform", nil))
	assert.Len(t, paths, before+1)
}
