package auth

import (
	dwhttp "github.com/docutrack-io/dwapi-client/internal/http"
	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

// Select picks the authentication variant for a config. An explicit
// UseOAuth2 wins; otherwise a saved session dictates the variant that
// produced it (a session blob with an access token is an OAuth2 session, one
// without is a cookie session), and with no saved session at all the token
// variant is the default.
func Select(config *dwapi.Config, logger dwhttp.Logger) dwhttp.Authenticator {
	useOAuth2 := true
	if config.UseOAuth2 != nil {
		useOAuth2 = *config.UseOAuth2
	} else if len(config.SavedSession) > 0 && !config.SavedSession.HasAccessToken() {
		useOAuth2 = false
	}

	if useOAuth2 {
		return NewOAuth2Authenticator(config.Username, config.Password, config.Organization, config.SavedSession, logger)
	}

	return NewCookieAuthenticator(config.Username, config.Password, config.Organization, config.SavedSession, logger)
}
