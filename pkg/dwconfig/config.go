// Package dwconfig loads platform credentials from a config file and
// persists session blobs between runs, so applications can resume a session
// instead of logging in on every start.
package dwconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/docutrack-io/dwapi-client/internal/constants"
	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

// Credentials holds everything a fresh login needs.
type Credentials struct {
	URL          string `mapstructure:"url"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Organization string `mapstructure:"organization"`
}

// ToConfig converts the credentials into a client config.
func (c *Credentials) ToConfig() *dwapi.Config {
	return &dwapi.Config{
		PlatformURL:  c.URL,
		Username:     c.Username,
		Password:     c.Password,
		Organization: c.Organization,
	}
}

// LoadCredentials reads credentials from path. Any format viper understands
// works; the keys are url, username, password, and organization. Environment
// variables with the DW_ prefix (DW_URL, DW_USERNAME, DW_PASSWORD,
// DW_ORGANIZATION) override file values. An empty path looks for
// credentials.{json,yml,toml,...} in the current directory.
func LoadCredentials(path string) (*Credentials, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("credentials")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DW")
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"url", "username", "password", "organization"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding environment: %w", err)
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			// Environment variables alone may still be enough.
			err = nil
		} else {
			return nil, fmt.Errorf("reading credentials: %w", err)
		}
	}

	var creds Credentials

	err = v.Unmarshal(&creds)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	if creds.URL == "" && creds.Username == "" {
		return nil, dwapi.ErrCredentialFileMissing
	}

	return &creds, nil
}

// SessionStore persists session blobs as JSON files, one per platform
// account, with owner-only permissions.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store writing to path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load reads the persisted session blob. A missing file is not an error; it
// returns a nil session, meaning a fresh login is needed.
func (s *SessionStore) Load() (dwapi.SessionState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var session dwapi.SessionState

	err = json.Unmarshal(data, &session)
	if err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}

	return session, nil
}

// Save writes the session blob, creating parent directories as needed.
func (s *SessionStore) Save(session dwapi.SessionState) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		err = os.MkdirAll(dir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("creating session directory: %w", err)
		}
	}

	err = os.WriteFile(s.path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}

// Delete removes the persisted session, if any.
func (s *SessionStore) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}

	return nil
}
