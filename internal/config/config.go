package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pybossa/pbs/pkg/pbs"
)

// ErrConfigNotFound is returned when the credentials file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// CredentialsFileName is looked up in the user's home directory.
const CredentialsFileName = ".pybossa.yaml"

// Environment variables consulted by Resolve.
const (
	EnvServer          = "PBS_SERVER"
	EnvAPIKey          = "PBS_API_KEY"
	EnvProfile         = "PBS_PROFILE"
	EnvCredentialsFile = "PBS_CREDENTIALS_FILE"
)

// Profile is one named server/key pair from the credentials file.
type Profile struct {
	Server string `yaml:"server"`
	APIKey string `yaml:"apikey"`
}

// Credentials maps profile names to profiles:
//
//	default:
//	  server: https://crowdcrafting.org
//	  apikey: 1234
//	local:
//	  server: http://localhost:5000
type Credentials map[string]Profile

// LoadCredentials reads the YAML credentials file at path.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", pbs.ErrInvalidConfig, path, err)
	}
	if creds == nil {
		creds = Credentials{}
	}
	return creds, nil
}

// DefaultCredentialsPath returns ~/.pybossa.yaml.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, CredentialsFileName), nil
}

// Overrides carries the values given on the command line. Empty fields are unset.
type Overrides struct {
	Server          string
	APIKey          string
	Profile         string
	CredentialsFile string
}

// Settings is the resolved connection configuration.
type Settings struct {
	Server  string
	APIKey  string
	Profile string
}

// Resolve merges flags, environment, the credentials profile and defaults,
// in that order of precedence. A profile that was asked for explicitly
// must exist; the default profile is optional.
func Resolve(flags Overrides, getenv func(string) string) (*Settings, error) {
	profileName := firstNonEmpty(flags.Profile, getenv(EnvProfile))
	explicitProfile := profileName != ""
	if !explicitProfile {
		profileName = pbs.DefaultProfile
	}

	credsPath := firstNonEmpty(flags.CredentialsFile, getenv(EnvCredentialsFile))
	if credsPath == "" {
		p, err := DefaultCredentialsPath()
		if err != nil && explicitProfile {
			return nil, err
		}
		credsPath = p
	}

	var profile Profile
	if credsPath != "" {
		creds, err := LoadCredentials(credsPath)
		switch {
		case errors.Is(err, ErrConfigNotFound):
			if explicitProfile {
				return nil, fmt.Errorf("%w: credentials file %s not found", pbs.ErrInvalidConfig, credsPath)
			}
		case err != nil:
			return nil, err
		default:
			p, ok := creds[profileName]
			if !ok && explicitProfile {
				return nil, fmt.Errorf("%w: profile %q not found in %s", pbs.ErrInvalidConfig, profileName, credsPath)
			}
			profile = p
		}
	}

	settings := &Settings{
		Server:  firstNonEmpty(flags.Server, getenv(EnvServer), profile.Server, pbs.DefaultServer),
		APIKey:  firstNonEmpty(flags.APIKey, getenv(EnvAPIKey), profile.APIKey),
		Profile: profileName,
	}
	settings.Server = strings.TrimRight(settings.Server, "/")
	return settings, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
