package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for promille, stored in
// ~/.promille/config.json. The file supports single-line // comments.
type Config struct {
	Profile ProfileConfig `json:"profile"`
	API     APIConfig     `json:"api"`
	Log     LogConfig     `json:"log"`
}

// ProfileConfig holds the default body attributes used when a session file
// or flag does not provide them.
type ProfileConfig struct {
	// Weight in kilograms. Zero means "must be given per session".
	Weight float64 `json:"weight"`
	// Gender is "male" or "female".
	Gender string  `json:"gender"`
	Age    int     `json:"age"`
	Height float64 `json:"height"` // cm
}

// APIConfig configures the remote API reached through `promille api`.
type APIConfig struct {
	BaseURL       string   `json:"base_url"`
	ClientID      string   `json:"client_id"`
	DeviceAuthURL string   `json:"device_auth_url"`
	TokenURL      string   `json:"token_url"`
	Scopes        []string `json:"scopes"`
	// TokenStore is "file" or "keyring".
	TokenStore string `json:"token_store"`
	// RateLimit is the maximum number of requests per second. Zero disables
	// throttling.
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Debug bool `json:"debug"`
}

const (
	DefaultGender     = "male"
	DefaultTokenStore = "file"
	DefaultRateBurst  = 5
)

// defaultConfig returns a Config pre-filled with defaults.
func defaultConfig() Config {
	return Config{
		Profile: ProfileConfig{Gender: DefaultGender},
		API: APIConfig{
			Scopes:     []string{"offline_access"},
			TokenStore: DefaultTokenStore,
			RateBurst:  DefaultRateBurst,
		},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `// promille configuration – ~/.promille/config.json
//
// All settings are optional. Lines starting with // are ignored.
{
  // ── Default profile ──────────────────────────────────────────────────────
  // Used when a session file or the --weight/--gender flags leave them out.
  "profile": {
    // Body weight in kilograms. 0 means it must be supplied per session.
    "weight": 0,
    // "male" or "female"
    "gender": "male",
    "age": 0,
    "height": 0
  },

  // ── Remote API (promille api ...) ────────────────────────────────────────
  "api": {
    // Base URL relative request paths are joined to.
    "base_url": "",
    // OAuth2 public client used for the device code login.
    "client_id": "",
    "device_auth_url": "",
    "token_url": "",
    "scopes": ["offline_access"],
    // Where tokens are kept: "file" (~/.promille/auth/token.json) or "keyring".
    "token_store": "file",
    // Client-side throttle in requests per second; 0 disables it.
    "rate_limit": 0,
    "rate_burst": 5
  },

  // ── Logging ──────────────────────────────────────────────────────────────
  // Logs are written to ~/.promille/logs/promille.log.
  "log": {
    "debug": false
  }
}
`

// Dir returns the promille home directory (~/.promille).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".promille"), nil
}

// DefaultPath returns the path to ~/.promille/config.json.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config from the default location.
func Load() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return defaultConfig(), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, creating it with annotated defaults if
// it does not exist yet.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Backfill zero values so a partially filled file still works.
	def := defaultConfig()
	if cfg.Profile.Gender == "" {
		cfg.Profile.Gender = def.Profile.Gender
	}
	if len(cfg.API.Scopes) == 0 {
		cfg.API.Scopes = def.API.Scopes
	}
	if cfg.API.TokenStore == "" {
		cfg.API.TokenStore = def.API.TokenStore
	}
	if cfg.API.RateBurst <= 0 {
		cfg.API.RateBurst = def.API.RateBurst
	}

	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
