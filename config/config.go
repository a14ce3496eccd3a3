// Package config resolves the settings every other package consumes.
//
// A Config is built once at startup by Resolve and passed explicitly
// into the component constructors; there are no ambient globals. Field
// values resolve with a fixed precedence: explicit option, then
// settings file, then built-in default. The signing secret is the
// exception: it is only ever the explicit argument to Resolve and is
// never read from a file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/palisade-io/go-jwt-auth/token"
)

// Mode selects which of the two document API endpoints the revocation
// store client targets.
type Mode string

const (
	// ModeInternal targets the API on the internal network path.
	ModeInternal Mode = "internal"

	// ModePublic targets the API on the public network path.
	ModePublic Mode = "public"
)

// DefaultSettingsFile is the settings path Resolve tries when none is
// configured.
const DefaultSettingsFile = "settings.yaml"

// Built-in defaults, applied when no settings file is present.
const (
	DefaultAccessTokenTTL      = 30 * time.Minute
	DefaultRefreshTokenTTL     = 24 * time.Hour
	DefaultInternalAPIURL      = "http://localhost:3001"
	DefaultBlacklistCollection = "jwt_blacklist"
)

// requiredKeys must all be present when a settings file exists. A file
// that answers for only part of the configuration is treated as a
// configuration error, not padded with defaults.
var requiredKeys = []string{
	"jwt.algorithm",
	"jwt.access_token_expires",
	"jwt.refresh_token_expires",
	"api.mode",
	"mongodb.internal_api_url",
	"mongodb.public_api_url",
	"mongodb.blacklist.collection",
	"mongodb.blacklist.enabled",
	"app.debug",
	"app.load_local_env",
}

// Logger is the minimal logging interface the resolver needs.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config is the resolved, immutable configuration.
type Config struct {
	// Secret signs and verifies every token. Never serialized.
	Secret string

	// Algorithm is the HMAC signing algorithm.
	Algorithm token.Algorithm

	// AccessTokenTTL and RefreshTokenTTL are the default lifetimes for
	// issued tokens.
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Mode picks which API URL StoreURL returns.
	Mode Mode

	// InternalAPIURL and PublicAPIURL are the two reachable endpoints
	// of the document API backing the revocation store.
	InternalAPIURL string
	PublicAPIURL   string

	// BlacklistCollection names the revocation collection.
	BlacklistCollection string

	// BlacklistEnabled switches the revocation check on or off.
	BlacklistEnabled bool

	// Debug enables verbose logging in the consuming application.
	Debug bool

	// LoadLocalEnv mirrors the settings file's app.load_local_env
	// switch. It is carried for the caller; the resolver itself never
	// touches the environment. See LoadLocalSecrets.
	LoadLocalEnv bool
}

// Resolve builds a Config from the secret, the settings file and the
// given options.
//
// A missing settings file is not an error: Resolve logs a warning and
// continues with the built-in defaults. A settings file that exists but
// cannot be parsed, or that lacks any required key, aborts resolution
// with an error matching ErrInvalidConfiguration. No partially
// populated Config is ever returned.
func Resolve(secret string, opts ...Option) (*Config, error) {
	o := &options{settingsFile: DefaultSettingsFile}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, &ConfigurationError{details: err}
		}
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := Config{
		Secret:              secret,
		Algorithm:           token.HS256,
		AccessTokenTTL:      DefaultAccessTokenTTL,
		RefreshTokenTTL:     DefaultRefreshTokenTTL,
		Mode:                ModeInternal,
		InternalAPIURL:      DefaultInternalAPIURL,
		BlacklistCollection: DefaultBlacklistCollection,
		BlacklistEnabled:    true,
	}

	if err := applySettingsFile(&cfg, o.settingsFile, logger); err != nil {
		return nil, err
	}

	for _, override := range o.overrides {
		override(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("configuration resolved", "config", cfg.String())

	return &cfg, nil
}

func applySettingsFile(cfg *Config, path string, logger Logger) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("settings file not found, using built-in defaults", "path", path)
			return nil
		}
		return configErrorf("could not read settings file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return configErrorf("could not parse settings file %s: %w", path, err)
	}

	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			return configErrorf("settings file %s is missing required key %q", path, key)
		}
	}

	cfg.Algorithm = token.Algorithm(v.GetString("jwt.algorithm"))
	cfg.AccessTokenTTL = time.Duration(v.GetInt("jwt.access_token_expires")) * time.Minute
	cfg.RefreshTokenTTL = time.Duration(v.GetInt("jwt.refresh_token_expires")) * time.Minute
	cfg.Mode = Mode(v.GetString("api.mode"))
	cfg.InternalAPIURL = v.GetString("mongodb.internal_api_url")
	cfg.PublicAPIURL = v.GetString("mongodb.public_api_url")
	cfg.BlacklistCollection = v.GetString("mongodb.blacklist.collection")
	cfg.BlacklistEnabled = v.GetBool("mongodb.blacklist.enabled")
	cfg.Debug = v.GetBool("app.debug")
	cfg.LoadLocalEnv = v.GetBool("app.load_local_env")

	return nil
}

// Validate checks the configuration without touching the filesystem or
// the network. Every failure matches ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return configErrorf("signing secret cannot be empty")
	}
	if !token.SupportedAlgorithm(string(c.Algorithm)) {
		return configErrorf("unsupported signing algorithm: %s", c.Algorithm)
	}
	if c.AccessTokenTTL <= 0 {
		return configErrorf("access token lifetime must be positive")
	}
	if c.RefreshTokenTTL <= 0 {
		return configErrorf("refresh token lifetime must be positive")
	}
	if c.Mode != ModeInternal && c.Mode != ModePublic {
		return configErrorf("unrecognized api mode: %s", c.Mode)
	}
	if c.BlacklistEnabled {
		if c.StoreURL() == "" {
			return configErrorf("blacklist is enabled but the %s api url is empty", c.Mode)
		}
		if c.BlacklistCollection == "" {
			return configErrorf("blacklist is enabled but the collection name is empty")
		}
	}

	return nil
}

// StoreURL returns the document API endpoint selected by the mode.
func (c *Config) StoreURL() string {
	if c.Mode == ModePublic {
		return c.PublicAPIURL
	}
	return c.InternalAPIURL
}

// String renders the configuration for logs. The secret is redacted.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Secret:[redacted] Algorithm:%s AccessTokenTTL:%s RefreshTokenTTL:%s Mode:%s StoreURL:%s BlacklistCollection:%s BlacklistEnabled:%t Debug:%t}",
		c.Algorithm,
		c.AccessTokenTTL,
		c.RefreshTokenTTL,
		c.Mode,
		c.StoreURL(),
		c.BlacklistCollection,
		c.BlacklistEnabled,
		c.Debug,
	)
}

// LoadLocalSecrets loads environment variables from the given dotenv
// files, defaulting to ".env" when none are named. It is the caller's
// counterpart to the settings file's app.load_local_env switch, meant
// for local development where the signing secret lives in a dotenv
// file. Variables already present in the environment are not
// overwritten.
func LoadLocalSecrets(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("could not load local env file: %w", err)
	}
	return nil
}
