// Package config handles TOML-based configuration loading and validation.
// The TMDB credential is never read from the config file; it comes from the
// environment (optionally populated from a .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrMissingCredential is returned when no TMDB API key is configured.
var ErrMissingCredential = errors.New("TMDB API key not set (export TMDB_API_KEY or add it to a .env file)")

// credentialVars are checked in order; the last one matches the name used by
// the web build of the app so an existing .env keeps working.
var credentialVars = []string{"TMDB_API_KEY", "MOVIE_API_KEY", "REACT_APP_MOVIE_API_KEY"}

// Config holds all application configuration.
type Config struct {
	APIBase           string  `toml:"api_base" validate:"required,hostname"`
	ImageBase         string  `toml:"image_base" validate:"required,hostname"`
	Language          string  `toml:"language" validate:"omitempty,max=16"`
	Player            string  `toml:"player" validate:"oneof=mpv vlc iina celluloid browser"`
	Width             int     `toml:"width" validate:"min=160,max=7680"`
	Height            int     `toml:"height" validate:"min=90,max=4320"`
	History           bool    `toml:"history"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gt=0,lte=50"`
	TimeoutSeconds    int     `toml:"timeout_seconds" validate:"min=1,max=120"`
	Debug             bool    `toml:"debug"`

	// APIKey is filled by LoadCredential.
	APIKey string `toml:"-"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		APIBase:           "api.themoviedb.org",
		ImageBase:         "image.tmdb.org",
		Language:          "en-US",
		Player:            "mpv",
		Width:             1280,
		Height:            720,
		History:           true,
		RequestsPerSecond: 10,
		TimeoutSeconds:    30,
		Debug:             false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "marquee"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "marquee"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their TOML key so errors match what the user wrote.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("unsupported %s %q (valid: %s)", fe.Field(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s cannot be empty", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s %v violates %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// LoadCredential populates APIKey from the environment. A .env file in the
// working directory or the config directory is loaded first; variables already
// set in the environment are never overridden.
func (c *Config) LoadCredential() error {
	files := []string{".env"}
	if dir, err := configDir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	for _, name := range credentialVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			c.APIKey = v
			return nil
		}
	}
	return ErrMissingCredential
}

// DataDir returns the XDG-compliant data directory.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "marquee"), nil
}

// StorePath returns the path to the persisted key-value database.
func StorePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "marquee.db"), nil
}

// LogPath returns the path of the log file used while the TUI owns the terminal.
func LogPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "marquee.log"), nil
}
