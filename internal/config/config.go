package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrMissingAppID = errors.New("FB_APP_ID is not set")

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Facebook FacebookConfig `yaml:"facebook"`
	Session  SessionConfig  `yaml:"session"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowOrigins    string        `yaml:"allow_origins"`
}

type FacebookConfig struct {
	AppID       string        `yaml:"app_id"`
	AppSecret   string        `yaml:"app_secret"`
	RedirectURL string        `yaml:"redirect_url"`
	Scopes      []string      `yaml:"scopes"`
	GraphURL    string        `yaml:"graph_url"`
	DialogURL   string        `yaml:"dialog_url"`
	Version     string        `yaml:"version"`
	Timeout     time.Duration `yaml:"timeout"`
	RPS         float64       `yaml:"rps"`
	Burst       int           `yaml:"burst"`
}

type SessionConfig struct {
	TTL          time.Duration `yaml:"ttl"`
	CookieSecure bool          `yaml:"cookie_secure"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Facebook: FacebookConfig{
			RedirectURL: "http://localhost:8080/auth/callback",
			GraphURL:    "https://graph.facebook.com",
			DialogURL:   "https://www.facebook.com",
			Version:     "v20.0",
			Timeout:     30 * time.Second,
			RPS:         10,
			Burst:       5,
		},
		Session: SessionConfig{
			TTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the config from defaults, then the YAML file at path (if any),
// then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}

	if cfg.Facebook.AppID == "" {
		return cfg, ErrMissingAppID
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	str("HTTP_ADDR", &cfg.HTTP.Addr)
	str("CORS_ALLOW_ORIGINS", &cfg.HTTP.AllowOrigins)
	str("FB_APP_ID", &cfg.Facebook.AppID)
	str("FB_APP_SECRET", &cfg.Facebook.AppSecret)
	str("FB_REDIRECT_URL", &cfg.Facebook.RedirectURL)
	str("FB_GRAPH_BASE_URL", &cfg.Facebook.GraphURL)
	str("FB_DIALOG_URL", &cfg.Facebook.DialogURL)
	str("FB_GRAPH_VERSION", &cfg.Facebook.Version)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	if v, ok := lookup("FB_SCOPES"); ok {
		cfg.Facebook.Scopes = splitList(v)
	}

	durations := map[string]*time.Duration{
		"GRAPH_TIMEOUT":    &cfg.Facebook.Timeout,
		"SESSION_TTL":      &cfg.Session.TTL,
		"SHUTDOWN_TIMEOUT": &cfg.HTTP.ShutdownTimeout,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	if v, ok := lookup("GRAPH_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid GRAPH_RPS: %w", err)
		}
		cfg.Facebook.RPS = f
	}
	if v, ok := lookup("GRAPH_BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GRAPH_BURST: %w", err)
		}
		cfg.Facebook.Burst = n
	}
	if v, ok := lookup("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		cfg.Session.CookieSecure = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
