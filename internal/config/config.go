package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Auth struct {
		BaseURL string
		Timeout time.Duration
	}
	I18N struct {
		Supported []string
		Default   string
	}
	Log struct {
		Level  string
		Format string
	}
	SessionLifetime time.Duration
	InsecureCookies bool
}

// New returns a viper instance reading the environment (SWAP_ prefix) and an
// optional swap-web.yaml in the working directory.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("swap-web")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:swap-web.db")
	v.SetDefault("auth.timeout", "10s")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("i18n.supported", "en,es,pt")
	v.SetDefault("i18n.default", "en")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	return v
}

// Load reads config using New.
func Load() (*Config, error) {
	return FromViper(New())
}

// FromViper builds and validates a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Auth.BaseURL = strings.TrimRight(v.GetString("auth.base_url"), "/")
	cfg.I18N.Supported = SupportedLanguages(v)
	cfg.I18N.Default = strings.ToLower(v.GetString("i18n.default"))
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	timeout, err := time.ParseDuration(v.GetString("auth.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWAP_AUTH_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("SWAP_AUTH_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.Auth.Timeout = timeout

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWAP_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	if cfg.Auth.BaseURL == "" {
		return nil, fmt.Errorf("SWAP_AUTH_BASE_URL is required")
	}
	if u, err := url.Parse(cfg.Auth.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("SWAP_AUTH_BASE_URL must be an absolute URL, got %q", cfg.Auth.BaseURL)
	}
	if len(cfg.I18N.Supported) == 0 {
		return nil, fmt.Errorf("SWAP_I18N_SUPPORTED must list at least one language")
	}
	if !contains(cfg.I18N.Supported, cfg.I18N.Default) {
		return nil, fmt.Errorf("SWAP_I18N_DEFAULT %q is not in SWAP_I18N_SUPPORTED", cfg.I18N.Default)
	}

	return cfg, nil
}

// SupportedLanguages reads i18n.supported, which may be a comma-joined string
// (environment) or a YAML list.
func SupportedLanguages(v *viper.Viper) []string {
	var raw []string
	switch val := v.Get("i18n.supported").(type) {
	case string:
		raw = strings.Split(val, ",")
	default:
		raw = v.GetStringSlice("i18n.supported")
	}
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || contains(out, l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
