package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultStravaOAuthURL = "https://www.strava.com/oauth"
	DefaultStravaAPIURL   = "https://www.strava.com/api/v3"
	DefaultFrontendURL    = "http://localhost:5173"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// upstream
	StravaOAuthURL string `toml:"strava_oauth_url"`
	StravaAPIURL   string `toml:"strava_api_url"`
	// auth rate limiting, disabled when redis host is empty
	RedisHost                  string `toml:"redis_host"`
	RedisPort                  string `toml:"redis_port"`
	AuthRateLimitAllowedPerMin int    `toml:"auth_rate_limit_allowed_per_min"`
	// frontend (dashboard) process
	FrontendHost string `toml:"frontend_host"`
	FrontendPort int    `toml:"frontend_port"`
	BackendURL   string `toml:"backend_url"`

	FrontendMetricsPort string `toml:"frontend_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not set", env)
	}

	cfg.Environment = strings.ToLower(env)
	cfg.setDefaults()

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.StravaOAuthURL == "" {
		c.StravaOAuthURL = DefaultStravaOAuthURL
	}
	if c.StravaAPIURL == "" {
		c.StravaAPIURL = DefaultStravaAPIURL
	}
	if c.Port == 0 {
		c.Port = 3001
	}
	if c.FrontendPort == 0 {
		c.FrontendPort = 5173
	}
	if c.BackendURL == "" {
		c.BackendURL = fmt.Sprintf("http://localhost:%d", c.Port)
	}
	if c.AuthRateLimitAllowedPerMin == 0 {
		c.AuthRateLimitAllowedPerMin = 30
	}
}

// Load reads the TOML config file and returns the section for the given environment
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config %s: %w", path, err)
	}
	return t.Get(env)
}

// Env holds the settings coming from the environment (secrets and per-deploy values)
type Env struct {
	OAuth OAuth

	// overrides the port from the toml file when set
	Port             int    `env:"PORT"`
	SentryDSN        string `env:"SENTRY_DSN"`
	RedisPassword    string `env:"REDIS_PASSWORD"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
}

// OAuth is the OAuth gateway configuration; built once at startup and
// shared by the authorize and callback handlers
type OAuth struct {
	ClientID     string `env:"STRAVA_CLIENT_ID"`
	ClientSecret string `env:"STRAVA_CLIENT_SECRET"`
	RedirectURI  string `env:"STRAVA_REDIRECT_URI"`
	FrontendURL  string `env:"FRONTEND_URL, default=http://localhost:5173"`
}

// CanAuthorize reports whether the authorize redirect can be built
func (o *OAuth) CanAuthorize() bool {
	return o.ClientID != "" && o.RedirectURI != ""
}

// CanExchange reports whether an authorization code can be exchanged for a token
func (o *OAuth) CanExchange() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}

// LoadEnv preloads the optional .env files and processes the environment
func LoadEnv(ctx context.Context, dotEnvFiles ...string) (*Env, error) {
	if err := godotenv.Load(dotEnvFiles...); err != nil {
		log.Debugf("no .env file loaded, using process environment: %s", err)
	}
	return ProcessEnv(ctx, envconfig.OsLookuper())
}

// ProcessEnv resolves Env from the given lookuper
func ProcessEnv(ctx context.Context, lookuper envconfig.Lookuper) (*Env, error) {
	var env Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &env, nil
}
