package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpggio/shughuli/internal/dashboard"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	DB          DBConfig          `yaml:"db"`
	Log         LogConfig         `yaml:"log"`
	Auth        AuthConfig        `yaml:"auth"`
	Transport   TransportConfig   `yaml:"transport"`
	SMTP        SMTPConfig        `yaml:"smtp"`
	Invitations InvitationsConfig `yaml:"invitations"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// AuthConfig configures bearer tokens. DefaultUser is the username the stdio
// transport acts as.
type AuthConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Secret      string        `yaml:"secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	DefaultUser string        `yaml:"default_user"`
}

// TransportConfig selects how the MCP surface is served: "http" or "stdio".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// InvitationsConfig controls invitation expiry. A zero TTL disables expiry.
type InvitationsConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type DashboardConfig struct {
	DueSoonDays       int `yaml:"due_soon_days"`
	OverdueGraceHours int `yaml:"overdue_grace_hours"`
	ActiveLimit       int `yaml:"active_limit"`
	AgendaLimit       int `yaml:"agenda_limit"`
}

// Thresholds converts the dashboard section into aggregator thresholds.
func (d DashboardConfig) Thresholds() dashboard.Thresholds {
	return dashboard.Thresholds{
		DueSoonWindow: time.Duration(d.DueSoonDays) * 24 * time.Hour,
		OverdueGrace:  time.Duration(d.OverdueGraceHours) * time.Hour,
		ActiveLimit:   d.ActiveLimit,
		AgendaLimit:   d.AgendaLimit,
	}
}

// Default returns the built-in configuration.
func Default() Config {
	th := dashboard.DefaultThresholds()
	return Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		DB: DBConfig{
			Path: "shughuli.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			Enabled:  true,
			TokenTTL: 24 * time.Hour,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		SMTP: SMTPConfig{
			Port: 587,
			From: "no-reply@shughuli.local",
		},
		Invitations: InvitationsConfig{
			TTL: 7 * 24 * time.Hour,
		},
		Dashboard: DashboardConfig{
			DueSoonDays:       int(th.DueSoonWindow / (24 * time.Hour)),
			OverdueGraceHours: int(th.OverdueGrace / time.Hour),
			ActiveLimit:       th.ActiveLimit,
			AgendaLimit:       th.AgendaLimit,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, an optional
// .env file and environment variables, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("SHUGHULI_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	envFile := os.Getenv("SHUGHULI_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return errors.New("auth secret is required when auth is enabled (SHUGHULI_AUTH_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth token ttl must be positive")
	}
	if c.Invitations.TTL < 0 {
		return errors.New("invitation ttl must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("SHUGHULI_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if err := envInt("SHUGHULI_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if baseURL := os.Getenv("SHUGHULI_BASE_URL"); baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}
	if dbPath := os.Getenv("SHUGHULI_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("SHUGHULI_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("SHUGHULI_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}

	if err := envBool("SHUGHULI_AUTH_ENABLED", &cfg.Auth.Enabled); err != nil {
		return err
	}
	if secret := os.Getenv("SHUGHULI_AUTH_SECRET"); secret != "" {
		cfg.Auth.Secret = secret
	}
	if err := envDuration("SHUGHULI_AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL); err != nil {
		return err
	}
	if user := os.Getenv("SHUGHULI_AUTH_DEFAULT_USER"); user != "" {
		cfg.Auth.DefaultUser = user
	}
	if mode := os.Getenv("SHUGHULI_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}

	if host := os.Getenv("SHUGHULI_SMTP_HOST"); host != "" {
		cfg.SMTP.Host = host
	}
	if err := envInt("SHUGHULI_SMTP_PORT", &cfg.SMTP.Port); err != nil {
		return err
	}
	if user := os.Getenv("SHUGHULI_SMTP_USERNAME"); user != "" {
		cfg.SMTP.Username = user
	}
	if password := os.Getenv("SHUGHULI_SMTP_PASSWORD"); password != "" {
		cfg.SMTP.Password = password
	}
	if from := os.Getenv("SHUGHULI_SMTP_FROM"); from != "" {
		cfg.SMTP.From = from
	}

	if err := envDuration("SHUGHULI_INVITATION_TTL", &cfg.Invitations.TTL); err != nil {
		return err
	}
	if err := envInt("SHUGHULI_DUE_SOON_DAYS", &cfg.Dashboard.DueSoonDays); err != nil {
		return err
	}
	if err := envInt("SHUGHULI_OVERDUE_GRACE_HOURS", &cfg.Dashboard.OverdueGraceHours); err != nil {
		return err
	}
	return nil
}

func envInt(key string, dst *int) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func envBool(key string, dst *bool) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
