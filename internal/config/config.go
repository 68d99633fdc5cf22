package config

import (
	"fmt"
	neturl "net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lexpress/core/internal/pkg/mail"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 3000
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "lexpress"
	defaultDBCharset  = "utf8mb4"
	defaultRedisURL   = "redis://localhost:6379/0"
)

// AppConfig holds runtime startup configuration loaded from YAML, with
// environment variables (optionally from a .env file) taking precedence.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	Database       DatabaseConfig `yaml:"database"`
	RedisURL       string         `yaml:"redis_url"`
	JWTSecret      string         `yaml:"jwt_secret"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	SiteURL        string         `yaml:"site_url"`
	Mail           mail.Config    `yaml:"mail"`
	AI             AIConfig       `yaml:"ai"`
}

// DatabaseConfig describes the MySQL connection. A full DSN wins over the
// individual fields.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

// AIConfig selects the summary provider. Disabled when APIKey is empty.
type AIConfig struct {
	Type     string `yaml:"type"` // openai | openai-compatible | anthropic
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// Enabled reports whether summary generation is configured. A missing model
// falls back to a provider default.
func (a AIConfig) Enabled() bool {
	return strings.TrimSpace(a.APIKey) != ""
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}

// DSN returns the MySQL DSN, building one from parts when not set verbatim.
func (d DatabaseConfig) DSNValue() string {
	if v := strings.TrimSpace(d.DSN); v != "" {
		return v
	}

	host := strOr(d.Host, defaultDBHost)
	port := d.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := strOr(d.User, defaultDBUser)
	password := strOr(d.Password, defaultDBPassword)
	name := strOr(d.Name, defaultDBName)

	params := neturl.Values{}
	params.Set("charset", strOr(d.Charset, defaultDBCharset))
	params.Set("parseTime", "true")
	params.Set("loc", "Local")

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", user, password, host, port, name, params.Encode())
}

// Load reads the YAML config file and applies env overrides. A missing
// file is not an error; env-only deployment is supported.
func Load(configPath string) (*AppConfig, error) {
	// .env is optional; real env vars win over its contents.
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		RedisURL: defaultRedisURL,
	}

	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("LEX_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("LEX_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("LEX_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("LEX_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("LEX_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("LEX_SITE_URL"); v != "" {
		cfg.SiteURL = v
	}
	if v := os.Getenv("LEX_ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.AllowedOrigins = origins
	}
	if v := os.Getenv("LEX_AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
}

func strOr(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
