package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"hatim-app-go/pkg/logger"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	HTTPPort string
	Env      string
	Store    string
	Hatim    HatimConfig
	HTTP     HTTPConfig
	DB       DBConfig
	Supabase SupabaseConfig
}

type HatimConfig struct {
	TotalPages     int
	TriggerEnabled bool
	SweepInterval  time.Duration
	TeamCacheTTL   time.Duration
}

type HTTPConfig struct {
	ConcurrencyLimit   int
	ConcurrencyBacklog int
	BacklogTimeout     time.Duration
	RequestTimeout     time.Duration
	CORSOrigins        string
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type SupabaseConfig struct {
	URL            string
	PublishableKey string
	AuthTimeout    time.Duration
	SkipAuth       bool
	MockUserID     string
	MockUserEmail  string
	MockUserName   string
	MockUserAvatar string
}

// Load reads configuration from the environment. Values missing from the
// environment are taken from .env, then from the YAML file named by
// CONFIG_FILE.
func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := loadYAMLFile(os.Getenv("CONFIG_FILE"), log); err != nil {
		return Config{}, fmt.Errorf("load config file: %w", err)
	}

	cfg := Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		Store:    getEnv("STORE", StorePostgres),
		Hatim: HatimConfig{
			TotalPages:     getEnvInt("HATIM_TOTAL_PAGES", 604),
			TriggerEnabled: getEnvBool("HATIM_TRIGGER_ENABLED", true),
			SweepInterval:  getEnvDuration("HATIM_SWEEP_INTERVAL", 5*time.Minute),
			TeamCacheTTL:   getEnvDuration("TEAM_CACHE_TTL", 30*time.Second),
		},
		HTTP: HTTPConfig{
			ConcurrencyLimit:   getEnvInt("HATIM_CONCURRENCY_LIMIT", 10),
			ConcurrencyBacklog: getEnvInt("HATIM_CONCURRENCY_BACKLOG", 50),
			BacklogTimeout:     getEnvDuration("HATIM_BACKLOG_TIMEOUT", 30*time.Second),
			RequestTimeout:     getEnvDuration("HTTP_REQUEST_TIMEOUT", 60*time.Second),
			CORSOrigins:        getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "hatim_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			PublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
			AuthTimeout:    getEnvDuration("SUPABASE_AUTH_TIMEOUT", 5*time.Second),
			SkipAuth:       getEnvBool("AUTH_SKIP", false),
			MockUserID:     getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail:  getEnv("AUTH_MOCK_USER_EMAIL", ""),
			MockUserName:   getEnv("AUTH_MOCK_USER_NAME", ""),
			MockUserAvatar: getEnv("AUTH_MOCK_USER_AVATAR_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	if c.Hatim.TotalPages < 1 {
		return fmt.Errorf("HATIM_TOTAL_PAGES must be at least 1, got %d", c.Hatim.TotalPages)
	}
	if c.HTTP.ConcurrencyLimit < 1 {
		return fmt.Errorf("HATIM_CONCURRENCY_LIMIT must be at least 1, got %d", c.HTTP.ConcurrencyLimit)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
