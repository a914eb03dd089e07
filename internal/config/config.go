package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the board server and client
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Security SecurityConfig `mapstructure:"security"`
	Board    BoardConfig    `mapstructure:"board"`
	Client   ClientConfig   `mapstructure:"client"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the storage driver. Driver is "postgres" or
// "sqlite"; SQLitePath is only read for the latter.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig configures the optional read cache. An empty Host disables it.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type SecurityConfig struct {
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

// BoardConfig holds rules shared by server and client.
// Done tasks leave the active board ArchiveWindow after done_at.
type BoardConfig struct {
	ArchiveWindow time.Duration `mapstructure:"archive_window"`
}

// ClientConfig configures the terminal board client
type ClientConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	RefetchInterval time.Duration `mapstructure:"refetch_interval"`
	LogFile         string        `mapstructure:"log_file"`
	// DefaultSort is the initial sort mode of every column.
	DefaultSort string `mapstructure:"default_sort"`
}

// Load reads configuration from defaults, an optional .env file and the
// environment
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind env vars: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "taskboard")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5431)
	v.SetDefault("database.name", "taskboard_db")
	v.SetDefault("database.user", "taskboard_user")
	v.SetDefault("database.password", "taskboard_pass")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.sqlite_path", "data/tasks.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", "30s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.filename", "")

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("security.rate_limit_requests", 300)
	v.SetDefault("security.rate_limit_window", "1m")

	v.SetDefault("board.archive_window", "8h")

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout", "10s")
	v.SetDefault("client.refresh_interval", "1m")
	v.SetDefault("client.refetch_interval", "5m")
	v.SetDefault("client.log_file", "board.log")
	v.SetDefault("client.default_sort", "manual")
}

func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"app.name":        "APP_NAME",
		"app.environment": "APP_ENVIRONMENT",

		"server.host":             "SERVER_HOST",
		"server.port":             "SERVER_PORT",
		"server.read_timeout":     "SERVER_READ_TIMEOUT",
		"server.write_timeout":    "SERVER_WRITE_TIMEOUT",
		"server.idle_timeout":     "SERVER_IDLE_TIMEOUT",
		"server.shutdown_timeout": "SERVER_SHUTDOWN_TIMEOUT",

		"database.driver":            "DB_DRIVER",
		"database.host":              "DB_HOST",
		"database.port":              "DB_PORT",
		"database.name":              "DB_NAME",
		"database.user":              "DB_USER",
		"database.password":          "DB_PASSWORD",
		"database.ssl_mode":          "DB_SSL_MODE",
		"database.sqlite_path":       "DB_SQLITE_PATH",
		"database.max_open_conns":    "DB_MAX_OPEN_CONNS",
		"database.max_idle_conns":    "DB_MAX_IDLE_CONNS",
		"database.conn_max_lifetime": "DB_CONN_MAX_LIFETIME",

		"redis.host":      "REDIS_HOST",
		"redis.port":      "REDIS_PORT",
		"redis.password":  "REDIS_PASSWORD",
		"redis.db":        "REDIS_DB",
		"redis.cache_ttl": "REDIS_CACHE_TTL",

		"logger.level":    "LOG_LEVEL",
		"logger.format":   "LOG_FORMAT",
		"logger.output":   "LOG_OUTPUT",
		"logger.filename": "LOG_FILENAME",

		"metrics.enabled": "ENABLE_METRICS",

		"security.rate_limit_requests": "RATE_LIMIT_REQUESTS",
		"security.rate_limit_window":   "RATE_LIMIT_WINDOW",

		"board.archive_window": "BOARD_ARCHIVE_WINDOW",

		"client.base_url":         "BOARD_API_URL",
		"client.timeout":          "BOARD_API_TIMEOUT",
		"client.refresh_interval": "BOARD_REFRESH_INTERVAL",
		"client.refetch_interval": "BOARD_REFETCH_INTERVAL",
		"client.log_file":         "BOARD_LOG_FILE",
		"client.default_sort":     "BOARD_DEFAULT_SORT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

func validateConfig(cfg *Config) error {
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if cfg.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Board.ArchiveWindow <= 0 {
		return fmt.Errorf("board archive window must be positive")
	}

	if cfg.Client.RefreshInterval < time.Second || cfg.Client.RefetchInterval < time.Second {
		return fmt.Errorf("client intervals must be at least one second")
	}

	return nil
}

// GetDSN returns the PostgreSQL connection string
func (cfg *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// GetAddr returns the Redis address
func (cfg *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// Enabled reports whether a Redis host was configured
func (cfg *RedisConfig) Enabled() bool {
	return cfg.Host != ""
}

// GetAddr returns the listen address of the HTTP server
func (cfg *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}
