package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	App       AppConfig       `toml:"app"`
	Auth      AuthConfig      `toml:"auth"`
	Database  DatabaseConfig  `toml:"database"`
	MySQL     MySQLConfig     `toml:"mysql"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
	SMTP      SMTPConfig      `toml:"smtp"`
	Reset     ResetConfig     `toml:"reset"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
	// TrustedProxies lists proxy IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `toml:"trusted_proxies"`
}

type DatabaseConfig struct {
	Driver     string `toml:"driver"`
	SQLitePath string `toml:"sqlite_path"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

// RedisConfig with an empty Addr disables the cafe cache and keeps
// sessions in process memory.
type RedisConfig struct {
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	CafeTTLSeconds int    `toml:"cafe_ttl_seconds"`
}

// RabbitMQConfig with an empty URL sends reset mail inline.
type RabbitMQConfig struct {
	URL            string `toml:"url"`
	ResetMailQueue string `toml:"reset_mail_queue"`
}

type AuthConfig struct {
	SessionSecret     string `toml:"session_secret"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
	CookieSecure      bool   `toml:"cookie_secure"`
}

// SMTPConfig with an empty Host logs reset codes instead of mailing them.
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

type ResetConfig struct {
	CodeTTLMinutes int `toml:"code_ttl_minutes"`
	MaxAttempts    int `toml:"max_attempts"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `toml:"requests_per_minute"`
	Burst             int `toml:"burst"`
}

func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL:
	case DriverSQLite:
		if strings.TrimSpace(c.Database.SQLitePath) == "" {
			return fmt.Errorf("database.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.App.Env != "dev" && c.Auth.SessionSecret == defaultSessionSecret {
		return fmt.Errorf("auth.session_secret must be changed outside dev")
	}
	if c.Auth.SessionTTLMinutes <= 0 {
		return fmt.Errorf("auth.session_ttl_minutes must be positive")
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLMinutes) * time.Minute
}

func (c *Config) CafeCacheTTL() time.Duration {
	return time.Duration(c.Redis.CafeTTLSeconds) * time.Second
}

func (c *Config) ResetCodeTTL() time.Duration {
	return time.Duration(c.Reset.CodeTTLMinutes) * time.Minute
}

func (c *Config) IsDev() bool {
	return c.App.Env == "dev"
}

const defaultSessionSecret = "change-me-in-production"

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "cafehub",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
		},
		Auth: AuthConfig{
			SessionSecret:     defaultSessionSecret,
			SessionTTLMinutes: 7 * 24 * 60,
			CookieSecure:      false,
		},
		Database: DatabaseConfig{
			Driver:     DriverSQLite,
			SQLitePath: "db-cafes.db",
		},
		MySQL: MySQLConfig{
			Host:     "127.0.0.1",
			Port:     3306,
			User:     "root",
			Password: "",
			DB:       "cafehub",
			Params:   "parseTime=true&loc=Local&charset=utf8mb4",
		},
		Redis: RedisConfig{
			Addr:           "",
			Password:       "",
			DB:             0,
			CafeTTLSeconds: 300,
		},
		RabbitMQ: RabbitMQConfig{
			URL:            "",
			ResetMailQueue: "cafehub.reset.mail",
		},
		SMTP: SMTPConfig{
			Host: "",
			Port: 587,
			From: "no-reply@cafehub.local",
		},
		Reset: ResetConfig{
			CodeTTLMinutes: 15,
			MaxAttempts:    5,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 20,
			Burst:             5,
		},
	}
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	// existing environment wins over the file
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file failed: %w", err)
	}
	return nil
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.TrustedProxies = getEnvAsList("TRUSTED_PROXIES", cfg.App.TrustedProxies)

	cfg.Auth.SessionSecret = getEnv("SESSION_SECRET", cfg.Auth.SessionSecret)
	cfg.Auth.SessionTTLMinutes = getEnvAsInt("SESSION_TTL_MINUTES", cfg.Auth.SessionTTLMinutes)
	cfg.Auth.CookieSecure = getEnvAsBool("COOKIE_SECURE", cfg.Auth.CookieSecure)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.SQLitePath = getEnv("SQLITE_PATH", cfg.Database.SQLitePath)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.CafeTTLSeconds = getEnvAsInt("REDIS_CAFE_TTL_SECONDS", cfg.Redis.CafeTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.ResetMailQueue = getEnv("RABBITMQ_RESET_MAIL_QUEUE", cfg.RabbitMQ.ResetMailQueue)

	cfg.SMTP.Host = getEnv("SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = getEnvAsInt("SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", cfg.SMTP.Username)
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", cfg.SMTP.Password)
	cfg.SMTP.From = getEnv("SMTP_FROM", cfg.SMTP.From)

	cfg.Reset.CodeTTLMinutes = getEnvAsInt("RESET_CODE_TTL_MINUTES", cfg.Reset.CodeTTLMinutes)
	cfg.Reset.MaxAttempts = getEnvAsInt("RESET_MAX_ATTEMPTS", cfg.Reset.MaxAttempts)

	cfg.RateLimit.RequestsPerMinute = getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", cfg.RateLimit.RequestsPerMinute)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
