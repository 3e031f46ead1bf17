package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/segyhp/club-engine/pkg/utils"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Storage   StorageConfig   `mapstructure:",squash"`
	Auth      AuthConfig      `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"REDIS_HOST"`
	Port     string        `mapstructure:"REDIS_PORT"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`
}

type SchedulerConfig struct {
	GenerateCron string `mapstructure:"SCHEDULER_GENERATE_CRON"`
	AutoGenerate bool   `mapstructure:"SCHEDULER_AUTO_GENERATE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	Timezone         string `mapstructure:"APP_TIMEZONE"`
	DefaultBaseValue string `mapstructure:"DEFAULT_BASE_VALUE"`
	DefaultDueDay    int    `mapstructure:"DEFAULT_DUE_DAY"`
}

type StorageConfig struct {
	ProofDir      string `mapstructure:"PROOF_STORAGE_DIR"`
	ProofMaxBytes int64  `mapstructure:"PROOF_MAX_BYTES"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	CookieName    string        `mapstructure:"JWT_COOKIE_NAME"`
	JWTExpiration time.Duration `mapstructure:"JWT_EXPIRATION"`
}

type HealthConfig struct {
	Timeout time.Duration `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var keys = []string{
	"SERVER_PORT", "SERVER_HOST", "ENV", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
	"DATABASE_URL", "DATABASE_HOST", "DATABASE_PORT", "DATABASE_NAME", "DATABASE_USER",
	"DATABASE_PASSWORD", "DATABASE_SSLMODE", "DATABASE_MAX_OPEN_CONNS",
	"DATABASE_MAX_IDLE_CONNS", "DATABASE_CONN_MAX_LIFETIME",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
	"SCHEDULER_GENERATE_CRON", "SCHEDULER_AUTO_GENERATE",
	"LOG_LEVEL", "LOG_FORMAT",
	"APP_TIMEZONE", "DEFAULT_BASE_VALUE", "DEFAULT_DUE_DAY",
	"PROOF_STORAGE_DIR", "PROOF_MAX_BYTES",
	"JWT_SECRET", "JWT_COOKIE_NAME", "JWT_EXPIRATION",
	"HEALTH_CHECK_TIMEOUT",
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Missing .env files are fine; real environment variables win.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("deployments/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "club")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("SCHEDULER_GENERATE_CRON", "0 0 3 1 * *")
	v.SetDefault("SCHEDULER_AUTO_GENERATE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("APP_TIMEZONE", "America/Argentina/Buenos_Aires")
	v.SetDefault("DEFAULT_BASE_VALUE", "0")
	v.SetDefault("DEFAULT_DUE_DAY", 10)
	v.SetDefault("PROOF_STORAGE_DIR", "./data/proofs")
	v.SetDefault("PROOF_MAX_BYTES", 3*1024*1024)
	v.SetDefault("JWT_COOKIE_NAME", "access_token")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
	}

	if c.Business.DefaultDueDay < 1 || c.Business.DefaultDueDay > 28 {
		return fmt.Errorf("DEFAULT_DUE_DAY must be between 1 and 28")
	}

	base, err := utils.DecimalFromString(c.Business.DefaultBaseValue)
	if err != nil {
		return fmt.Errorf("DEFAULT_BASE_VALUE must be a valid decimal: %w", err)
	}
	if base.IsNegative() {
		return fmt.Errorf("DEFAULT_BASE_VALUE must not be negative")
	}

	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE must be a valid IANA zone: %w", err)
	}

	if c.Storage.ProofMaxBytes <= 0 {
		return fmt.Errorf("PROOF_MAX_BYTES must be greater than 0")
	}

	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}

	if c.Auth.JWTExpiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be a positive duration")
	}

	return nil
}

// DSN builds a lib/pq connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// Location returns the deployment time zone used for due dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Business.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDefaultBaseValue returns the default base value as decimal
func (c *Config) GetDefaultBaseValue() decimal.Decimal {
	value, _ := utils.DecimalFromString(c.Business.DefaultBaseValue)
	return value
}
