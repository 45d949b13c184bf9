package config

import (
	"errors"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"io/fs"
	"os"
	"time"
)

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"dev"`
	Server    HTTPServer      `yaml:"server" env-prefix:"SERVER_"`
	Postgres  PostgresConfig  `yaml:"postgres" env-prefix:"PG_"`
	Session   SessionConfig   `yaml:"session" env-prefix:"SESSION_"`
	RateLimit RateLimitConfig `yaml:"rate_limit" env-prefix:"RATE_LIMIT_"`
}

type HTTPServer struct {
	Port         string        `yaml:"port" env:"PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT" env-default:"60s"`
}

type PostgresConfig struct {
	Host     string `yaml:"host" env:"HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PORT" env-default:"5432"`
	User     string `yaml:"user" env:"USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PASSWORD" env-default:"postgres"`
	DbName   string `yaml:"dbname" env:"DBNAME" env-default:"band_manager"`
	SslMode  string `yaml:"sslmode" env:"SSLMODE" env-default:"disable"`
}

// DSN renders the libpq keyword/value connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DbName, c.SslMode)
}

type SessionConfig struct {
	CookieName    string        `yaml:"cookie_name" env:"COOKIE_NAME" env-default:"session_id"`
	TTL           time.Duration `yaml:"ttl" env:"TTL" env-default:"720h"`
	Secure        bool          `yaml:"secure" env:"SECURE" env-default:"false"`
	PurgeSchedule string        `yaml:"purge_schedule" env:"PURGE_SCHEDULE" env-default:"@hourly"`
}

type RateLimitConfig struct {
	RPS   int `yaml:"rps" env:"RPS" env-default:"20"`
	Burst int `yaml:"burst" env:"BURST" env-default:"40"`
}

// MustLoad reads .env (if present), then CONFIG_PATH (if set), then the environment.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	return cfg
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}

	return &cfg, nil
}
