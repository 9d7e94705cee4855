// Package config предоставляет структуры и функции для загрузки конфигурации
// из YAML-файла и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения запуска.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Бэкенды счётчиков ограничения частоты запросов.
const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// DevJWTSecret — секрет по умолчанию для локального запуска; в prod запрещён.
const DevJWTSecret = "farm-dev-secret-change-me"

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath     string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"farm.db"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwt"`
	RateLimit       `yaml:"rate_limit"`
	RedisConnection `yaml:"redis_connection"`
	LoginActivity   `yaml:"login_activity"`
	CORS            `yaml:"cors"`
}

// HTTPServer структура для настройки сервера.
// TrustedProxies — адреса и подсети прокси, чьим заголовкам X-Forwarded-For верим.
type HTTPServer struct {
	AddressHTTP    string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":5001"`
	TimeoutHTTP    time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	TrustedProxies []string      `yaml:"trusted_proxies" env:"HTTP_TRUSTED_PROXIES"`
}

// JWTToken структура для работы с токенами сессии
type JWTToken struct {
	JWTSecretKey string        `yaml:"secret" env:"JWT_SECRET" env-default:"farm-dev-secret-change-me"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RateLimit структура для настройки ограничения частоты запросов
type RateLimit struct {
	Backend    string        `yaml:"backend" env:"RATE_LIMIT_BACKEND" env-default:"memory"`
	Window     time.Duration `yaml:"window" env-default:"15m"`
	AuthMax    int           `yaml:"auth_max" env-default:"5"`
	GeneralMax int           `yaml:"general_max" env-default:"100"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// LoginActivity структура для журнала попыток входа
type LoginActivity struct {
	ActivityCapacity int `yaml:"capacity" env-default:"100"`
}

// CORS структура для настройки разрешённых источников
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// Load читает конфиг из файла path, а при пустом path — только из окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case RateLimitMemory, RateLimitRedis:
	default:
		return fmt.Errorf("unknown rate limit backend %q", c.Backend)
	}
	if c.Env == EnvProd && (c.JWTSecretKey == "" || c.JWTSecretKey == DevJWTSecret) {
		return errors.New("jwt secret must be set in prod")
	}
	if c.AuthMax <= 0 || c.GeneralMax <= 0 || c.Window <= 0 {
		return errors.New("rate limit window and maximums must be positive")
	}
	return nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH (или из окружения, если он не задан)
// и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// String печатает конфиг без секретов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StoragePath: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  TrustedProxies: %v\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"RateLimit:\n"+
			"  Backend: %s\n"+
			"  Window: %s\n"+
			"  AuthMax: %d\n"+
			"  GeneralMax: %d\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"LoginActivity:\n"+
			"  Capacity: %d\n",
		c.Env,
		c.StoragePath,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TrustedProxies,
		c.TokenTTL,
		c.Backend,
		c.Window,
		c.AuthMax,
		c.GeneralMax,
		c.AddressRedis,
		c.DB,
		c.ActivityCapacity,
	)
}
