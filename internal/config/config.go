// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	GRPCHealthAddress       string `yaml:"grpc_health_address" env:"GRPC_HEALTH_ADDRESS" env-default:":50051"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	Identity                `yaml:"identity"`
	Dispatch                `yaml:"dispatch"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`

	// WriteTimeout должен покрывать вызов агента и запись результата.
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"150s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"2s"`
	AgentTTL     time.Duration `yaml:"agent_ttl" env-default:"5m"`
}

// Identity структура для работы с провайдером сессий
type Identity struct {
	URL              string        `yaml:"url" env:"IDENTITY_URL" env-required:"true"`
	AnonKey          string        `yaml:"anon_key" env:"IDENTITY_ANON_KEY" env-required:"true"`
	JWTSecretKey     string        `yaml:"jwt_secret_key" env:"IDENTITY_JWT_SECRET" env-required:"true"`
	AccessCookie     string        `yaml:"access_cookie" env-default:"sb-access-token"`
	RefreshCookie    string        `yaml:"refresh_cookie" env-default:"sb-refresh-token"`
	RefreshCookieTTL time.Duration `yaml:"refresh_cookie_ttl" env-default:"720h"`
	SecureCookies    bool          `yaml:"secure_cookies" env:"IDENTITY_SECURE_COOKIES" env-default:"true"`
	RefreshTimeout   time.Duration `yaml:"refresh_timeout" env-default:"5s"`
}

// Dispatch структура для настройки вызова агентов
type Dispatch struct {
	Timeout      time.Duration `yaml:"timeout" env:"DISPATCH_TIMEOUT" env-default:"120s"`
	StoreTimeout time.Duration `yaml:"store_timeout" env:"DISPATCH_STORE_TIMEOUT" env-default:"5s"`
}

// RabbitMQ структура для настройки публикации событий
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env-default:"outputs"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// RateLimit структура для ограничения частоты запусков агентов
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"0.5"`
	Burst int     `yaml:"burst" env-default:"3"`
}

// MustLoad функция для загрузки конфига из файла по пути CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load читает конфиг по указанному пути, значения из окружения имеют приоритет
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config: %w", op, err)
	}
	return &cfg, nil
}

// String печатает конфиг без секретов
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"GRPCHealthAddress: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  WriteTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  AgentTTL: %s\n"+
			"Identity:\n"+
			"  URL: %s\n"+
			"Dispatch:\n"+
			"  Timeout: %s\n"+
			"  StoreTimeout: %s\n"+
			"RabbitMQ:\n"+
			"  Exchange: %s\n"+
			"  Enabled: %t\n",
		c.Env,
		c.MigrationsPath,
		c.GRPCHealthAddress,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.WriteTimeout,
		c.AddressRedis,
		c.DB,
		c.AgentTTL,
		c.Identity.URL,
		c.Dispatch.Timeout,
		c.StoreTimeout,
		c.Exchange,
		c.RabbitMQ.URL != "",
	)
}
