// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	Rabbit                  `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Session                 `yaml:"session"`
	ResetToken              `yaml:"reset_token"`
	BootstrapAdmin          `yaml:"bootstrap_admin"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis,
// где хранятся сессии пользователей
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Rabbit структура для подключения к rabbitmq, через который
// уходят задания на отправку писем
type Rabbit struct {
	URL            string        `yaml:"url" env:"RABBITMQ_URL"`
	ResetMailQueue string        `yaml:"reset_mail_queue" env-default:"reset_mail_queue"`
	MaxRetries     int           `yaml:"max_retries" env-default:"5"`
	RetryDelay     time.Duration `yaml:"retry_delay" env-default:"3s"`
}

// SMTP структура с настройками почтового сервера
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"pass" env:"SMTP_PASS"`
}

// Session структура с настройками серверных сессий
type Session struct {
	SessionTTL   time.Duration `yaml:"ttl" env-default:"24h"`
	CookieName   string        `yaml:"cookie_name" env-default:"sid"`
	CookieSecure bool          `yaml:"cookie_secure" env-default:"false"`
}

// ResetToken структура с настройками токена восстановления пароля
type ResetToken struct {
	ResetTokenTTL time.Duration `yaml:"ttl" env-default:"24h"`
	ResetBaseURL  string        `yaml:"base_url" env-default:"http://localhost:8080/reset_password"`
}

// BootstrapAdmin данные администратора, который создается при первом запуске
type BootstrapAdmin struct {
	AdminExternalID string `yaml:"external_id" env-default:"ADMIN001"`
	AdminName       string `yaml:"name" env-default:"Administrador"`
	AdminEmail      string `yaml:"email" env:"ADMIN_EMAIL" env-default:"admin@sisalud.com"`
	AdminPassword   string `yaml:"password" env:"ADMIN_PASSWORD"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, при ошибке завершает процесс
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
