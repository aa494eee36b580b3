package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Политики обработки устаревших ответов
const (
	StaleDiscard = "discard"
	StaleApply   = "apply"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"json"`

	PicsumBaseURL string `env:"PICSUM_BASE_URL" envDefault:"https://picsum.photos/v2/list"`
	// FetchTimeout 0 - без таймаута на исходящий запрос
	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT" envDefault:"0s"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	StaleResponses string        `env:"STALE_RESPONSES" envDefault:"discard"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Настройки для MinIO, экспорт отключен при пустом MINIO_ENDPOINT
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"gallery"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`

	// События отключены при пустом RABBITMQ_URL
	RabbitMQ struct {
		RabbitMQURL      string `env:"RABBITMQ_URL"`
		RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"gallery.page_state"`
	}
}

// StorageEnabled возвращает true, если настроено файловое хранилище
func (c *Config) StorageEnabled() bool {
	return c.MinioEndpoint != ""
}

// EventsEnabled возвращает true, если настроен брокер сообщений
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StaleResponses {
	case StaleDiscard, StaleApply:
	default:
		return fmt.Errorf("некорректное значение STALE_RESPONSES: %q (используйте %q или %q)", c.StaleResponses, StaleDiscard, StaleApply)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("некорректное значение LOG_FORMAT: %q", c.LogFormat)
	}

	if c.FetchTimeout < 0 {
		return fmt.Errorf("FETCH_TIMEOUT не может быть отрицательным: %s", c.FetchTimeout)
	}

	if c.StorageEnabled() && (c.MinioAccessKeyID == "" || c.MinioSecretAccessKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY_ID и MINIO_SECRET_ACCESS_KEY обязательны при заданном MINIO_ENDPOINT")
	}
	return nil
}
