// Package config предоставляет структуры и функции для загрузки конфига.
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
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	Wiki            `yaml:"wiki"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
}

// Wiki структура для настройки обращений к API Википедии
type Wiki struct {
	PageviewAPIURL   string        `yaml:"pageview_api_url" env:"WIKI_PAGEVIEW_API_URL" env-default:"https://wikimedia.org/api/rest_v1"`
	ActionAPIURL     string        `yaml:"action_api_url" env:"WIKI_ACTION_API_URL" env-default:"https://sv.wikipedia.org/w/api.php"`
	UserAgent        string        `yaml:"user_agent" env:"WIKI_USER_AGENT" env-default:"fika-analyzer/1.0"`
	Timeout          time.Duration `yaml:"timeout" env:"WIKI_TIMEOUT" env-default:"0s"`
	Project          string        `yaml:"project" env:"WIKI_PROJECT" env-default:"sv.wikipedia.org"`
	FikaPage         string        `yaml:"fika_page" env:"WIKI_FIKA_PAGE" env-default:"Wikipedia:Fikarummet"`
	QuestionsPage    string        `yaml:"questions_page" env:"WIKI_QUESTIONS_PAGE" env-default:"Wikipedia:Fikarummet/Frågor"`
	InviteesCategory string        `yaml:"invitees_category" env:"WIKI_INVITEES_CATEGORY" env-default:"Kategori:Wikipedianer som har fått en inbjudan till fikarummet"`
	StartDate        string        `yaml:"start_date" env:"WIKI_START_DATE" env-default:"20161209"`
	RefreshInterval  time.Duration `yaml:"refresh_interval" env:"WIKI_REFRESH_INTERVAL" env-default:"1h"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеширование.
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"0"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
	TTL          time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"10m"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	// RateLimit запросов в секунду ко всем эндпоинтам API, 0 отключает ограничение.
	RateLimit float64 `yaml:"rate_limit" env:"HTTP_RATE_LIMIT" env-default:"5"`
	RateBurst int     `yaml:"rate_burst" env:"HTTP_RATE_BURST" env-default:"10"`
}

// Load читает конфиг из файла CONFIG_PATH, если он задан, иначе только из переменных окружения.
func Load() (*Config, error) {
	const op = "config.Load"
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг и завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// CacheEnabled сообщает, задан ли адрес redis.
func (c *Config) CacheEnabled() bool {
	return c.AddressRedis != ""
}
