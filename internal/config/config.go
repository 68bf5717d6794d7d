package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Config struct {
	LogLevel          string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	CORSOrigin        string        `yaml:"cors-origin" env:"CORS_ORIGIN" env-default:"*"`
	SessionStore      string        `yaml:"session-store" env:"SESSION_STORE" env-default:"redis"`
	SessionTTL        time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
	SessionMax        int           `yaml:"session-max" env:"SESSION_MAX" env-default:"10000"`
	DeckPairs         int           `yaml:"deck-pairs" env:"DECK_PAIRS" env-default:"8"`
	Redis             Redis         `yaml:"redis"`
	SQLiteStoragePath string        `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"./memory_game.db"`
	ImageAPI          ImageAPI      `yaml:"image-api"`
	NATS              NATS          `yaml:"nats"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// ImageAPI points at a JSON endpoint returning an array of images. Empty URL means the built-in set is used.
type ImageAPI struct {
	URL     string        `yaml:"url" env:"IMAGE_API_URL" env-default:""`
	Timeout time.Duration `yaml:"timeout" env:"IMAGE_API_TIMEOUT" env-default:"5s"`
}

// NATS result events are disabled when URL is empty.
type NATS struct {
	URL     string `yaml:"url" env:"NATS_URL" env-default:""`
	Subject string `yaml:"subject" env:"NATS_SUBJECT" env-default:"memory.results.saved"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
