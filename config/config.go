package config

import (
	"errors"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrMissingOpenAIAPIKey = errors.New("the OPENAI_API_KEY environment variable is not set, check your .env file")
)

type OpenAI struct {
	OpenAIAPIKey     string  `env:"OPENAI_API_KEY"`
	Model            string  `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	OpenAIBaseURL    string  `yaml:"open_ai_base_url" env:"OPENAI_BASE_URL"`
	ModelTemperature float32 `yaml:"model_temperature" env:"MODEL_TEMPERATURE" env-default:"0.7"`
}

type HTTP struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"120s"`
}

type Session struct {
	// Backend selects where session state lives: "memory" or "redis".
	Backend       string        `yaml:"backend" env:"SESSION_BACKEND" env-default:"memory"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" env:"SESSION_IDLE_TIMEOUT" env-default:"2h"`
	RedisEndpoint string        `yaml:"redis_endpoint" env:"REDIS_ENDPOINT" env-default:"localhost:6379"`
}

type Chat struct {
	// MaxPromptTokens caps the rendered prompt size by trimming the oldest
	// conversation turns. 0 disables trimming and resends the full
	// transcript on every turn.
	MaxPromptTokens int `yaml:"max_prompt_tokens" env:"MAX_PROMPT_TOKENS" env-default:"0"`
}

type Config struct {
	OpenAI  OpenAI  `yaml:"openai"`
	HTTP    HTTP    `yaml:"http"`
	Session Session `yaml:"session"`
	Chat    Chat    `yaml:"chat"`
}

func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(cfgPath); err == nil {
		if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.OpenAI.OpenAIAPIKey == "" {
		return nil, ErrMissingOpenAIAPIKey
	}
	return &cfg, nil
}
