package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
)

type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	// LLM completion settings for the natural-language search endpoint.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	LLMTimeout time.Duration
	DBTimeout  time.Duration

	Env string
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func Load() Config {
	addr := os.Getenv("CATFOOD_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o"
	}

	llmTimeout := cast.ToInt(os.Getenv("LLM_TIMEOUT_SECONDS"))
	if llmTimeout <= 0 {
		llmTimeout = 15
	}
	dbTimeout := cast.ToInt(os.Getenv("DB_TIMEOUT_SECONDS"))
	if dbTimeout <= 0 {
		dbTimeout = 10
	}

	return Config{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   model,
		LLMTimeout:    time.Duration(llmTimeout) * time.Second,
		DBTimeout:     time.Duration(dbTimeout) * time.Second,
		Env:           os.Getenv("APP_ENV"),
	}
}
