package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	LLM     LLMConfig
	PDF     PDFConfig
	Session SessionConfig
	Stream  StreamConfig
}

type AppConfig struct {
	Name               string
	Host               string
	Port               string
	Environment        string
	Debug              bool
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisAddr          string
}

type LLMConfig struct {
	Provider       string // "openai" or "ollama"
	Model          string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OllamaBaseURL  string
	TimeoutSeconds int
}

type PDFConfig struct {
	MaxSizeMB int
	MaxPages  int
}

type SessionConfig struct {
	MaxAgeSeconds        int
	SweepIntervalSeconds int
}

type StreamConfig struct {
	StatusDelayMs int
	TokenDelayMs  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Name:               getEnv("APP_NAME", "Document QA Chatbot"),
			Host:               getEnv("BACKEND_HOST", "0.0.0.0"),
			Port:               getEnv("BACKEND_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			Debug:              getEnvAsBool("DEBUG", false),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisAddr:          getEnv("REDIS_ADDR", ""),
		},
		LLM: LLMConfig{
			Provider:       getEnv("LLM_PROVIDER", "openai"),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			TimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", 120),
		},
		PDF: PDFConfig{
			MaxSizeMB: getEnvAsInt("MAX_PDF_SIZE_MB", 10),
			MaxPages:  getEnvAsInt("MAX_PDF_PAGES", 100),
		},
		Session: SessionConfig{
			MaxAgeSeconds:        getEnvAsInt("SESSION_MAX_AGE_SECONDS", 86400),
			SweepIntervalSeconds: getEnvAsInt("SESSION_SWEEP_INTERVAL_SECONDS", 600),
		},
		Stream: StreamConfig{
			StatusDelayMs: getEnvAsInt("STREAM_STATUS_DELAY_MS", 50),
			TokenDelayMs:  getEnvAsInt("STREAM_TOKEN_DELAY_MS", 20),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
