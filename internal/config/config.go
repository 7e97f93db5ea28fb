package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds application level configuration loaded from environment variables.
// It is read once at startup and treated as immutable afterwards.
type Config struct {
	ServerPort   string `validate:"required"`
	CookieSecure bool
	SwaggerHost  string
	LogLevel     string `validate:"oneof=debug info warn error"`

	DBDriver    string `validate:"oneof=postgres mysql sqlite"`
	DatabaseURL string `validate:"required"`

	RedisAddr string
	RedisDB   int `validate:"gte=0"`
	RedisPass string

	SessionSecret string        `validate:"required,min=16"`
	SessionTTL    time.Duration `validate:"gt=0"`

	SupabaseURL string `validate:"required,url"`
	SupabaseKey string `validate:"required"`

	InferenceProvider string  `validate:"oneof=huggingface gemini"`
	HFToken           string  `validate:"required_if=InferenceProvider huggingface"`
	HFInferenceURL    string  `validate:"required,url"`
	GeminiAPIKey      string  `validate:"required_if=InferenceProvider gemini"`
	AIModel           string  `validate:"required"`
	MaxNewTokens      int     `validate:"gt=0"`
	Temperature       float64 `validate:"gte=0,lte=2"`

	AdminPasskey string `validate:"required"`

	OTLPEndpoint string
	OTLPInsecure bool
}

// Load builds Config from environment with sensible defaults and validates it.
// Missing secrets fail here rather than at first use.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 8*time.Hour),

		SupabaseURL: strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey: os.Getenv("SUPABASE_KEY"),

		InferenceProvider: strings.ToLower(getEnv("INFERENCE_PROVIDER", "huggingface")),
		HFToken:           os.Getenv("HF_TOKEN"),
		HFInferenceURL:    strings.TrimRight(getEnv("HF_INFERENCE_URL", "https://router.huggingface.co/hf-inference/models"), "/"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		AIModel:           os.Getenv("AI_MODEL"),
		MaxNewTokens:      getEnvInt("AI_MAX_NEW_TOKENS", 350),
		Temperature:       getEnvFloat("AI_TEMPERATURE", 0.3),

		AdminPasskey: os.Getenv("ADMIN_PASSKEY"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that every required field is set and well-formed.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
