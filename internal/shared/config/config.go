package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds application configuration. Rate fields are per minute and
// zero disables the limit; SessionCreatePerMin is counted per client IP.
type Config struct {
	Port                string
	CORSAllowOrigin     []string
	Env                 string        `validate:"oneof=dev local staging production"`
	RankingServiceURL   string        `validate:"required,url"`
	RankingTimeout      time.Duration `validate:"min=0"`
	MaxResumes          int           `validate:"min=0"`
	SessionTTL          time.Duration `validate:"min=0"`
	SubmitRatePerMin    int           `validate:"min=0"`
	SessionCreatePerMin int           `validate:"min=0"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		CORSAllowOrigin:     splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		Env:                 normalizeEnv(getEnv("ENV", "dev")),
		RankingServiceURL:   strings.TrimRight(getEnv("RANKING_SERVICE_URL", "http://localhost:5000"), "/"),
		RankingTimeout:      time.Duration(getEnvInt("RANKING_TIMEOUT_SECONDS", 0)) * time.Second,
		MaxResumes:          getEnvInt("MAX_RESUMES", 0),
		SessionTTL:          time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		SubmitRatePerMin:    getEnvInt("RATE_LIMIT_SUBMIT_PER_MIN", 30),
		SessionCreatePerMin: getEnvInt("RATE_LIMIT_SESSION_CREATE_PER_MIN", 20),
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("config: %v", err)
	}
	return cfg
}

// Validate checks field constraints declared on Config.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			parts := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(parts, ", "))
		}
		return err
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		log.Printf("config: ignoring %s=%q", key, raw)
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
