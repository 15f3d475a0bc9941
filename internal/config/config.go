package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	LLM      LLMConfig
	Postgres PostgresConfig
	Redis    RedisConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token signing and the admin credential pair.
type AuthConfig struct {
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes float64
	AdminUsername            string
	AdminPassword            string
	AdminUserID              string
	BcryptCost               int
}

// LLMConfig holds provider credentials and batch limits.
type LLMConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	BatchConcurrency int
}

// PostgresConfig holds DB connection values. An empty DSN disables activity persistence.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables the activity stream.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	ActivityStream string
}

const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama3-70b-8192"
)

// Load reads configuration from environment variables, applying defaults where possible.
// SECRET_KEY, ALGORITHM and GROQ_API_KEY are required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	expireMinutes, err := strconv.ParseFloat(getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "30"), 64)
	if err != nil || !validExpireMinutes(expireMinutes) {
		return nil, apperrors.NewConfigurationError("invalid ACCESS_TOKEN_EXPIRE_MINUTES", map[string]any{
			"value": os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"),
		})
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "quiz-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "1.0.0"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 120),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			SecretKey:                os.Getenv("SECRET_KEY"),
			Algorithm:                os.Getenv("ALGORITHM"),
			AccessTokenExpireMinutes: expireMinutes,
			AdminUsername:            getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword:            getEnv("ADMIN_PASSWORD", "admin"),
			AdminUserID:              getEnv("ADMIN_USER_ID", "123"),
			BcryptCost:               getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		LLM: LLMConfig{
			APIKey:           os.Getenv("GROQ_API_KEY"),
			BaseURL:          getEnv("GROQ_BASE_URL", DefaultGroqBaseURL),
			Model:            getEnv("GROQ_MODEL", DefaultGroqModel),
			BatchConcurrency: getEnvAsInt("LLM_BATCH_CONCURRENCY", 4),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:           os.Getenv("REDIS_ADDR"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             redisDB,
			ActivityStream: getEnv("REDIS_ACTIVITY_STREAM", "quiz:activity"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails when any required option is absent.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Auth.SecretKey) == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if strings.TrimSpace(c.Auth.Algorithm) == "" {
		missing = append(missing, "ALGORITHM")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		missing = append(missing, "GROQ_API_KEY")
	}
	if len(missing) > 0 {
		return apperrors.NewConfigurationError(
			"missing required configuration: "+strings.Join(missing, ", "),
			map[string]any{"missing": missing},
		)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL converts the configured minutes into a duration.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes * float64(time.Minute))
}

// maxExpireMinutes is the largest TTL representable as a time.Duration.
const maxExpireMinutes = float64(math.MaxInt64) / float64(time.Minute)

func validExpireMinutes(m float64) bool {
	return !math.IsNaN(m) && !math.IsInf(m, 0) && m > 0 && m < maxExpireMinutes
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
