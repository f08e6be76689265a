package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv                 string
	LogLevel               slog.Level
	ApiServicePort         string
	DatabaseURL            string
	DatabaseConnectRetries int64
	JWTSecret              string
	JWTAlgorithm           string
	JWTEffectSeconds       int64
	BcryptCost             int64
	HashWorkers            int64
	RedisHost              string
	RedisPort              int64
	RedisPassword          string
	RedisDB                int64
	PostCacheTTL           int64 // Post cache TTL in seconds
}

// LoadConfig reads the environment, after merging an optional .env file.
// Variables already present in the environment win over the file.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:                 getEnv("APP_ENV", "development"),                         // Default development
		LogLevel:               getLogLevel(),                                            // Default INFO
		ApiServicePort:         getEnv("API_SERVICE_PORT", "8080"),                       // Default 8080
		DatabaseURL:            getEnv("DATABASE_URL", "sqlite://network_db/network.db"), // Default local SQLite file
		DatabaseConnectRetries: getEnvAsInt64("DATABASE_CONNECT_RETRIES", 30),            // Default 30 attempts
		JWTSecret:              getEnv("JWT_SECRET_KEY", "some_key"),                     // Default secret key
		JWTAlgorithm:           strings.ToUpper(getEnv("JWT_ALGORITHM", "HS256")),        // Default HS256
		JWTEffectSeconds:       getEnvAsInt64("JWT_EFFECT_SECONDS", 86400),               // Default 24 hours
		BcryptCost:             getEnvAsInt64("BCRYPT_COST", 10),                         // Default bcrypt.DefaultCost
		HashWorkers:            getEnvAsInt64("HASH_WORKERS", 4),                         // Default 4 concurrent hashes
		RedisHost:              getEnv("REDIS_HOST", "redis"),                            // Default redis
		RedisPort:              getEnvAsInt64("REDIS_PORT", 6379),                        // Default 6379
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),                             // Default empty
		RedisDB:                getEnvAsInt64("REDIS_DB", 0),                             // Default 0
		PostCacheTTL:           getEnvAsInt64("POST_CACHE_TTL", 300),                     // Default 5 minutes
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
