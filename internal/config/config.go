package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string
	DBLogLevel string

	RedisHost     string
	RedisPort     string
	SessionSecret string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	MediaRoot string
	MediaURL  string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "taskflow"),
		DBPassword: getEnv("DB_PASSWORD", "taskflow"),
		DBName:     getEnv("DB_NAME", "taskflow"),
		DBPath:     getEnv("DB_PATH", "data/taskflow.db"),
		DBLogLevel: getEnv("DB_LOG_LEVEL", "warn"),

		// Empty REDIS_HOST keeps sessions in signed cookies.
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),

		JWTSecret:       getEnv("JWT_SECRET", "default-jwt-secret-change-me"),
		AccessTokenTTL:  getEnvAsDuration("ACCESS_TOKEN_TTL", 60*time.Minute),
		RefreshTokenTTL: getEnvAsDuration("REFRESH_TOKEN_TTL", 24*time.Hour),

		MediaRoot: getEnv("MEDIA_ROOT", "media"),
		MediaURL:  getEnv("MEDIA_URL", "/media"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer value for %s, defaulting to %d", key, defaultValue)
		return defaultValue
	}
	return intVal
}

// getEnvAsDuration accepts Go duration strings ("90m") or a bare number of minutes.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if minutes := getEnvAsInt(key, 0); minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}
	log.Printf("Invalid duration for %s, defaulting to %s", key, defaultValue)
	return defaultValue
}
