package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppURL                   string
	Environment              string
	DatabaseDSN              string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBIdleTimeoutSeconds     int
	ConnectRetries           int
	ConnectRetryDelaySeconds int
	RedisAddr                string
	RateLimit                int
	ShutdownTimeoutSeconds   int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")

	redisAddr := ""
	if redisHost := getEnv("REDIS_HOST", ""); redisHost != "" {
		redisAddr = fmt.Sprintf("%s:%s", redisHost, getEnv("REDIS_PORT", "6379"))
	}

	cfg := Config{
		AppURL:                   fmt.Sprintf("%s:%s", appHost, appPort),
		Environment:              getEnv("APP_ENV", "development"),
		DatabaseDSN:              getEnv("DATABASE_DSN", "tasks.db"),
		DBMaxOpenConns:           getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:           getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBIdleTimeoutSeconds:     getEnvAsInt("DB_IDLE_TIMEOUT_SECONDS", 300),
		ConnectRetries:           getEnvAsInt("DB_CONNECT_RETRIES", 5),
		ConnectRetryDelaySeconds: getEnvAsInt("DB_CONNECT_RETRY_DELAY_SECONDS", 2),
		RedisAddr:                redisAddr,
		RateLimit:                getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds:   getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	validate(cfg)
	return cfg
}

// Production gates permanent deletes and cleanup.
func (c Config) Production() bool {
	return c.Environment == "production"
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.DBMaxOpenConns <= 0 {
		log.Fatal("DB_MAX_OPEN_CONNS must be greater than 0")
	}
	if cfg.DBMaxIdleConns < 0 {
		log.Fatal("DB_MAX_IDLE_CONNS must not be negative")
	}
	if cfg.ConnectRetries <= 0 {
		log.Fatal("DB_CONNECT_RETRIES must be greater than 0")
	}
	if cfg.ConnectRetryDelaySeconds <= 0 {
		log.Fatal("DB_CONNECT_RETRY_DELAY_SECONDS must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
