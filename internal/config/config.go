package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port              string
	DatabaseURL       string
	DBTimeZone        string
	JWTSecret         string
	CORSOrigins       string
	RedisURL          string // empty disables the cross-instance relay
	AMQPURL           string // empty disables the broker feed
	WSQueueSize       int
	WSPingInterval    time.Duration
	LowStockThreshold int
}

const defaultJWTSecret = "your-super-secret-key-change-in-production"

// Load reads configuration from the environment. godotenv.Load is expected to
// have run already so values from .env are visible here.
func Load() *Config {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBTimeZone:        getEnv("DB_TIMEZONE", "America/Argentina/Buenos_Aires"),
		JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		RedisURL:          os.Getenv("REDIS_URL"),
		AMQPURL:           os.Getenv("AMQP_URL"),
		WSQueueSize:       getEnvInt("WS_QUEUE_SIZE", 256),
		WSPingInterval:    getEnvDuration("WS_PING_INTERVAL", 30*time.Second),
		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 10),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "host=" + getEnv("DB_HOST", "localhost") +
			" user=" + getEnv("DB_USER", "postgres") +
			" password=" + getEnv("DB_PASSWORD", "postgres") +
			" dbname=" + getEnv("DB_NAME", "pos") +
			" port=" + getEnv("DB_PORT", "5432") +
			" sslmode=disable TimeZone=" + cfg.DBTimeZone
	}

	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("[WARN] JWT_SECRET not set, using the development default")
	}
	if cfg.CORSOrigins == "*" {
		log.Println("[WARN] CORS_ORIGINS allows every origin")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[WARN] invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[WARN] invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
