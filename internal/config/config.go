package config

import (
	"os"
	"strconv"
)

type Config struct {
	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	HTTP_ADDR string

	// Redis cache for resolved supervisor codes and dashboard snapshots.
	// Leave REDIS_ADDR empty to run without a cache.
	REDIS_ADDR     string
	REDIS_PASSWORD string
	REDIS_DB       int

	// Identity provider (OIDC) used to verify bearer tokens on the
	// profile endpoints. Leave OIDC_ISSUER empty to disable verification.
	OIDC_ISSUER   string
	OIDC_AUDIENCE string

	// Named timezone used for all daily stats bucketing. Records are
	// stamped in this zone, so reports must bucket in it too.
	STATS_TIMEZONE string

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	return &Config{
		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		HTTP_ADDR: GetEnvOrDefault("HTTP_ADDR", "0.0.0.0:6060"),

		REDIS_ADDR:     os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:       redisDB,

		OIDC_ISSUER:   os.Getenv("OIDC_ISSUER"),
		OIDC_AUDIENCE: os.Getenv("OIDC_AUDIENCE"),

		STATS_TIMEZONE: GetEnvOrDefault("STATS_TIMEZONE", "Europe/Warsaw"),

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
