package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds environment-based settings.
type Config struct {
	Environment    string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string

	ExportDir         string
	CurlBinary        string
	TransferTimeoutMS int

	SecretsKey [32]byte

	LogFile string
}

// Load reads configuration from the environment. A .env file is applied
// first when present so local runs behave like the deployment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:    os.Getenv("APP_ENV"),
		ServerAddress:  os.Getenv("SERVER_ADDRESS"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisUsername:  os.Getenv("REDIS_USERNAME"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		MQTTBrokerURL:  os.Getenv("MQTT_BROKER_URL"),
		ExportDir:      os.Getenv("EXPORT_DIR"),
		CurlBinary:     os.Getenv("CURL_BINARY"),
		LogFile:        os.Getenv("LOG_FILE"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ServerAddress == "" {
		cfg.ServerAddress = ":8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "./migrations"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "./exports"
	}
	if cfg.CurlBinary == "" {
		cfg.CurlBinary = "curl"
	}

	if v := os.Getenv("TRANSFER_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("TRANSFER_TIMEOUT_MS must be an integer: %w", err)
		}
		cfg.TransferTimeoutMS = ms
	}

	keyHex := os.Getenv("SECRETS_KEY")
	if keyHex == "" {
		return nil, fmt.Errorf("SECRETS_KEY is required")
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("SECRETS_KEY must be 32 bytes of hex")
	}
	copy(cfg.SecretsKey[:], key)

	return cfg, nil
}
