// Файл: config/config.go
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port string
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Address  string
	Password string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type AuthConfig struct {
	// AdminPIN используется, только если ADMIN_PIN_HASH не задан.
	AdminPIN     string
	AdminPINHash string
}

type QueueConfig struct {
	// Метка гишета по умолчанию для нового контекста оператора.
	DefaultDesk string
}

type InsightsConfig struct {
	APIKey string
	Model  string
}

type Config struct {
	Server   ServerConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Queue    QueueConfig
	Insights InsightsConfig
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "./data/queue.db"),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET_KEY", "9A4D2AD385B2BAA8DC78F558B548F"),
			AccessTokenTTL:  time.Hour * 24,
			RefreshTokenTTL: time.Hour * 24 * 7,
		},
		Auth: AuthConfig{
			AdminPIN:     getEnv("ADMIN_PIN", "1234"),
			AdminPINHash: getEnv("ADMIN_PIN_HASH", ""),
		},
		Queue: QueueConfig{
			DefaultDesk: getEnv("DEFAULT_DESK", "Guichê 01"),
		},
		Insights: InsightsConfig{
			APIKey: getEnv("ANTHROPIC_API_KEY", ""),
			Model:  getEnv("INSIGHTS_MODEL", "claude-sonnet-4-5-20250929"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
