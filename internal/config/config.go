package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs from the environment.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	ServerPort string
	LogLevel   string

	UploadDir     string
	UploadBaseURL string
}

// Load reads configuration from a .env file (if present) and the
// environment. JWT_SECRET is the only variable without a default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "moneybuddy"),
		DBPassword:    getenv("DB_PASSWORD", ""),
		DBName:        getenv("DB_NAME", "moneybuddy"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		ServerPort:    getenv("SERVER_PORT", "8080"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		UploadDir:     getenv("UPLOAD_DIR", "./uploads"),
		UploadBaseURL: getenv("UPLOAD_BASE_URL", "http://localhost:8080/uploads"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("environment variable REDIS_DB must be an integer, got %q", v)
		}
		cfg.RedisDB = n
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}
	return cfg, nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
