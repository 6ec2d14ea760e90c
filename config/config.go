package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Import   ImportConfig
}

type DatabaseConfig struct {
	Driver   string // sqlite or postgres
	Path     string // sqlite file path
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type LogConfig struct {
	Level  string
	Format string
}

type ImportConfig struct {
	BatchSize int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Database: DatabaseConfig{
			Driver:   getEnv("FRC_DB_DRIVER", "sqlite"),
			Path:     getEnv("FRC_DB_PATH", "foodrescue.sqlite3"),
			Host:     getEnv("FRC_PG_HOST", "localhost"),
			Port:     getEnv("FRC_PG_PORT", "5432"),
			User:     getEnv("FRC_PG_USER", "foodrescue"),
			Password: getEnv("FRC_PG_PASSWORD", ""),
			DBName:   getEnv("FRC_PG_DBNAME", "foodrescue"),
			SSLMode:  getEnv("FRC_PG_SSLMODE", "disable"),
		},
		Log: LogConfig{
			Level:  getEnv("FRC_LOG_LEVEL", "info"),
			Format: getEnv("FRC_LOG_FORMAT", "console"),
		},
		Import: ImportConfig{
			BatchSize: parseInt(getEnv("FRC_BATCH_SIZE", "1000"), 1000),
		},
	}

	return config, nil
}

// DSN builds a Postgres connection string for the optional postgres backend.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Printf("Invalid integer %q, using default %d", s, defaultValue)
		return defaultValue
	}
	return n
}
