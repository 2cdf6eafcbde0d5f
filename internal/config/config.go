package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config carries every environment-sourced setting. It is built once
// in main and passed down explicitly; nothing reads the environment
// after startup.
type Config struct {
	ServerPort     string
	JWTSecret      string
	MigrationsPath string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
}

// Load reads .env (if present) and the process environment. A missing
// .env file is fine in deployed environments where variables are set
// directly.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:     getenv("SERVER_PORT", "8080"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "file://migrations"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         getenv("DB_PORT", "3306"),
		DBName:         os.Getenv("DB_NAME"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.DBUser == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("DB_USER and DB_NAME must be set")
	}
	return cfg, nil
}

// DSN renders the MySQL connection string. parseTime makes the driver
// scan DATE/DATETIME columns into time.Time.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
