package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	AppName  string
	AppEnv   string
	AppPort  string
	LogLevel string
	Timezone string

	DB  DBConfig
	JWT JWTConfig
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Failed to read .env file")
	}

	return &Config{
		AppName:  getEnv("APP_NAME", "blog-api"),
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: os.Getenv("APP_TIMEZONE"),

		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "pgx"),
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		JWT: JWTConfig{
			Secret: os.Getenv("SECRET_KEY"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
