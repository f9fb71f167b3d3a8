package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Defaults DefaultsConfig
	Log      LogConfig
}

type DefaultsConfig struct {
	Quality int
	Format  string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Defaults: DefaultsConfig{
			Quality: getEnvAsInt("IMGCONVERT_QUALITY", 90),
			Format:  getEnv("IMGCONVERT_FORMAT", "jpeg"),
		},
		Log: LogConfig{
			Level: getEnv("IMGCONVERT_LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
