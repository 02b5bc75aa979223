package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PanelAddr     string        // Listen address of the admin panel
	APIBase       string        // Base URL of the students REST API
	APIAddr       string        // Listen address of the development REST backend
	RedisAddr     string        // Redis server address
	RedisPassword string        // Redis password, empty for none
	RedisDB       int           // Redis logical database
	ToastTTL      time.Duration // Lifetime of a notification before it self-removes
	LogLevel      string
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "8"))
	if err != nil {
		return Config{}, errors.New("REDIS_DB must be an integer")
	}
	ttl, err := time.ParseDuration(getEnv("TOAST_TTL", "5s"))
	if err != nil {
		return Config{}, errors.New("TOAST_TTL must be a duration such as 5s")
	}

	return Config{
		PanelAddr:     getEnv("PANEL_ADDR", ":5000"),
		APIBase:       getEnv("API_BASE", "http://localhost:8080/api"),
		APIAddr:       getEnv("API_ADDR", ":8080"),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		ToastTTL:      ttl,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
