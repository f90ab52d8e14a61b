package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/thesrcielos/TileMapServer/internal/tilemap"
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port,
	)
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	TLS      bool
}

type Config struct {
	Port         string
	JWTSecret    string
	TilesetsFile string
	// Strict rejects maps that only have warnings.
	Strict     bool
	Duplicates tilemap.DuplicatePolicy
	CacheTTL   time.Duration
	DB         DBConfig
	Redis      RedisConfig
}

func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// Load reads the configuration from the environment. godotenv has already
// been applied by the caller when a .env file exists.
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("error converting REDIS_DB to int: %w", err)
	}

	strict, err := strconv.ParseBool(GetEnv("MAP_STRICT", "false"))
	if err != nil {
		return nil, fmt.Errorf("error parsing MAP_STRICT: %w", err)
	}

	policy, err := tilemap.ParseDuplicatePolicy(os.Getenv("MAP_DUPLICATES"))
	if err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(GetEnv("MAP_CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("error parsing MAP_CACHE_TTL: %w", err)
	}

	return &Config{
		Port:         GetEnv("PORT", "8080"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TilesetsFile: os.Getenv("TILESETS_FILE"),
		Strict:       strict,
		Duplicates:   policy,
		CacheTTL:     ttl,
		DB: DBConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     GetEnv("DB_PORT", "5432"),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
			Username: os.Getenv("REDIS_USERNAME"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			TLS:      os.Getenv("REDIS_TLS") == "true",
		},
	}, nil
}
