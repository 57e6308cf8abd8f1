package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	DB     DatabaseConfig
	JWT    JWTConfig
	Cache  CacheConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	Path string
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// CacheConfig applies to every row cache. SweepInterval <= 0 leaves eviction lazy.
type CacheConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

// DefaultJWT returns the signing settings used when nothing is configured.
// It does not touch the environment.
func DefaultJWT() JWTConfig {
	return JWTConfig{
		Secret:   "development-insecure-secret-change-me",
		Issuer:   "agent-settings-api",
		Audience: "agent-settings-clients",
		TTL:      24 * time.Hour,
	}
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present.
func Load() *Config {
	_ = godotenv.Load()

	jwtDefaults := DefaultJWT()
	return &Config{
		Server: ServerConfig{
			Port:    GetEnv("SERVER_PORT", "8008"),
			GinMode: GetEnv("GIN_MODE", "release"),
		},
		DB: DatabaseConfig{
			Path: GetEnv("DB_PATH", "agent-settings.db"),
		},
		JWT: JWTConfig{
			Secret:   GetEnv("JWT_SECRET", jwtDefaults.Secret),
			Issuer:   GetEnv("JWT_ISSUER", jwtDefaults.Issuer),
			Audience: GetEnv("JWT_AUDIENCE", jwtDefaults.Audience),
			TTL:      GetDurationEnv("JWT_TTL", jwtDefaults.TTL),
		},
		Cache: CacheConfig{
			TTL:           GetDurationEnv("CACHE_TTL", time.Minute),
			SweepInterval: GetDurationEnv("CACHE_SWEEP_INTERVAL", 0),
		},
		Log: LogConfig{
			Level:  GetEnv("LOG_LEVEL", "info"),
			Format: GetEnv("LOG_FORMAT", "json"),
		},
	}
}

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetDurationEnv accepts Go durations ("90s") or a bare number of milliseconds.
func GetDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
