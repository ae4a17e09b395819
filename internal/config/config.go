package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	NATSURL          string
	JWTSecret        string
	TokenTTL         time.Duration
	SnapshotCacheTTL time.Duration
	ReaperInterval   time.Duration
	ClientIdleLimit  time.Duration
	LoginRateLimit   int
	LoginRateWindow  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("IGNITRON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "IGNITRON 2K25 API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.ttl", "60m")
	v.SetDefault("leaderboard.snapshot_ttl", "30m")
	v.SetDefault("leaderboard.reaper_interval", "45s")
	v.SetDefault("leaderboard.client_idle_limit", "2m")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_window", "1m")

	tokenTTL, err := parseDuration(v, "jwt.ttl", time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	snapshotTTL, err := parseDuration(v, "leaderboard.snapshot_ttl", 30*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid snapshot ttl: %w", err)
	}

	reaperInterval, err := parseDuration(v, "leaderboard.reaper_interval", 45*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid reaper interval: %w", err)
	}

	idleLimit, err := parseDuration(v, "leaderboard.client_idle_limit", 2*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid client idle limit: %w", err)
	}

	loginWindow, err := parseDuration(v, "auth.login_rate_window", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid login rate window: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		NATSURL:          v.GetString("nats.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		TokenTTL:         tokenTTL,
		SnapshotCacheTTL: snapshotTTL,
		ReaperInterval:   reaperInterval,
		ClientIdleLimit:  idleLimit,
		LoginRateLimit:   v.GetInt("auth.login_rate_limit"),
		LoginRateWindow:  loginWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return fallback, nil
	}

	return time.ParseDuration(raw)
}
