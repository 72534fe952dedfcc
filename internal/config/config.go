package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	StaticPath     string        `mapstructure:"static_path"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	Heartbeat      time.Duration `mapstructure:"heartbeat"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	Secret         string        `mapstructure:"secret"`
	HistoryPath    string        `mapstructure:"history_path"`
	RateLimit      int           `mapstructure:"rate_limit"`
	RateInterval   time.Duration `mapstructure:"rate_interval"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("send_buffer", 32)
	// Presence heartbeat; fixed interval, no adaptive backoff.
	v.SetDefault("heartbeat", "8s")
	// Empty list means accept any origin. Suitable only for trusted
	// deployments; list your frontends explicitly in production.
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("history_path", "")
	v.SetDefault("rate_limit", 64)
	v.SetDefault("rate_interval", "1s")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Heartbeat: %s\n", cfg.Mode, cfg.Port, cfg.Heartbeat)
	return &cfg, nil
}
