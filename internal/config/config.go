package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Client
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	Auth struct {
		BcryptCost int
		// TokenTTL of zero means issued tokens never expire.
		TokenTTL        time.Duration
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}

	Client struct {
		BaseURL     string
		SessionPath string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("token_ttl", "720h")
	v.SetDefault("token_cleanup_schedule", "0 3 * * *")
	v.SetDefault("client_base_url", DefaultBaseURL)
	v.SetDefault("client_session_path", DefaultSessionPath)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		Auth: Auth{
			BcryptCost:      v.GetInt("bcrypt_cost"),
			TokenTTL:        v.GetDuration("token_ttl"),
			CleanupSchedule: v.GetString("token_cleanup_schedule"),
		},
		Client: Client{
			BaseURL:     v.GetString("client_base_url"),
			SessionPath: v.GetString("client_session_path"),
		},
	}
}
