package config

import (
	commonconfig "github.com/urbanly-services/provider-dashboard/internal/common/config"
)

const envPrefix = "DASHBOARD"

// Config holds all settings for the provider dashboard service.
type Config struct {
	AppEnv     string
	ServerPort string
	Database   commonconfig.DatabaseConfig
	JWT        commonconfig.JWTConfig
	Kafka      commonconfig.KafkaConfig
}

// Load reads configuration from DASHBOARD_-prefixed environment variables.
func Load() (*Config, error) {
	v, err := commonconfig.Load(envPrefix)
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "provider_dashboard")
	v.SetDefault("SERVER_PORT", "8084")

	return &Config{
		AppEnv:     commonconfig.GetAppEnv(v),
		ServerPort: commonconfig.GetServicePort(v, "SERVER_PORT"),
		Database:   commonconfig.LoadDatabaseConfig(v, "DB_NAME"),
		JWT:        commonconfig.LoadJWTConfig(v),
		Kafka:      commonconfig.LoadKafkaConfig(v),
	}, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
