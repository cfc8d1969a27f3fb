package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	MongoURI    string `mapstructure:"MONGO_URI"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`
	ListenAddr  string `mapstructure:"LISTEN_ADDR"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
}

// InitConfig reads configuration from a .env file when present and
// from the environment otherwise.
func InitConfig(logger *zap.Logger) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("MONGO_DB_NAME", "agenthub")
	v.SetDefault("LISTEN_ADDR", ":8080")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Warn("No .env file found; falling back to system environment variables")
		} else {
			logger.Error("Config file read error", zap.Error(err))
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
	} else {
		logger.Info("Successfully loaded .env file", zap.String("file", v.ConfigFileUsed()))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		logger.Error("Config unmarshal error", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.MongoURI == "" {
		logger.Error("Missing required configuration", zap.String("field", "MONGO_URI"))
		return nil, fmt.Errorf("MONGO_URI is required but not set")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "development-secret"
		logger.Warn("JWT_SECRET not set, using development default")
	}

	logger.Info("Configuration initialized successfully",
		zap.String("mongo_uri", cfg.MongoURI),
		zap.String("database", cfg.MongoDBName),
		zap.String("listen_addr", cfg.ListenAddr))
	return cfg, nil
}
