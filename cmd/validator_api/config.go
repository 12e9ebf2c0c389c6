package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/cptool/internal/server"
	"github.com/DjordjeVuckovic/cptool/internal/storage/factory"
	"github.com/DjordjeVuckovic/cptool/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type ValidatorConfig struct {
	Server        *server.Config
	StorageConfig *factory.StorageConfig
	GrammarDir    string
	Debug         bool
}

func (as *AppConfig) Load() (*ValidatorConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/validator_api/.env")
	if err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	serverCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server configuration from environment", "error", err)
		return nil, err
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	return &ValidatorConfig{
		Server:        serverCfg,
		StorageConfig: storageCfg,
		GrammarDir:    os.Getenv("GRAMMAR_DIR"),
		Debug:         os.Getenv("LOG_LEVEL") == "debug",
	}, nil
}
