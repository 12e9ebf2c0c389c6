// Package main cptool Validator API
// @title cptool Validator API
// @version 1.0
// @description Strict single-pass validation of competitive programming inputs against named grammars.
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"log/slog"
	"os"

	_ "github.com/DjordjeVuckovic/cptool/docs"
	"github.com/DjordjeVuckovic/cptool/internal/registry"
	"github.com/DjordjeVuckovic/cptool/internal/router"
	"github.com/DjordjeVuckovic/cptool/internal/server"
	"github.com/DjordjeVuckovic/cptool/internal/storage/factory"
	"github.com/DjordjeVuckovic/cptool/internal/validation"
	pkgserver "github.com/DjordjeVuckovic/cptool/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	cfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	reg := registry.NewDefault()
	if cfg.GrammarDir != "" {
		n, err := reg.LoadDir(cfg.GrammarDir)
		if err != nil {
			slog.Error("Failed to load grammars", "dir", cfg.GrammarDir, "error", err)
			os.Exit(1)
		}
		slog.Info("Grammars loaded", "dir", cfg.GrammarDir, "count", n)
	}

	s := server.New(cfg.Server, pkgserver.NewOkHealthChecker())

	backend, err := factory.NewBackend(s.Context(), cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to open verdict storage", "type", cfg.StorageConfig.Type, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	s.SetHealthChecker(backend.Health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "cptool validator API is running")
	})

	svc := validation.NewService(reg,
		validation.WithStorer(backend.Storer),
		validation.WithMaxInputBytes(cfg.Server.MaxInputBytes),
	)
	router.NewValidationRouter(s.Echo, svc, reg, router.WithVerdictReader(backend.Reader)).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		backend.Close()
		os.Exit(1)
	}
}
