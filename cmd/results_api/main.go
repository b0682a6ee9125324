package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/DjordjeVuckovic/weight-forge/internal/router"
	"github.com/DjordjeVuckovic/weight-forge/internal/server"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/weight-forge/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	storeCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage config", "error", err)
		os.Exit(1)
	}

	reader, err := factory.NewRunReader(context.Background(), storeCfg)
	if err != nil {
		slog.Error("Failed to create run reader", "error", err)
		os.Exit(1)
	}

	var healthChecker pkgserver.HealthChecker = pkgserver.NewOkHealthChecker()
	if pinger, ok := reader.(storage.Pinger); ok {
		healthChecker = pkgserver.NewPingHealthChecker(pinger.Ping)
	}

	e := echo.New()
	e.HideBanner = true

	s := server.NewServer(e, sCfg)

	runsRouter := router.NewRunsRouter(e, reader, healthChecker)
	runsRouter.Bind()

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Weight Forge results API is running")
	})

	if err := s.Start(); err != nil {
		e.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
