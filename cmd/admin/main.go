package main

import (
	"context"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"realestate-api/internal/app"
	"realestate-api/internal/core/config"
	"realestate-api/internal/core/logger"
	"realestate-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()

	a, err := app.Open(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	// 路由（后台端）
	r := router.NewAdminEngine(log, a.Deps(), a.RouterOptions(cfg.App.Admin))
	a.Serve("admin api", cfg.App.Admin, r, "/admin/v1", "/metrics")
}
