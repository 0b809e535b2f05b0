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

	// 路由（用户端）
	r := router.NewAPIEngine(log, a.Deps(), a.RouterOptions(cfg.App.HTTP))
	a.Serve("user api", cfg.App.HTTP, r, "/api/v1")
}
