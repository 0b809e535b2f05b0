// Package app 三个可执行文件共用的装配：配置 → DB → 缓存 → 服务
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"realestate-api/internal/core/auth"
	"realestate-api/internal/core/cache"
	"realestate-api/internal/core/config"
	"realestate-api/internal/core/database"
	"realestate-api/internal/core/server"
	"realestate-api/internal/repo"
	"realestate-api/internal/service"
	"realestate-api/internal/transport/http/handler"
	"realestate-api/internal/transport/http/router"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Cache *cache.Cache // redis 未启用时为 nil
	JWT   *auth.JWTer
	UOW   *repo.Factory
	Svc   *service.Services
}

func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		PrepareStmt:        cfg.DB.PrepareStmt,
		Logger:             l,
	})
}

// Open 按配置完成迁移与种子数据
func Open(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := OpenDB(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	a := &App{
		Cfg: cfg,
		Log: l,
		DB:  db,
		JWT: &auth.JWTer{
			Secret:   []byte(cfg.JWT.Secret),
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
			TTL:      cfg.JWT.AccessTTL(),
		},
		UOW: &repo.Factory{DB: db, Log: l},
	}

	if cfg.DB.Seed {
		if _, err := service.Seed(ctx, a.UOW, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, l); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	if cfg.Redis.Enable {
		a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		a.Cache.Prefix = cfg.Redis.KeyPrefix
		a.Cache.TTL = time.Duration(cfg.Redis.TTLMin) * time.Minute
		a.Cache.Log = l
		// 连不上只告警，缓存层会按未命中处理
		if err := a.Cache.RDB.Ping(ctx).Err(); err != nil {
			l.Warn("redis unreachable, running without cache hits", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	a.Svc = service.New(a.UOW, a.Cache, a.JWT, cfg.JWT.RefreshTTL(), l)
	return a, nil
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (a *App) Deps() handler.Deps { return handler.Deps{Svc: a.Svc, JWT: a.JWT} }

func (a *App) RouterOptions(h config.HTTP) router.Options {
	mode := "debug"
	if a.Cfg.App.Env == "prod" || a.Cfg.App.Env == "production" {
		mode = "release"
	}
	return router.Options{
		Options: server.Options{
			Mode:           mode,
			RatePerMin:     a.Cfg.RateLimit.GeneralPerMin,
			HandlerTimeout: time.Duration(h.HandlerTimeoutSec) * time.Second,
		},
		AuthPerMin: a.Cfg.RateLimit.AuthPerMin,
	}
}

// Serve 启动 HTTP 并阻塞到 SIGINT/SIGTERM，然后优雅关闭
func (a *App) Serve(name string, h config.HTTP, handler http.Handler, paths ...string) {
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(addr, handler,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	// 启动前打印可点击地址
	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(h.Port)
	fields := []zap.Field{zap.String("addr", addr), zap.String("open", baseURL), zap.String("health", baseURL+"/health")}
	for _, p := range paths {
		fields = append(fields, zap.String(p, baseURL+p))
	}
	a.Log.Info(name+" starting", fields...)

	go func() {
		if err := server.StartHTTP(srv, a.Log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatal(name+" start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.Log.Warn(name+" shutdown", zap.Error(err))
	}
	a.Log.Info(name + " stopped gracefully")
}
