package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"realestate-api/internal/app"
	"realestate-api/internal/core/config"
	"realestate-api/internal/core/database"
	"realestate-api/internal/core/logger"
	"realestate-api/internal/repo"
	"realestate-api/internal/service"
)

// withDB 加载配置并打开数据库，fn 返回后关闭连接
func withDB(configPath string, fn func(cfg *config.Config, db *gorm.DB, l *zap.Logger) error) error {
	cfg, err := config.Read(configPath)
	if err != nil {
		return err
	}
	l, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()

	db, err := app.OpenDB(cfg, l)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(cfg, db, l)
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(*configPath, func(_ *config.Config, db *gorm.DB, l *zap.Logger) error {
				if err := database.Migrate(db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				l.Info("migrate done")
				return nil
			})
		},
	}
}

func seedCmd(configPath *string) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the admin account and default property types if missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(*configPath, func(cfg *config.Config, db *gorm.DB, l *zap.Logger) error {
				if email == "" {
					email = cfg.Seed.AdminEmail
				}
				if password == "" {
					password = cfg.Seed.AdminPassword
				}
				res, err := service.Seed(cmd.Context(), &repo.Factory{DB: db, Log: l}, email, password, l)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin created: %t, property types created: %d\n", res.AdminCreated, res.TypesCreated)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "admin-email", "", "admin email (default seed.admin_email)")
	cmd.Flags().StringVar(&password, "admin-password", "", "admin password (default seed.admin_password)")
	return cmd
}

func tokensCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Refresh token maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete refresh tokens that are expired, revoked or soft-deleted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(*configPath, func(cfg *config.Config, db *gorm.DB, l *zap.Logger) error {
				tokens := service.NewTokenService(&repo.Factory{DB: db, Log: l}, nil, cfg.JWT.RefreshTTL(), l)
				n, err := tokens.PurgeExpired(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %d refresh tokens\n", n)
				return nil
			})
		},
	})
	return cmd
}
