package service

import (
	"context"

	"go.uber.org/zap"

	"realestate-api/internal/domain"
	"realestate-api/internal/repo"
	"realestate-api/pkg/utils"
)

var defaultPropertyTypes = []string{"Apartment", "House", "Villa", "Land", "Commercial", "Office"}

type SeedResult struct {
	AdminCreated bool `json:"adminCreated"`
	TypesCreated int  `json:"typesCreated"`
}

// Seed 管理员账号 + 默认房产类型；已存在的跳过（含已软删除的），可重复执行
func Seed(ctx context.Context, f *repo.Factory, adminEmail, adminPassword string, l *zap.Logger) (SeedResult, error) {
	if l == nil {
		l = zap.NewNop()
	}
	var res SeedResult
	u := f.New(ctx)
	defer u.Close()

	users := repo.For[domain.User](u)
	if adminEmail != "" && adminPassword != "" {
		email := normalizeEmail(adminEmail)
		exists, err := users.Exists(repo.Eq("email", email), repo.WithDeleted())
		if err != nil {
			return res, err
		}
		if !exists {
			hash, err := utils.HashPassword(adminPassword)
			if err != nil {
				return res, err
			}
			users.Add(&domain.User{
				FirstName: "System", LastName: "Admin", Email: email,
				PasswordHash: hash, Role: domain.RoleAdmin,
			})
			res.AdminCreated = true
		}
	}

	types := repo.For[domain.PropertyType](u)
	for _, name := range defaultPropertyTypes {
		exists, err := types.Exists(repo.Eq("name", name), repo.WithDeleted())
		if err != nil {
			return res, err
		}
		if !exists {
			types.Add(&domain.PropertyType{Name: name})
			res.TypesCreated++
		}
	}

	if _, err := u.Save(); err != nil {
		return SeedResult{}, err
	}
	l.Info("seed done", zap.Bool("admin_created", res.AdminCreated), zap.Int("types_created", res.TypesCreated))
	return res, nil
}
