package service

import (
	"time"

	"go.uber.org/zap"

	"realestate-api/internal/core/auth"
	"realestate-api/internal/core/cache"
	"realestate-api/internal/repo"
)

// Services 路由层需要的全部服务
type Services struct {
	Types      *PropertyTypeService
	Properties *PropertyService
	Images     *PropertyImageService
	Inquiries  *InquiryService
	Users      *UserService
	Tokens     *TokenService
	Auth       *AuthService
}

// New c 可为 nil（不启用缓存）
func New(f *repo.Factory, c *cache.Cache, j *auth.JWTer, refreshTTL time.Duration, l *zap.Logger) *Services {
	tokens := NewTokenService(f, j, refreshTTL, l)
	return &Services{
		Types:      NewPropertyTypeService(f, c, l),
		Properties: NewPropertyService(f, c, l),
		Images:     NewPropertyImageService(f, c, l),
		Inquiries:  NewInquiryService(f, c, l),
		Users:      NewUserService(f, c, tokens, l),
		Tokens:     tokens,
		Auth:       NewAuthService(f, tokens, l),
	}
}
