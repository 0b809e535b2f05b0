package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 访问令牌载荷
type Claims struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	IsAgent   bool   `json:"isAgent"`
	jwt.RegisteredClaims
}

// UserID 解析 UID；格式不对返回 0
func (c *Claims) UserID() uint {
	id, err := strconv.ParseUint(c.UID, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

type Identity struct {
	ID        uint
	Email     string
	FirstName string
	LastName  string
	Role      string
	IsAgent   bool
}

type JWTer struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Now      func() time.Time // 测试可替换
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Issue 签发 HS256 访问令牌，返回 token 与过期时间
func (j *JWTer) Issue(id Identity) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(j.TTL)
	claims := Claims{
		UID:       strconv.FormatUint(uint64(id.ID), 10),
		Email:     id.Email,
		Name:      id.FirstName + " " + id.LastName,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Role:      id.Role,
		IsAgent:   id.IsAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.ID), 10),
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if j.Audience != "" {
		claims.Audience = jwt.ClaimStrings{j.Audience}
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithIssuer(j.Issuer),
		jwt.WithLeeway(60 * time.Second),
		jwt.WithTimeFunc(j.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if j.Audience != "" {
		opts = append(opts, jwt.WithAudience(j.Audience))
	}
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return j.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
