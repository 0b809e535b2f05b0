package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// NewRefreshToken 64 字节随机数，base64url 编码；不透明、不可推导
func NewRefreshToken() (string, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
