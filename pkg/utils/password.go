package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt 只取前 72 字节，超长直接拒绝
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

func HashPassword(pw string) (string, error) {
	if len(pw) > 72 {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
