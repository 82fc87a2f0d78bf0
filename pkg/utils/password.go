package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher 先用进程密钥做 HMAC-SHA256（pepper），再交给 bcrypt。
// hex 后 64 字节，不会触发 bcrypt 的 72 字节截断。
type PasswordHasher struct {
	Pepper []byte
	Cost   int // 0 表示 bcrypt.DefaultCost
}

func NewPasswordHasher(secret string, cost int) *PasswordHasher {
	return &PasswordHasher{Pepper: []byte(secret), Cost: cost}
}

func (h *PasswordHasher) peppered(pw string) []byte {
	mac := hmac.New(sha256.New, h.Pepper)
	mac.Write([]byte(pw))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}

func (h *PasswordHasher) Hash(pw string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword(h.peppered(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *PasswordHasher) Verify(pw, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), h.peppered(pw)) == nil
}
