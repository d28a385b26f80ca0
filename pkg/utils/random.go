package utils

import (
	"crypto/rand"
	"strings"
)

const (
	urlSafeCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._~"
	codeCharset    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // 去掉易混淆的 0/O/1/I
)

// GenerateRandomString 生成指定长度的随机字符串 (用于 OAuth state)
func GenerateRandomString(length int) (string, error) {
	return randomFrom(urlSafeCharset, length)
}

// GenerateCode 生成大写随机码，用于订单号等
func GenerateCode(length int) (string, error) {
	return randomFrom(codeCharset, length)
}

func randomFrom(charset string, length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	var result strings.Builder
	result.Grow(length)
	for _, bVal := range b {
		result.WriteByte(charset[int(bVal)%len(charset)])
	}
	return result.String(), nil
}
