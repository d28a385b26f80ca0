package aliexpress

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

const (
	SignMethodSHA256 = "sha256"
	SignMethodMD5    = "md5"
)

// CanonicalString 按 key 升序拼接 key+value
// sign 本身和空值不参与签名
func CanonicalString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "sign" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(params[k])
	}
	return sb.String()
}

// Sign 计算签名，结果为大写十六进制
//
// 系统接口（apiPath 非空，例如 /auth/token/create）：HMAC-SHA256(secret, apiPath + canonical)
// 业务接口 sha256：HMAC-SHA256(secret, canonical)
// 业务接口 md5：MD5(secret + canonical + secret)
func Sign(secret, apiPath string, params map[string]string, method string) string {
	canonical := CanonicalString(params)

	if apiPath != "" {
		return hmacSHA256(secret, apiPath+canonical)
	}

	switch method {
	case SignMethodMD5:
		sum := md5.Sum([]byte(secret + canonical + secret))
		return strings.ToUpper(hex.EncodeToString(sum[:]))
	default:
		return hmacSHA256(secret, canonical)
	}
}

// VerifySign 校验回调等场景的签名
func VerifySign(secret, apiPath string, params map[string]string, method string) bool {
	got := strings.ToUpper(params["sign"])
	if got == "" {
		return false
	}
	want := Sign(secret, apiPath, params, method)
	return hmac.Equal([]byte(got), []byte(want))
}

func hmacSHA256(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}
