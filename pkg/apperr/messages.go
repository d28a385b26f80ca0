package apperr

import (
	"strings"

	"laboutique_erp_202610/pkg/retry"
)

var userMessages = map[retry.Kind]string{
	retry.KindNetwork:     "网络连接异常，请稍后重试",
	retry.KindTimeout:     "请求超时，请稍后重试",
	retry.KindRateLimited: "请求过于频繁，请稍后再试",
	retry.KindServer:      "服务暂时不可用，请稍后重试",
	retry.KindAuth:        "授权已失效，请重新登录",
	retry.KindValidation:  "请求参数有误",
	retry.KindNotFound:    "请求的资源不存在",
	retry.KindCanceled:    "请求已取消",
	retry.KindUnknown:     "系统繁忙，请稍后重试",
}

// UserMessage 面向用户的错误文案
func UserMessage(kind retry.Kind) string {
	if msg, ok := userMessages[kind]; ok {
		return msg
	}
	return userMessages[retry.KindUnknown]
}

func kindCode(kind retry.Kind) string {
	return strings.ToUpper(string(kind))
}
