package aliexpress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrAuthorizationRequired 没有可用 token，或 refresh token 已被拒绝，需要卖家重新授权
	ErrAuthorizationRequired = errors.New("aliexpress: authorization required")
	// ErrNotConfigured 未配置 app key / secret
	ErrNotConfigured = errors.New("aliexpress: app key or secret not configured")
)

// APIError AliExpress 返回的业务错误
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
	SubCode    string
	SubMsg     string
	RequestID  string
	Type       string
	RetryAfter time.Duration
}

// RetryAfterDuration 供 retry 读取 Retry-After
func (e *APIError) RetryAfterDuration() time.Duration { return e.RetryAfter }

func (e *APIError) Error() string {
	var sb strings.Builder
	sb.WriteString("aliexpress api error")
	if e.HTTPStatus > 0 {
		fmt.Fprintf(&sb, " (http %d)", e.HTTPStatus)
	}
	if e.Code != "" {
		fmt.Fprintf(&sb, ": code=%s", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&sb, " msg=%s", e.Message)
	}
	if e.SubCode != "" {
		fmt.Fprintf(&sb, " sub_code=%s", e.SubCode)
	}
	if e.SubMsg != "" {
		fmt.Fprintf(&sb, " sub_msg=%s", e.SubMsg)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&sb, " request_id=%s", e.RequestID)
	}
	return sb.String()
}

var tokenExpiredCodes = map[string]bool{
	"illegalaccesstoken":  true,
	"invalidsession":      true,
	"sessionexpired":      true,
	"accesstokenexpired":  true,
	"invalid_session":     true,
	"isv.invalid-session": true,
	"27":                  true,
}

var rateLimitCodes = map[string]bool{
	"apicalllimit":       true,
	"appcalllimited":     true,
	"7":                  true,
	"isv.api-call-limit": true,
	"accesscontrollimit": true,
	"frequency_limited":  true,
	"isp.call-limited":   true,
}

// IsTokenExpired access token 过期或失效
func (e *APIError) IsTokenExpired() bool {
	if e.HTTPStatus == http.StatusUnauthorized {
		return true
	}
	if tokenExpiredCodes[strings.ToLower(e.Code)] || tokenExpiredCodes[strings.ToLower(e.SubCode)] {
		return true
	}
	sub := strings.ToLower(e.SubCode)
	return strings.Contains(sub, "session-expired") || strings.Contains(sub, "invalid-session") ||
		strings.Contains(sub, "access-token")
}

// StatusCode 映射为 HTTP 语义，供 retry.Classify 判断
func (e *APIError) StatusCode() int {
	if e.HTTPStatus >= 400 {
		return e.HTTPStatus
	}
	if e.IsTokenExpired() {
		return http.StatusUnauthorized
	}
	if rateLimitCodes[strings.ToLower(e.Code)] || rateLimitCodes[strings.ToLower(e.SubCode)] {
		return http.StatusTooManyRequests
	}
	if strings.EqualFold(e.Type, "ISP") || strings.EqualFold(e.Type, "SYSTEM") ||
		strings.HasPrefix(strings.ToLower(e.SubCode), "isp.") {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

// flexString 兼容数字和字符串两种 JSON 表示
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

func (f flexString) String() string { return string(f) }

type errorResponse struct {
	Code      flexString `json:"code"`
	Msg       string     `json:"msg"`
	SubCode   string     `json:"sub_code"`
	SubMsg    string     `json:"sub_msg"`
	RequestID string     `json:"request_id"`
}

type iopEnvelope struct {
	Code      *flexString `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id"`
	Type      string      `json:"type"`
}

type respResult struct {
	RespCode *flexString `json:"resp_code"`
	RespMsg  string      `json:"resp_msg"`
}

type methodResponse struct {
	RespResult *respResult `json:"resp_result"`
	RspCode    *flexString `json:"rsp_code"`
	RspMsg     string      `json:"rsp_msg"`
	RequestID  string      `json:"request_id"`
}

// decodeEnvelope 识别多种错误信封，成功返回 nil
//
//	{"error_response":{"code":..,"msg":..,"sub_code":..,"sub_msg":..}}
//	{"code":"IllegalAccessToken","message":..,"request_id":..,"type":"ISV"}
//	{"<method>_response":{"resp_result":{"resp_code":500,"resp_msg":..}}}
//	{"<method>_response":{"rsp_code":"500","rsp_msg":..}}
func decodeEnvelope(httpStatus int, body []byte, method string) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		if httpStatus >= 400 {
			return &APIError{HTTPStatus: httpStatus, Message: truncate(string(body), 200)}
		}
		return &APIError{HTTPStatus: httpStatus, Code: "InvalidResponse", Message: "响应不是合法 JSON"}
	}

	// 1. TOP 风格
	if raw, ok := probe["error_response"]; ok {
		var er errorResponse
		_ = json.Unmarshal(raw, &er)
		return &APIError{
			HTTPStatus: statusIfError(httpStatus),
			Code:       er.Code.String(),
			Message:    er.Msg,
			SubCode:    er.SubCode,
			SubMsg:     er.SubMsg,
			RequestID:  er.RequestID,
		}
	}

	// 2. IOP 风格，code 为 "0" 表示成功
	var iop iopEnvelope
	_ = json.Unmarshal(body, &iop)
	if iop.Code != nil && iop.Code.String() != "" && iop.Code.String() != "0" {
		return &APIError{
			HTTPStatus: statusIfError(httpStatus),
			Code:       iop.Code.String(),
			Message:    iop.Message,
			RequestID:  iop.RequestID,
			Type:       iop.Type,
		}
	}

	// 3. 业务接口包装
	if method != "" {
		if raw, ok := probe[responseKey(method)]; ok {
			var mr methodResponse
			_ = json.Unmarshal(raw, &mr)
			if mr.RespResult != nil && mr.RespResult.RespCode != nil && mr.RespResult.RespCode.String() != "200" {
				return &APIError{
					HTTPStatus: statusIfError(httpStatus),
					Code:       mr.RespResult.RespCode.String(),
					Message:    mr.RespResult.RespMsg,
					RequestID:  mr.RequestID,
				}
			}
			if mr.RspCode != nil && mr.RspCode.String() != "" && mr.RspCode.String() != "200" && mr.RspCode.String() != "0" {
				return &APIError{
					HTTPStatus: statusIfError(httpStatus),
					Code:       mr.RspCode.String(),
					Message:    mr.RspMsg,
					RequestID:  mr.RequestID,
				}
			}
		}
	}

	// 4. HTTP 层失败但 body 没有可识别的错误信封
	if httpStatus >= 400 {
		msg := iop.Message
		if msg == "" {
			msg = truncate(string(body), 200)
		}
		return &APIError{HTTPStatus: httpStatus, Message: msg, RequestID: iop.RequestID}
	}
	return nil
}

func responseKey(method string) string {
	return strings.ReplaceAll(method, ".", "_") + "_response"
}

func statusIfError(status int) int {
	if status >= 400 {
		return status
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
