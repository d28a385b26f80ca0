package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"laboutique_erp_202610/pkg/retry"
)

// AppError 业务错误，携带对外错误码和 HTTP 状态
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Internal   error  `json:"-"` // 内部原因，不返回给客户端
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Internal }

// Is 同码同文案视为同一错误，Wrap 后仍可用 errors.Is 匹配哨兵错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// StatusCode 供 retry.Classify 识别
func (e *AppError) StatusCode() int { return e.HTTPStatus }

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, HTTPStatus: http.StatusNotFound}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: message, HTTPStatus: http.StatusBadRequest}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: message, HTTPStatus: http.StatusUnauthorized}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: message, HTTPStatus: http.StatusForbidden}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: "CONFLICT", Message: message, HTTPStatus: http.StatusConflict}
}

func NewRateLimitError(message string) *AppError {
	return &AppError{Code: "RATE_LIMIT_EXCEEDED", Message: message, HTTPStatus: http.StatusTooManyRequests}
}

func NewInternalError(message string, internal error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, HTTPStatus: http.StatusInternalServerError, Internal: internal}
}

func NewDatabaseError(operation string, internal error) *AppError {
	return &AppError{
		Code:       "DATABASE_ERROR",
		Message:    fmt.Sprintf("数据库操作失败: %s", operation),
		HTTPStatus: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// NewExternalError 第三方服务（AliExpress / LLM / Stripe）调用失败
func NewExternalError(service string, internal error) *AppError {
	kind := retry.Classify(internal)
	return &AppError{
		Code:       "EXTERNAL_" + kindCode(kind),
		Message:    fmt.Sprintf("%s: %s", service, UserMessage(kind)),
		HTTPStatus: http.StatusBadGateway,
		Internal:   internal,
	}
}

// Wrap 保留对外信息，附加内部原因
func Wrap(base *AppError, internal error) *AppError {
	return &AppError{Code: base.Code, Message: base.Message, HTTPStatus: base.HTTPStatus, Internal: internal}
}

// IsAppError 判断是否为 AppError（含包装）
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// FromError 将任意错误转换为 AppError
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &AppError{Code: "NOT_FOUND", Message: "记录不存在", HTTPStatus: http.StatusNotFound, Internal: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &AppError{Code: "CONFLICT", Message: "记录已存在", HTTPStatus: http.StatusConflict, Internal: err}
	}

	kind := retry.Classify(err)
	switch kind {
	case retry.KindNetwork, retry.KindServer:
		return &AppError{Code: kindCode(kind), Message: UserMessage(kind), HTTPStatus: http.StatusBadGateway, Internal: err}
	case retry.KindTimeout:
		return &AppError{Code: kindCode(kind), Message: UserMessage(kind), HTTPStatus: http.StatusGatewayTimeout, Internal: err}
	case retry.KindRateLimited:
		return &AppError{Code: kindCode(kind), Message: UserMessage(kind), HTTPStatus: http.StatusTooManyRequests, Internal: err}
	case retry.KindCanceled:
		// 499 沿用 nginx 约定：客户端关闭连接
		return &AppError{Code: kindCode(kind), Message: UserMessage(kind), HTTPStatus: 499, Internal: err}
	}
	return NewInternalError(UserMessage(retry.KindUnknown), err)
}

// HTTPStatus 错误对应的 HTTP 状态
func HTTPStatus(err error) int {
	if ae := FromError(err); ae != nil {
		return ae.HTTPStatus
	}
	return http.StatusOK
}
