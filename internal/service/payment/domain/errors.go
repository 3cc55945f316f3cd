package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDocument CPF/CNPJ 校验位不通过或长度不对
	ErrInvalidDocument = errors.New("invalid CPF/CNPJ document")

	// ErrNegativeAmount Money 不允许出现负数分
	ErrNegativeAmount = errors.New("money amount cannot be negative")

	// ErrMissingCurrency 构造 Money 必须带币种
	ErrMissingCurrency = errors.New("currency is required")

	// ErrCurrencyMismatch 不同币种之间不允许运算
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// PaymentErrorCode 是用例层暴露给调用方的稳定错误码，与具体网关无关。
type PaymentErrorCode string

const (
	ErrCodeInvalidCustomer    PaymentErrorCode = "INVALID_CUSTOMER"
	ErrCodeInvalidAmount      PaymentErrorCode = "INVALID_AMOUNT"
	ErrCodeWebhookInvalid     PaymentErrorCode = "WEBHOOK_INVALID"
	ErrCodeMethodNotSupported PaymentErrorCode = "METHOD_NOT_SUPPORTED"
)

// PaymentError 是领域级支付错误，与网关传输错误 (GatewayError) 分属两类。
type PaymentError struct {
	Code    PaymentErrorCode
	Message string
	Cause   error
}

func (e *PaymentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Cause
}

// NewPaymentError 创建一个带错误码的领域支付错误。
func NewPaymentError(code PaymentErrorCode, message string, cause error) *PaymentError {
	return &PaymentError{Code: code, Message: message, Cause: cause}
}

// GatewayError 是唯一的网关错误类型。
// 任何适配器失败（网络、非2xx、厂商报告的业务失败）都包装成它，
// 调用方永远不需要写网关特定的错误处理。
type GatewayError struct {
	Gateway    string // 网关名，如 "pixforte"
	StatusCode int    // HTTP状态码，传输未达时为 0
	Body       string // 原始错误响应体，只用于诊断，不展示给终端用户
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway %s: %s (status %d)", e.Gateway, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("gateway %s: %s", e.Gateway, e.Message)
}
