package application

import "time"

// CustomerInput 是调用方提交的客户信息。
type CustomerInput struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// CreatePaymentRequest 是创建支付的入参；金额是十进制货币单位。
type CreatePaymentRequest struct {
	Amount            float64       `json:"amount"`
	Description       string        `json:"description"`
	Customer          CustomerInput `json:"customer"`
	Method            string        `json:"method,omitempty"`
	ExternalReference string        `json:"external_reference,omitempty"`
	CallbackURL       string        `json:"callback_url,omitempty"`
}

// CreatePaymentResponse 是与网关无关的创建结果。
type CreatePaymentResponse struct {
	TransactionID   string     `json:"transaction_id"`
	Status          string     `json:"status"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	Gateway         string     `json:"gateway"`
	PIXQRCode       string     `json:"pix_qr_code,omitempty"`
	PIXQRCodeBase64 string     `json:"pix_qr_code_base64,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

// WebhookResponse 是 webhook 处理结果。
type WebhookResponse struct {
	Received  bool   `json:"received"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Status    string `json:"status,omitempty"`
}
