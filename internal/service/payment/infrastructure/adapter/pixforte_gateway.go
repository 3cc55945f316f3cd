package adapter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"vitrine/internal/pkg/httpclient"
	"vitrine/internal/service/payment/domain"
	"vitrine/internal/service/payment/port"
)

const pixForteGatewayName = "pixforte"

// pixForteStatusTable 把网关自己的状态字符串映射到统一枚举。
// 未收录的字符串一律按 pending 处理，绝不静默失败。
var pixForteStatusTable = map[string]domain.PaymentStatus{
	"PENDING":          domain.StatusPending,
	"AWAITING_PAYMENT": domain.StatusPending,
	"PROCESSING":       domain.StatusProcessing,
	"PAID":             domain.StatusPaid,
	"CONFIRMED":        domain.StatusPaid,
	"FAILED":           domain.StatusFailed,
	"DECLINED":         domain.StatusFailed,
	"CANCELLED":        domain.StatusCancelled,
	"CANCELED":         domain.StatusCancelled,
	"REFUNDED":         domain.StatusRefunded,
	"EXPIRED":          domain.StatusExpired,
}

// PixForteConfig 是网关接入配置。
type PixForteConfig struct {
	BaseURL       string
	PublicKey     string
	SecretKey     string
	WebhookSecret string
}

// PixForteAdapter 是 port.PaymentGateway 接口的实现，对接一个只支持 PIX 的支付网关。
// 认证使用公钥/私钥两个自定义请求头；webhook 用 HMAC-SHA256 十六进制签名。
type PixForteAdapter struct {
	client *httpclient.Client
	cfg    PixForteConfig
}

// NewPixForteAdapter 创建网关适配器。
// 密钥缺失属于配置错误，在这里直接失败，而不是等到第一笔支付。
func NewPixForteAdapter(client *httpclient.Client, cfg PixForteConfig) (*PixForteAdapter, error) {
	if cfg.PublicKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("pixforte: public and secret keys are required")
	}
	// 空密钥意味着任何人都能用已知的空 key 伪造合法签名
	if cfg.WebhookSecret == "" {
		return nil, errors.New("pixforte: webhook secret is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("pixforte: base URL is required")
	}
	return &PixForteAdapter{client: client, cfg: cfg}, nil
}

// Name 实现了 port.PaymentGateway 接口。
func (a *PixForteAdapter) Name() string {
	return pixForteGatewayName
}

// SupportsMethod 只认 PIX。
func (a *PixForteAdapter) SupportsMethod(method port.PaymentMethod) bool {
	return method == port.MethodPIX
}

// ---- 网关侧的请求/响应模型，在边界处显式建模 ----

type pixForteCustomer struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type pixForteCreateRequest struct {
	Amount            int64            `json:"amount"` // 分
	Description       string           `json:"description"`
	Customer          pixForteCustomer `json:"customer"`
	ExternalReference string           `json:"external_reference"`
	CallbackURL       string           `json:"callback_url,omitempty"`
}

type pixFortePIX struct {
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
}

type pixFortePaymentResponse struct {
	Success   bool         `json:"success"`
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	Amount    int64        `json:"amount"`
	ExpiresAt string       `json:"expires_at,omitempty"`
	PaidAt    string       `json:"paid_at,omitempty"`
	PIX       *pixFortePIX `json:"pix,omitempty"`
	Error     string       `json:"error,omitempty"`
}

type pixForteWebhookEvent struct {
	EventID string `json:"event_id"`
	Event   string `json:"event"`
	Data    struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount int64  `json:"amount"`
		PaidAt string `json:"paid_at,omitempty"`
	} `json:"data"`
}

// CreatePayment 实现了 port.PaymentGateway 接口。
func (a *PixForteAdapter) CreatePayment(ctx context.Context, input *port.CreatePaymentInput) (*port.PaymentResult, error) {
	body, err := json.Marshal(pixForteCreateRequest{
		Amount:      input.AmountCents,
		Description: input.Description,
		Customer: pixForteCustomer{
			Name:     input.Customer.Name,
			Document: input.Customer.Document,
			Email:    input.Customer.Email,
			Phone:    input.Customer.Phone,
		},
		ExternalReference: input.ExternalReference,
		CallbackURL:       input.CallbackURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "pixforte: marshal create request")
	}

	status, respBody, err := a.client.Do(ctx, http.MethodPost, a.cfg.BaseURL+"/payments", nil, a.authHeaders(), body)
	if err != nil {
		return nil, a.transportError(err)
	}

	resp, gerr := a.decodePaymentResponse(status, respBody)
	if gerr != nil {
		return nil, gerr
	}

	result := &port.PaymentResult{
		Success:       true,
		TransactionID: resp.ID,
		Status:        normalizeStatus(resp.Status),
		AmountCents:   resp.Amount,
		ExpiresAt:     parseTimestamp(resp.ExpiresAt),
	}
	if resp.PIX != nil {
		result.PIX = &port.PIXData{
			QRCode:       resp.PIX.QRCode,
			QRCodeBase64: resp.PIX.QRCodeBase64,
		}
	}
	return result, nil
}

// GetPaymentStatus 实现了 port.PaymentGateway 接口。
func (a *PixForteAdapter) GetPaymentStatus(ctx context.Context, transactionID string) (*port.PaymentStatusResult, error) {
	url := fmt.Sprintf("%s/payments/%s", a.cfg.BaseURL, transactionID)
	status, respBody, err := a.client.Do(ctx, http.MethodGet, url, nil, a.authHeaders(), nil)
	if err != nil {
		return nil, a.transportError(err)
	}

	resp, gerr := a.decodePaymentResponse(status, respBody)
	if gerr != nil {
		return nil, gerr
	}

	return &port.PaymentStatusResult{
		TransactionID: resp.ID,
		Status:        normalizeStatus(resp.Status),
		AmountCents:   resp.Amount,
		PaidAt:        parseTimestamp(resp.PaidAt),
	}, nil
}

// ValidateWebhook 先用 HMAC-SHA256 做常量时间签名比对，通过后才解析载荷。
// 签名无效时不返回任何已解析数据。
func (a *PixForteAdapter) ValidateWebhook(rawPayload []byte, signature string) *port.WebhookValidation {
	mac := hmac.New(sha256.New, []byte(a.cfg.WebhookSecret))
	mac.Write(rawPayload)
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return &port.WebhookValidation{IsValid: false, Error: "malformed signature"}
	}
	// hmac.Equal 是常量时间比较，防止时序侧信道
	if !hmac.Equal(expected, provided) {
		return &port.WebhookValidation{IsValid: false, Error: "signature mismatch"}
	}

	var event pixForteWebhookEvent
	if err := json.Unmarshal(rawPayload, &event); err != nil {
		return &port.WebhookValidation{IsValid: false, Error: "unparsable payload"}
	}

	return &port.WebhookValidation{
		IsValid: true,
		Payload: &port.WebhookPayload{
			EventID:       event.EventID,
			TransactionID: event.Data.ID,
			Status:        normalizeStatus(event.Data.Status),
			AmountCents:   event.Data.Amount,
			PaidAt:        parseTimestamp(event.Data.PaidAt),
		},
	}
}

// CancelPayment 实现了 port.PaymentGateway 接口。
func (a *PixForteAdapter) CancelPayment(ctx context.Context, transactionID string) error {
	return a.postAction(ctx, transactionID, "cancel")
}

// RefundPayment 实现了 port.PaymentGateway 接口。
func (a *PixForteAdapter) RefundPayment(ctx context.Context, transactionID string) error {
	return a.postAction(ctx, transactionID, "refund")
}

func (a *PixForteAdapter) postAction(ctx context.Context, transactionID, action string) error {
	url := fmt.Sprintf("%s/payments/%s/%s", a.cfg.BaseURL, transactionID, action)
	status, respBody, err := a.client.Do(ctx, http.MethodPost, url, nil, a.authHeaders(), nil)
	if err != nil {
		return a.transportError(err)
	}
	if _, gerr := a.decodePaymentResponse(status, respBody); gerr != nil {
		return gerr
	}
	return nil
}

func (a *PixForteAdapter) authHeaders() http.Header {
	h := http.Header{}
	h.Set("X-Public-Key", a.cfg.PublicKey)
	h.Set("X-Secret-Key", a.cfg.SecretKey)
	return h
}

// decodePaymentResponse 统一处理非2xx和厂商报告的业务失败，
// 两者都包装成唯一的 GatewayError。
func (a *PixForteAdapter) decodePaymentResponse(status int, body []byte) (*pixFortePaymentResponse, *domain.GatewayError) {
	if status < 200 || status >= 300 {
		return nil, &domain.GatewayError{
			Gateway:    pixForteGatewayName,
			StatusCode: status,
			Body:       string(body),
			Message:    "request rejected",
		}
	}
	var resp pixFortePaymentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.GatewayError{
			Gateway:    pixForteGatewayName,
			StatusCode: status,
			Body:       string(body),
			Message:    "unparsable response body",
		}
	}
	if !resp.Success {
		return nil, &domain.GatewayError{
			Gateway:    pixForteGatewayName,
			StatusCode: status,
			Body:       string(body),
			Message:    "gateway reported failure: " + resp.Error,
		}
	}
	return &resp, nil
}

func (a *PixForteAdapter) transportError(err error) *domain.GatewayError {
	return &domain.GatewayError{
		Gateway: pixForteGatewayName,
		Message: err.Error(),
	}
}

func normalizeStatus(vendor string) domain.PaymentStatus {
	if s, ok := pixForteStatusTable[vendor]; ok {
		return s
	}
	return domain.StatusPending
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
