package port

import (
	"context"
	"time"

	"vitrine/internal/service/payment/domain"
)

// PaymentMethod 是支付方式标识。
type PaymentMethod string

const (
	MethodPIX    PaymentMethod = "pix"
	MethodCard   PaymentMethod = "credit_card"
	MethodBoleto PaymentMethod = "boleto"
)

// Customer 是创建支付时提交给网关的客户信息。
type Customer struct {
	Name     string
	Document string // 已通过 Document 值对象校验的数字串
	Email    string
	Phone    string
}

// CreatePaymentInput 是创建支付的入参。
type CreatePaymentInput struct {
	AmountCents       int64
	Description       string
	Customer          Customer
	Method            PaymentMethod
	ExternalReference string // 幂等引用，同一引用重复提交不应产生两笔支付
	CallbackURL       string // 可选的 webhook 回调地址
}

// PIXData 是 PIX 特有的支付载荷。
type PIXData struct {
	QRCode       string // 复制粘贴码
	QRCodeBase64 string // base64 编码的二维码图片
}

// PaymentResult 是创建支付的出参，跨网关统一。
type PaymentResult struct {
	Success       bool
	TransactionID string
	Status        domain.PaymentStatus
	AmountCents   int64
	ExpiresAt     *time.Time
	PIX           *PIXData
}

// PaymentStatusResult 是状态查询的出参。
type PaymentStatusResult struct {
	TransactionID string
	Status        domain.PaymentStatus
	AmountCents   int64
	PaidAt        *time.Time
}

// WebhookPayload 是验签通过后解析出的规范化回调载荷。
type WebhookPayload struct {
	EventID       string
	TransactionID string
	Status        domain.PaymentStatus
	AmountCents   int64
	PaidAt        *time.Time
}

// WebhookValidation 是验签结果。签名无效时 Payload 必须为 nil——
// 未通过验证的数据不允许外泄。
type WebhookValidation struct {
	IsValid bool
	Payload *WebhookPayload
	Error   string
}

// PaymentGateway 是支付网关的出站端口，每个支付提供商适配器都必须实现它。
// 任何适配器失败都包装成 *domain.GatewayError 返回。
type PaymentGateway interface {
	// Name 返回网关标识，用于注册表和错误诊断。
	Name() string

	// CreatePayment 在网关侧创建一笔支付。
	CreatePayment(ctx context.Context, input *CreatePaymentInput) (*PaymentResult, error)

	// GetPaymentStatus 查询一笔支付的当前状态。
	GetPaymentStatus(ctx context.Context, transactionID string) (*PaymentStatusResult, error)

	// ValidateWebhook 用常量时间比较校验签名，仅在签名有效时解析载荷。
	ValidateWebhook(rawPayload []byte, signature string) *WebhookValidation

	// CancelPayment 取消一笔未完成的支付。
	CancelPayment(ctx context.Context, transactionID string) error

	// RefundPayment 退款一笔已完成的支付。
	RefundPayment(ctx context.Context, transactionID string) error

	// SupportsMethod 查询网关是否支持某种支付方式。
	SupportsMethod(method PaymentMethod) bool
}

// Registry 按提供商名字保存已构造的网关适配器。
// 启动时装配一次，请求期间只读，取代全局可变单例。
type Registry struct {
	gateways map[string]PaymentGateway
}

// NewRegistry 用一组已构造的适配器创建注册表。
func NewRegistry(gateways ...PaymentGateway) *Registry {
	m := make(map[string]PaymentGateway, len(gateways))
	for _, g := range gateways {
		m[g.Name()] = g
	}
	return &Registry{gateways: m}
}

// Get 按名字取出网关。
func (r *Registry) Get(name string) (PaymentGateway, bool) {
	g, ok := r.gateways[name]
	return g, ok
}

// DeliveryDeduper 判定某个网关事件是否已经处理过。
// 网关按 at-least-once 投递 webhook，去重保证钩子只成功触发一次。
// 检查与标记分开：调用方必须在副作用全部成功之后才 MarkProcessed，
// 这样钩子失败的投递在网关重投时仍会被完整处理。
type DeliveryDeduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID string) error
}
