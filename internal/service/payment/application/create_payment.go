package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vitrine/internal/pkg/logger"
	"vitrine/internal/service/payment/domain"
	"vitrine/internal/service/payment/port"
)

var (
	paymentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vitrine_payments_created_total",
		Help: "Total number of payments created at the gateway.",
	})
)

// PaymentCreatedHook 在支付创建成功后被调用，典型用途是持久化支付记录。
// 由组装根注入，用例自己不依赖任何存储。
type PaymentCreatedHook func(ctx context.Context, payment *domain.Payment) error

// CreatePaymentUseCase 编排一笔支付的创建：
// 校验客户税号和金额值对象 → 委托网关端口 → 触发可选钩子 → 规范化输出。
type CreatePaymentUseCase struct {
	gateway   port.PaymentGateway
	currency  string
	onCreated PaymentCreatedHook // 可为 nil
	tracer    trace.Tracer
}

// NewCreatePaymentUseCase 创建用例实例。onCreated 允许为 nil。
func NewCreatePaymentUseCase(gateway port.PaymentGateway, currency string, onCreated PaymentCreatedHook, tracer trace.Tracer) *CreatePaymentUseCase {
	return &CreatePaymentUseCase{
		gateway:   gateway,
		currency:  currency,
		onCreated: onCreated,
		tracer:    tracer,
	}
}

// Execute 执行创建流程。
// 领域校验失败返回带稳定错误码的 *domain.PaymentError；
// 网关失败原样传播 *domain.GatewayError，不二次包装。
func (uc *CreatePaymentUseCase) Execute(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "usecase.CreatePayment")
	defer span.End()

	// 1. 校验客户税号
	doc, err := domain.NewDocument(req.Customer.Document)
	if err != nil {
		span.RecordError(err)
		return nil, domain.NewPaymentError(domain.ErrCodeInvalidCustomer, "invalid customer document", err)
	}

	// 2. 金额转为 Money；零或负值都不是一笔合法支付
	amount, err := domain.MoneyFromDecimal(req.Amount, uc.currency)
	if err != nil {
		span.RecordError(err)
		return nil, domain.NewPaymentError(domain.ErrCodeInvalidAmount, "invalid payment amount", err)
	}
	if amount.IsZero() {
		return nil, domain.NewPaymentError(domain.ErrCodeInvalidAmount, "payment amount must be positive", nil)
	}

	// 3. 支付方式支持性检查，缺省为 PIX
	method := port.PaymentMethod(req.Method)
	if method == "" {
		method = port.MethodPIX
	}
	if !uc.gateway.SupportsMethod(method) {
		return nil, domain.NewPaymentError(domain.ErrCodeMethodNotSupported,
			"gateway "+uc.gateway.Name()+" does not support method "+string(method), nil)
	}

	// 4. 幂等引用缺省生成
	externalRef := req.ExternalReference
	if externalRef == "" {
		externalRef = uuid.New().String()
	}

	span.SetAttributes(
		attribute.String("payment.gateway", uc.gateway.Name()),
		attribute.String("payment.method", string(method)),
		attribute.Int64("payment.amount_cents", amount.Cents()),
		attribute.String("payment.external_reference", externalRef),
	)

	// 5. 委托网关端口
	result, err := uc.gateway.CreatePayment(ctx, &port.CreatePaymentInput{
		AmountCents: amount.Cents(),
		Description: req.Description,
		Customer: port.Customer{
			Name:     req.Customer.Name,
			Document: doc.Digits(),
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
		},
		Method:            method,
		ExternalReference: externalRef,
		CallbackURL:       req.CallbackURL,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	paymentsCreatedTotal.Inc()

	// 6. 触发可选的创建后钩子
	if uc.onCreated != nil {
		now := time.Now()
		payment := &domain.Payment{
			ID:                uuid.New().String(),
			TransactionID:     result.TransactionID,
			ExternalReference: externalRef,
			Gateway:           uc.gateway.Name(),
			AmountCents:       amount.Cents(),
			Currency:          amount.Currency(),
			Status:            result.Status,
			CustomerName:      req.Customer.Name,
			CustomerDocument:  doc.Digits(),
			CreatedAt:         now,
			UpdatedAt:         now,
			ExpiresAt:         result.ExpiresAt,
		}
		if err := uc.onCreated(ctx, payment); err != nil {
			span.RecordError(err)
			return nil, errors.Wrap(err, "payment created hook failed")
		}
	}

	logger.Ctx(ctx).Info().
		Str("transaction_id", result.TransactionID).
		Str("gateway", uc.gateway.Name()).
		Int64("amount_cents", amount.Cents()).
		Msg("Payment created")

	resp := &CreatePaymentResponse{
		TransactionID: result.TransactionID,
		Status:        string(result.Status),
		Amount:        amount.Value(),
		Currency:      amount.Currency(),
		Gateway:       uc.gateway.Name(),
		ExpiresAt:     result.ExpiresAt,
	}
	if result.PIX != nil {
		resp.PIXQRCode = result.PIX.QRCode
		resp.PIXQRCodeBase64 = result.PIX.QRCodeBase64
	}
	return resp, nil
}
