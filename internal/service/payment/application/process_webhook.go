package application

import (
	"context"

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
	webhooksRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vitrine_payment_webhooks_rejected_total",
		Help: "Webhook deliveries rejected due to invalid signature.",
	})
	webhooksDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vitrine_payment_webhooks_duplicate_total",
		Help: "Webhook deliveries skipped because the event was already processed.",
	})
)

// PaymentConfirmedHook 在回调确认支付成功后触发。
// PaymentFailedHook 在支付失败/取消后触发。两者都可为 nil，由组装根注入。
type (
	PaymentConfirmedHook func(ctx context.Context, payload *port.WebhookPayload) error
	PaymentFailedHook    func(ctx context.Context, payload *port.WebhookPayload) error
)

// ProcessWebhookUseCase 处理网关回调：
// 验签委托给网关端口，签名无效时不产生任何副作用；
// 验签通过后按状态分发到确认/失败钩子，并用去重器挡掉重复投递。
type ProcessWebhookUseCase struct {
	gateway     port.PaymentGateway
	deduper     port.DeliveryDeduper // 可为 nil
	onConfirmed PaymentConfirmedHook // 可为 nil
	onFailed    PaymentFailedHook    // 可为 nil
	tracer      trace.Tracer
}

// NewProcessWebhookUseCase 创建用例实例。除 gateway 外的依赖都允许为 nil。
func NewProcessWebhookUseCase(
	gateway port.PaymentGateway,
	deduper port.DeliveryDeduper,
	onConfirmed PaymentConfirmedHook,
	onFailed PaymentFailedHook,
	tracer trace.Tracer,
) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{
		gateway:     gateway,
		deduper:     deduper,
		onConfirmed: onConfirmed,
		onFailed:    onFailed,
		tracer:      tracer,
	}
}

// Execute 处理一次回调投递。
func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, rawPayload []byte, signature string) (*WebhookResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "usecase.ProcessWebhook")
	defer span.End()

	// 1. 验签。失败时立即返回，不解析、不触发任何副作用。
	validation := uc.gateway.ValidateWebhook(rawPayload, signature)
	if !validation.IsValid {
		webhooksRejectedTotal.Inc()
		err := domain.NewPaymentError(domain.ErrCodeWebhookInvalid, validation.Error, nil)
		span.RecordError(err)
		return nil, err
	}
	payload := validation.Payload

	span.SetAttributes(
		attribute.String("payment.transaction_id", payload.TransactionID),
		attribute.String("payment.status", string(payload.Status)),
	)

	// 2. 去重检查。去重器故障时记警告并继续——at-least-once 好过丢事件。
	if uc.deduper != nil && payload.EventID != "" {
		seen, err := uc.deduper.Seen(ctx, payload.EventID)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("Webhook deduper unavailable, processing anyway")
		} else if seen {
			webhooksDuplicateTotal.Inc()
			logger.Ctx(ctx).Info().
				Str("event_id", payload.EventID).
				Msg("Duplicate webhook delivery, hooks skipped")
			return &WebhookResponse{Received: true, Duplicate: true, Status: string(payload.Status)}, nil
		}
	}

	// 3. 按规范化状态分发side effect钩子。失败时不落去重标记，
	// 事件保持未处理，网关重投会再次触发钩子。
	switch payload.Status {
	case domain.StatusPaid:
		if uc.onConfirmed != nil {
			if err := uc.onConfirmed(ctx, payload); err != nil {
				span.RecordError(err)
				return nil, errors.Wrap(err, "payment confirmed hook failed")
			}
		}
	case domain.StatusFailed, domain.StatusCancelled:
		if uc.onFailed != nil {
			if err := uc.onFailed(ctx, payload); err != nil {
				span.RecordError(err)
				return nil, errors.Wrap(err, "payment failed hook failed")
			}
		}
	}

	// 4. 钩子全部成功后才标记已处理
	if uc.deduper != nil && payload.EventID != "" {
		if err := uc.deduper.MarkProcessed(ctx, payload.EventID); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("Failed to mark webhook event as processed")
		}
	}

	logger.Ctx(ctx).Info().
		Str("transaction_id", payload.TransactionID).
		Str("status", string(payload.Status)).
		Msg("Webhook processed")

	return &WebhookResponse{Received: true, Status: string(payload.Status)}, nil
}
