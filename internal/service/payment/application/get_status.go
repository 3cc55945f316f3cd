package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vitrine/internal/service/payment/port"
)

// GetPaymentStatusUseCase 把状态查询委托给网关端口。
type GetPaymentStatusUseCase struct {
	gateway port.PaymentGateway
	tracer  trace.Tracer
}

// NewGetPaymentStatusUseCase 创建用例实例。
func NewGetPaymentStatusUseCase(gateway port.PaymentGateway, tracer trace.Tracer) *GetPaymentStatusUseCase {
	return &GetPaymentStatusUseCase{gateway: gateway, tracer: tracer}
}

// Execute 查询一笔支付的规范化状态。
func (uc *GetPaymentStatusUseCase) Execute(ctx context.Context, transactionID string) (*port.PaymentStatusResult, error) {
	ctx, span := uc.tracer.Start(ctx, "usecase.GetPaymentStatus")
	defer span.End()
	span.SetAttributes(attribute.String("payment.transaction_id", transactionID))

	return uc.gateway.GetPaymentStatus(ctx, transactionID)
}
