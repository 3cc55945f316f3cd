package adapter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"vitrine/internal/pkg/mq"
	"vitrine/internal/service/payment/domain"
	"vitrine/internal/service/payment/port"
)

// PaymentEventsKafkaAdapter 把支付生命周期事件发到消息总线，
// 供店面的通知流水线消费。在组装根里被接到 webhook 用例的钩子上。
type PaymentEventsKafkaAdapter struct {
	writer *kafka.Writer
}

// NewPaymentEventsKafkaAdapter 创建一个新的支付事件生产者适配器。
func NewPaymentEventsKafkaAdapter(writer *kafka.Writer) *PaymentEventsKafkaAdapter {
	return &PaymentEventsKafkaAdapter{writer: writer}
}

// PublishStatusChanged 按交易ID分区发送状态变更事件。
func (a *PaymentEventsKafkaAdapter) PublishStatusChanged(ctx context.Context, payload *port.WebhookPayload) error {
	event := domain.PaymentEvent{
		TransactionID: payload.TransactionID,
		Status:        payload.Status,
		AmountCents:   payload.AmountCents,
		OccurredAt:    time.Now(),
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal payment event")
	}

	// mq.ProduceMessage 会自动注入追踪上下文
	return mq.ProduceMessage(ctx, a.writer, []byte(payload.TransactionID), eventBytes)
}
