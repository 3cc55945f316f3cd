package domain

import "time"

// Payment 是支付记录实体，由调用方（用例钩子）持久化。
// 用例层自己不依赖任何存储。
type Payment struct {
	ID                string
	TransactionID     string // 网关返回的交易ID
	ExternalReference string // 幂等用的外部引用ID
	Gateway           string
	AmountCents       int64
	Currency          string
	Status            PaymentStatus
	CustomerName      string
	CustomerDocument  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	PaidAt            *time.Time
	ExpiresAt         *time.Time
}

// ApplyStatus 迁移支付状态。终态之后到达的迟到回调被忽略，
// 返回 false 表示没有发生变更。
func (p *Payment) ApplyStatus(status PaymentStatus, paidAt *time.Time) bool {
	if p.Status.IsFinal() {
		return false
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	if status == StatusPaid {
		if paidAt == nil {
			now := time.Now()
			paidAt = &now
		}
		p.PaidAt = paidAt
	}
	return true
}

// PaymentEvent 是发往消息总线的支付生命周期事件。
type PaymentEvent struct {
	TransactionID string        `json:"transaction_id"`
	Status        PaymentStatus `json:"status"`
	AmountCents   int64         `json:"amount_cents"`
	OccurredAt    time.Time     `json:"occurred_at"`
}
