package domain

// PaymentStatus 是跨网关统一的支付状态枚举。
// 各适配器负责把厂商自己的状态字符串映射到这里。
type PaymentStatus string

const (
	StatusPending    PaymentStatus = "pending"
	StatusProcessing PaymentStatus = "processing"
	StatusPaid       PaymentStatus = "paid"
	StatusFailed     PaymentStatus = "failed"
	StatusCancelled  PaymentStatus = "cancelled"
	StatusRefunded   PaymentStatus = "refunded"
	StatusExpired    PaymentStatus = "expired"
)

// IsFinal 终态不再接受状态迁移。
func (s PaymentStatus) IsFinal() bool {
	switch s {
	case StatusPaid, StatusFailed, StatusCancelled, StatusRefunded, StatusExpired:
		return true
	}
	return false
}
