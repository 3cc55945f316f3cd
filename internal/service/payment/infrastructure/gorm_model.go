package infrastructure

import "time"

// PaymentModel 是支付记录的数据库模型，与领域实体分离，经由 mapper 转换。
type PaymentModel struct {
	ID                string `gorm:"primaryKey;size:36"`
	TransactionID     string `gorm:"uniqueIndex;size:64"`
	ExternalReference string `gorm:"index;size:64"`
	Gateway           string `gorm:"size:32"`
	AmountCents       int64
	Currency          string `gorm:"size:3"`
	Status            string `gorm:"size:16"`
	CustomerName      string `gorm:"size:128"`
	CustomerDocument  string `gorm:"size:14"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	PaidAt            *time.Time
	ExpiresAt         *time.Time
}

// TableName 指定表名。
func (PaymentModel) TableName() string {
	return "payments"
}
