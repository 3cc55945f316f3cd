package infrastructure

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vitrine/internal/service/payment/domain"
)

// GormPaymentRepository 是支付记录的 GORM 仓储实现。
// 用例层不直接依赖它——组装根把它的方法接到用例的钩子上。
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository 创建一个新的 GORM 仓储实例。
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create 插入一条新的支付记录。
func (r *GormPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(toModel(payment)).Error
}

// FindByTransactionID 按网关交易ID查找支付记录。
func (r *GormPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var model PaymentModel
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(&model), nil
}

// ApplyStatus 读取记录，在领域实体上执行状态迁移后做部分更新。
// 记录不存在（网关先于我们知道这笔支付）或已处于终态时不做任何事。
func (r *GormPaymentRepository) ApplyStatus(ctx context.Context, transactionID string, status domain.PaymentStatus, paidAt *time.Time) error {
	payment, err := r.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return err
	}
	if payment == nil || !payment.ApplyStatus(status, paidAt) {
		return nil
	}

	updateData := map[string]interface{}{
		"status":     string(payment.Status),
		"updated_at": payment.UpdatedAt,
	}
	if payment.PaidAt != nil {
		updateData["paid_at"] = payment.PaidAt
	}
	return r.db.WithContext(ctx).Model(&PaymentModel{}).
		Where("transaction_id = ?", transactionID).
		Updates(updateData).Error
}
