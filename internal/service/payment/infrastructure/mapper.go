package infrastructure

import "vitrine/internal/service/payment/domain"

// toModel 把领域实体转换为数据库模型。
func toModel(p *domain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:                p.ID,
		TransactionID:     p.TransactionID,
		ExternalReference: p.ExternalReference,
		Gateway:           p.Gateway,
		AmountCents:       p.AmountCents,
		Currency:          p.Currency,
		Status:            string(p.Status),
		CustomerName:      p.CustomerName,
		CustomerDocument:  p.CustomerDocument,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		PaidAt:            p.PaidAt,
		ExpiresAt:         p.ExpiresAt,
	}
}

// toDomain 把数据库模型转换回领域实体。
func toDomain(m *PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:                m.ID,
		TransactionID:     m.TransactionID,
		ExternalReference: m.ExternalReference,
		Gateway:           m.Gateway,
		AmountCents:       m.AmountCents,
		Currency:          m.Currency,
		Status:            domain.PaymentStatus(m.Status),
		CustomerName:      m.CustomerName,
		CustomerDocument:  m.CustomerDocument,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		PaidAt:            m.PaidAt,
		ExpiresAt:         m.ExpiresAt,
	}
}
