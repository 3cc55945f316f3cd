package port

import (
	"context"

	"vitrine/internal/service/shipping/domain"
)

// AddressProvider 是邮编查询服务的出站端口。
type AddressProvider interface {
	// GetAddressFromCEP 把邮编解析为规范化地址；查无此邮编时返回 domain.ErrCEPNotFound。
	GetAddressFromCEP(ctx context.Context, cep domain.CEP) (*domain.Address, error)
}

// Geocoder 是地理编码服务的出站端口。
type Geocoder interface {
	// GeocodeAddress 把已解析的地址转换为坐标。
	// 适配器内部先做全文检索，零结果时退回仅按邮编查询，
	// 两级都失败才返回 domain.ErrGeocodingFailed。
	GeocodeAddress(ctx context.Context, addr *domain.Address) (domain.Coordinates, error)
}
