package port

import (
	"context"

	"vitrine/internal/service/shipping/domain"
)

// RouteCalculator 是路径规划服务的出站端口。
type RouteCalculator interface {
	// CalculateRoute 请求一条驾车路线；服务不可用或无路线时返回 domain.ErrRouteNotFound。
	// 它自己不做兜底——直线兜底是调用方显式的第二条分支。
	CalculateRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.Route, error)
}

// FreeShippingRule 判定一次购物车金额是否符合包邮条件。
type FreeShippingRule interface {
	Eligible(cartTotal float64) (bool, error)
}
