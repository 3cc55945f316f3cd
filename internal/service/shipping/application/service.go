package application

import (
	"context"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vitrine/internal/pkg/logger"
	"vitrine/internal/service/shipping/domain"
	"vitrine/internal/service/shipping/port"
)

// routeInflationFactor 把直线距离放大为近似街道距离。
// 只在路径服务不可用的兜底分支使用。
const routeInflationFactor = 1.3

var (
	quotesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vitrine_shipping_quotes_total",
		Help: "Total number of shipping quotes served.",
	})
	routingFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vitrine_shipping_routing_fallbacks_total",
		Help: "Quotes that fell back to straight-line distance because the routing service failed.",
	})
)

// PricingPolicy 是报价算法的全部可配置参数。
type PricingPolicy struct {
	Origin                domain.Coordinates
	PricePerKm            float64
	MinimumFee            float64
	FreeShippingThreshold float64
	FallbackSpeedKmh      float64
}

// ShippingService 编排一次运费报价：
// 邮编校验 → 地址解析 → 地理编码 → 路径规划（带直线兜底）→ 计价。
type ShippingService struct {
	addresses port.AddressProvider
	geocoder  port.Geocoder
	routes    port.RouteCalculator
	rule      port.FreeShippingRule
	policy    PricingPolicy
	tracer    trace.Tracer
}

// NewShippingService 创建一个新的运费服务实例。
func NewShippingService(
	addresses port.AddressProvider,
	geocoder port.Geocoder,
	routes port.RouteCalculator,
	rule port.FreeShippingRule,
	policy PricingPolicy,
	tracer trace.Tracer,
) *ShippingService {
	return &ShippingService{
		addresses: addresses,
		geocoder:  geocoder,
		routes:    routes,
		rule:      rule,
		policy:    policy,
		tracer:    tracer,
	}
}

// CalculateShipping 执行完整的报价流程。
// 地理编码失败向上传播为用户可见错误；路由失败被兜底分支吸收，永不外露。
func (s *ShippingService) CalculateShipping(ctx context.Context, req *CalculateShippingRequest) (*ShippingQuoteResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.CalculateShipping")
	defer span.End()

	// 1. 校验邮编格式，快速失败
	cep, err := domain.NewCEP(req.CEP)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("shipping.cep", cep.String()),
		attribute.Float64("shipping.cart_total", req.CartTotal),
	)

	// 2. 解析配送地址和坐标
	addr, err := s.addresses.GetAddressFromCEP(ctx, cep)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	destination, err := s.geocoder.GeocodeAddress(ctx, addr)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// 3. 路径规划；任何失败都走直线兜底，只记录警告，不打扰顾客
	distanceMeters, durationSeconds := s.resolveRoute(ctx, destination)

	// 4-6. 距离换算与计价：公里数 × 单价，低于起步价按起步价
	distanceKm := domain.Round2(distanceMeters / 1000)
	cost := distanceKm * s.policy.PricePerKm
	if cost < s.policy.MinimumFee {
		cost = s.policy.MinimumFee
	}

	// 7-8. 包邮判定
	free := s.freeShippingEligible(ctx, req.CartTotal)
	remaining := 0.0
	if free {
		cost = 0
	} else {
		remaining = domain.Round2(math.Max(0, s.policy.FreeShippingThreshold-req.CartTotal))
	}

	// 9. 预计时长取整分钟
	minutes := int(math.Ceil(durationSeconds / 60))

	quotesTotal.Inc()
	span.AddEvent("Shipping quote calculated")

	return &ShippingQuoteResponse{
		DistanceKm:            distanceKm,
		ShippingCost:          domain.Round2(cost),
		EstimatedTimeMinutes:  minutes,
		FreeShipping:          free,
		FreeShippingRemaining: remaining,
		DeliveryAddress:       addr.String(),
	}, nil
}

// resolveRoute 是显式的两步算法：优先请求路径服务，
// 失败时用 haversine 直线距离 × 1.3 近似街道距离，并按配置速度推算时长。
func (s *ShippingService) resolveRoute(ctx context.Context, destination domain.Coordinates) (meters, seconds float64) {
	route, err := s.routes.CalculateRoute(ctx, s.policy.Origin, destination)
	if err == nil {
		return route.DistanceMeters, route.DurationSeconds
	}

	routingFallbacksTotal.Inc()
	logger.Ctx(ctx).Warn().Err(err).Msg("Routing service failed, falling back to straight-line estimate")

	meters = domain.StraightLineDistance(s.policy.Origin, destination) * routeInflationFactor
	metersPerSecond := s.policy.FallbackSpeedKmh * 1000 / 3600
	seconds = meters / metersPerSecond
	return meters, seconds
}

// freeShippingEligible 执行包邮规则。规则评估出错时退回简单阈值比较，
// 配置错误不应让整个报价失败。
func (s *ShippingService) freeShippingEligible(ctx context.Context, cartTotal float64) bool {
	eligible, err := s.rule.Eligible(cartTotal)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("Free-shipping rule evaluation failed, using threshold comparison")
		return cartTotal >= s.policy.FreeShippingThreshold
	}
	return eligible
}
