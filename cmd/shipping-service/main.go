package main

import (
	"go.opentelemetry.io/otel"
	zlog "github.com/rs/zerolog/log"

	"vitrine/internal/pkg/bootstrap"
	"vitrine/internal/pkg/httpclient"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/service/shipping/application"
	"vitrine/internal/service/shipping/domain"
	"vitrine/internal/service/shipping/infrastructure/adapter"
	"vitrine/internal/service/shipping/infrastructure/rule"
	"vitrine/internal/service/shipping/interfaces"
	shippingPort "vitrine/internal/service/shipping/port"
)

const (
	serviceName = "shipping-service"
	// 公共地理服务要求能联系到调用方的自定义 UA
	userAgent = "vitrine-shipping/1.0 (+https://vitrine.com.br)"
)

var tracer = otel.Tracer(serviceName)

// main 是应用的"组装根" (Composition Root)：
// 创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init()
	logger.Init(serviceName)
	cfg := bootstrap.GetCurrentConfig()

	httpClient := httpclient.NewClient(tracer, userAgent)

	// 出站适配器
	addresses := adapter.NewViaCEPAdapter(httpClient, cfg.Infra.ViaCEP.BaseURL)
	geocoder := adapter.NewNominatimAdapter(httpClient, cfg.Infra.Nominatim.BaseURL)
	routes := adapter.NewOSRMAdapter(httpClient, cfg.Infra.OSRM.BaseURL)

	// 包邮规则：配置了 CEL 表达式用表达式，否则用阈值比较
	var freeShippingRule shippingPort.FreeShippingRule
	if expr := cfg.App.Shipping.FreeShippingRule; expr != "" {
		celRule, err := rule.NewCELRuleAdapter(expr)
		if err != nil {
			zlog.Fatal().Err(err).Msg("invalid free-shipping rule")
		}
		freeShippingRule = celRule
	} else {
		freeShippingRule = rule.NewThresholdRule(cfg.App.Shipping.FreeShippingThreshold)
	}

	shippingService := application.NewShippingService(
		addresses, geocoder, routes, freeShippingRule,
		application.PricingPolicy{
			Origin: domain.Coordinates{
				Lat: cfg.App.Shipping.OriginLat,
				Lng: cfg.App.Shipping.OriginLng,
			},
			PricePerKm:            cfg.App.Shipping.PricePerKm,
			MinimumFee:            cfg.App.Shipping.MinimumFee,
			FreeShippingThreshold: cfg.App.Shipping.FreeShippingThreshold,
			FallbackSpeedKmh:      cfg.App.Shipping.FallbackSpeedKmh,
		},
		tracer,
	)
	handler := interfaces.NewShippingHandler(shippingService)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8087,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
