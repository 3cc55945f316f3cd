package main

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"vitrine/internal/pkg/bootstrap"
	"vitrine/internal/pkg/httpclient"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/mq"
	"vitrine/internal/service/payment/application"
	"vitrine/internal/service/payment/infrastructure"
	"vitrine/internal/service/payment/infrastructure/adapter"
	"vitrine/internal/service/payment/interfaces"
	"vitrine/internal/service/payment/port"
)

const (
	serviceName = "payment-service"
	userAgent   = "vitrine-payment/1.0 (+https://vitrine.com.br)"
	// 覆盖网关的最长重投窗口
	webhookDedupeTTL = 24 * time.Hour
)

var tracer = otel.Tracer(serviceName)

// main 是应用的"组装根" (Composition Root)：
// 适配器在这里构造一次并显式注入用例，请求期间不存在可变的全局网关。
func main() {
	bootstrap.Init()
	logger.Init(serviceName)
	cfg := bootstrap.GetCurrentConfig()

	httpClient := httpclient.NewClient(tracer, userAgent)

	// 1. 支付网关适配器：密钥缺失在这里就失败
	pixforte, err := adapter.NewPixForteAdapter(httpClient, adapter.PixForteConfig{
		BaseURL:       cfg.Infra.PixForte.BaseURL,
		PublicKey:     cfg.Infra.PixForte.PublicKey,
		SecretKey:     cfg.Infra.PixForte.SecretKey,
		WebhookSecret: cfg.Infra.PixForte.WebhookSecret,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize payment gateway")
	}
	registry := port.NewRegistry(pixforte)

	gateway, ok := registry.Get(cfg.App.Payment.Gateway)
	if !ok {
		zlog.Fatal().Str("gateway", cfg.App.Payment.Gateway).Msg("configured gateway is not registered")
	}

	// 2. 支付记录仓储；经由钩子挂接，用例层不依赖它
	db, err := infrastructure.NewMySQLDB(cfg.Infra.MySQL.DSN)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize mysql")
	}
	repo := infrastructure.NewGormPaymentRepository(db)

	// 3. 支付事件生产者与 webhook 去重
	kafkaWriter := mq.NewKafkaWriter(strings.Split(cfg.Infra.Kafka.Brokers, ","), cfg.Infra.Kafka.PaymentEventsTopic)
	defer kafkaWriter.Close()
	events := adapter.NewPaymentEventsKafkaAdapter(kafkaWriter)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Infra.Redis.Addr,
		Password: cfg.Infra.Redis.Password,
		DB:       cfg.Infra.Redis.DB,
	})
	deduper := infrastructure.NewRedisWebhookDeduper(redisClient, webhookDedupeTTL)

	// 4. 组装用例，钩子接到仓储和事件总线上
	createPayment := application.NewCreatePaymentUseCase(
		gateway,
		cfg.App.Payment.Currency,
		repo.Create,
		tracer,
	)
	getStatus := application.NewGetPaymentStatusUseCase(gateway, tracer)

	statusHook := func(ctx context.Context, payload *port.WebhookPayload) error {
		if err := repo.ApplyStatus(ctx, payload.TransactionID, payload.Status, payload.PaidAt); err != nil {
			return err
		}
		return events.PublishStatusChanged(ctx, payload)
	}
	processWebhook := application.NewProcessWebhookUseCase(
		gateway,
		deduper,
		statusHook, // 确认钩子
		statusHook, // 失败钩子：同样落库并广播
		tracer,
	)

	handler := interfaces.NewPaymentHandler(createPayment, getStatus,
		map[string]*application.ProcessWebhookUseCase{
			gateway.Name(): processWebhook,
		})

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8088,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
