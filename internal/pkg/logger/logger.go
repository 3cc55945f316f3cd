package logger

import (
	"context"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init 配置全局 zerolog 实例。
// 所有服务在启动时调用一次，之后通过 Ctx(ctx) 获取带 trace_id 的 logger。
func Init(serviceName string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zlog.With().Str("service", serviceName).Logger()
	// 没有注入请求级 logger 的 context 统一退回全局 logger
	zerolog.DefaultContextLogger = &zlog.Logger
}

// WithTraceID 返回一个携带 trace_id 字段 logger 的新 context。
// 在 HTTP 中间件中调用，handler 内部通过 Ctx 取回。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	l := zlog.With().Str("trace_id", traceID).Logger()
	return l.WithContext(ctx)
}

// Ctx 从 context 中取出请求级 logger；没有注入时退回全局 logger。
func Ctx(ctx context.Context) *zerolog.Logger {
	return zlog.Ctx(ctx)
}
