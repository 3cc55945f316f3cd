package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/tracing"
	"vitrine/internal/service/shipping/application"
	"vitrine/internal/service/shipping/domain"
)

// ShippingHandler 封装了 shipping 服务的 HTTP 处理器。
type ShippingHandler struct {
	service *application.ShippingService
}

// NewShippingHandler 创建一个新的 HTTP 处理器实例。
func NewShippingHandler(service *application.ShippingService) *ShippingHandler {
	return &ShippingHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *ShippingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/calculate_shipping", h.handleCalculateShipping)
}

func (h *ShippingHandler) handleCalculateShipping(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// 先提取trace上下文，再给请求注入带 trace_id 的 logger
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	cep := r.URL.Query().Get("cep")
	cartTotal := 0.0
	if raw := r.URL.Query().Get("cart_total"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid cart_total", http.StatusBadRequest)
			return
		}
		cartTotal = parsed
	}

	resp, err := h.service.CalculateShipping(ctx, &application.CalculateShippingRequest{
		CEP:       cep,
		CartTotal: cartTotal,
	})
	if err != nil {
		// 根据错误类型返回不同的 HTTP 状态码
		var statusCode int
		switch {
		case errors.Is(err, domain.ErrInvalidCEP):
			statusCode = http.StatusBadRequest
		case errors.Is(err, domain.ErrCEPNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, domain.ErrGeocodingFailed):
			statusCode = http.StatusBadGateway
		default:
			statusCode = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
