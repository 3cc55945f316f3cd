package interfaces

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/tracing"
	"vitrine/internal/service/payment/application"
	"vitrine/internal/service/payment/domain"
)

// signatureHeader 是网关回调携带 HMAC 签名的请求头。
const signatureHeader = "X-Signature"

// PaymentHandler 封装了 payment 服务的 HTTP 处理器。
type PaymentHandler struct {
	createPayment *application.CreatePaymentUseCase
	getStatus     *application.GetPaymentStatusUseCase
	// webhook 用例按网关名注册，路径 /webhooks/<gateway> 决定用哪个
	webhooks map[string]*application.ProcessWebhookUseCase
}

// NewPaymentHandler 创建一个新的 HTTP 处理器实例。
func NewPaymentHandler(
	createPayment *application.CreatePaymentUseCase,
	getStatus *application.GetPaymentStatusUseCase,
	webhooks map[string]*application.ProcessWebhookUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		createPayment: createPayment,
		getStatus:     getStatus,
		webhooks:      webhooks,
	}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/create_payment", h.handleCreatePayment)
	mux.HandleFunc("/payment_status", h.handlePaymentStatus)
	mux.HandleFunc("/webhooks/", h.handleWebhook)
}

// requestContext 提取trace上下文并注入带 trace_id 的请求级 logger。
func requestContext(r *http.Request) *http.Request {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))
	return r.WithContext(ctx)
}

func (h *PaymentHandler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r = requestContext(r)

	var req application.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.createPayment.Execute(r.Context(), &req)
	if err != nil {
		writePaymentError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *PaymentHandler) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	r = requestContext(r)

	transactionID := r.URL.Query().Get("transaction_id")
	if transactionID == "" {
		http.Error(w, "transaction_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.getStatus.Execute(r.Context(), transactionID)
	if err != nil {
		writePaymentError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"transaction_id": result.TransactionID,
		"status":         string(result.Status),
		"amount_cents":   result.AmountCents,
		"paid_at":        result.PaidAt,
	})
}

func (h *PaymentHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r = requestContext(r)

	gatewayName := r.URL.Path[len("/webhooks/"):]
	useCase, ok := h.webhooks[gatewayName]
	if !ok {
		http.Error(w, "unknown gateway", http.StatusNotFound)
		return
	}

	rawPayload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	resp, err := useCase.Execute(r.Context(), rawPayload, r.Header.Get(signatureHeader))
	if err != nil {
		writePaymentError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writePaymentError 根据错误类型返回不同的 HTTP 状态码。
// 面向用户的错误保留可读信息；网关原始响应体只留在日志里。
func writePaymentError(w http.ResponseWriter, err error) {
	var paymentErr *domain.PaymentError
	if errors.As(err, &paymentErr) {
		var statusCode int
		switch paymentErr.Code {
		case domain.ErrCodeInvalidCustomer, domain.ErrCodeInvalidAmount, domain.ErrCodeMethodNotSupported:
			statusCode = http.StatusUnprocessableEntity
		case domain.ErrCodeWebhookInvalid:
			statusCode = http.StatusUnauthorized
		default:
			statusCode = http.StatusInternalServerError
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    string(paymentErr.Code),
			"message": paymentErr.Message,
		})
		return
	}

	var gatewayErr *domain.GatewayError
	if errors.As(err, &gatewayErr) {
		http.Error(w, "payment gateway unavailable", http.StatusBadGateway)
		return
	}

	http.Error(w, err.Error(), http.StatusInternalServerError)
}
