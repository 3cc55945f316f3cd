package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"vitrine/internal/service/payment/application"
	"vitrine/internal/service/payment/domain"
	"vitrine/internal/service/payment/port"
)

type stubGateway struct {
	validation *port.WebhookValidation
	status     *port.PaymentStatusResult
	statusErr  error
}

func (g *stubGateway) Name() string { return "pixforte" }

func (g *stubGateway) CreatePayment(_ context.Context, _ *port.CreatePaymentInput) (*port.PaymentResult, error) {
	return &port.PaymentResult{
		Success:       true,
		TransactionID: "txn_abc",
		Status:        domain.StatusPending,
		AmountCents:   5000,
	}, nil
}

func (g *stubGateway) GetPaymentStatus(_ context.Context, _ string) (*port.PaymentStatusResult, error) {
	return g.status, g.statusErr
}

func (g *stubGateway) ValidateWebhook(_ []byte, _ string) *port.WebhookValidation {
	return g.validation
}

func (g *stubGateway) CancelPayment(_ context.Context, _ string) error { return nil }
func (g *stubGateway) RefundPayment(_ context.Context, _ string) error { return nil }
func (g *stubGateway) SupportsMethod(m port.PaymentMethod) bool        { return m == port.MethodPIX }

func newTestHandler(gw *stubGateway) *PaymentHandler {
	tracer := otel.Tracer("test")
	return NewPaymentHandler(
		application.NewCreatePaymentUseCase(gw, "BRL", nil, tracer),
		application.NewGetPaymentStatusUseCase(gw, tracer),
		map[string]*application.ProcessWebhookUseCase{
			gw.Name(): application.NewProcessWebhookUseCase(gw, nil, nil, nil, tracer),
		},
	)
}

func serve(h *PaymentHandler, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestCreatePaymentEndpoint(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	body := `{"amount": 50.0, "customer": {"name": "Maria Silva", "document": "52998224725"}}`

	w := serve(h, httptest.NewRequest(http.MethodPost, "/create_payment", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp application.CreatePaymentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TransactionID != "txn_abc" || resp.Status != "pending" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCreatePaymentEndpointValidation(t *testing.T) {
	h := newTestHandler(&stubGateway{})

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"invalid document", `{"amount": 50.0, "customer": {"name": "X", "document": "123"}}`, "INVALID_CUSTOMER"},
		{"zero amount", `{"amount": 0, "customer": {"name": "X", "document": "52998224725"}}`, "INVALID_AMOUNT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, httptest.NewRequest(http.MethodPost, "/create_payment", strings.NewReader(tt.body)))
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", w.Code)
			}
			var errResp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
				t.Fatal(err)
			}
			if errResp["code"] != tt.wantCode {
				t.Errorf("code = %s, want %s", errResp["code"], tt.wantCode)
			}
		})
	}
}

func TestCreatePaymentEndpointMethodNotAllowed(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	w := serve(h, httptest.NewRequest(http.MethodGet, "/create_payment", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestPaymentStatusEndpoint(t *testing.T) {
	gw := &stubGateway{status: &port.PaymentStatusResult{TransactionID: "txn_abc", Status: domain.StatusPaid, AmountCents: 5000}}
	h := newTestHandler(gw)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/payment_status?transaction_id=txn_abc", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "paid" {
		t.Errorf("status = %v", resp["status"])
	}
}

func TestPaymentStatusEndpointRequiresTransactionID(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	w := serve(h, httptest.NewRequest(http.MethodGet, "/payment_status", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPaymentStatusEndpointGatewayDown(t *testing.T) {
	gw := &stubGateway{statusErr: &domain.GatewayError{Gateway: "pixforte", Message: "timeout"}}
	h := newTestHandler(gw)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/payment_status?transaction_id=txn_abc", nil))
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
	// 网关原始响应体不得外泄给调用方
	if strings.Contains(w.Body.String(), "timeout") {
		t.Error("gateway details must not leak to the caller")
	}
}

func TestWebhookEndpoint(t *testing.T) {
	gw := &stubGateway{validation: &port.WebhookValidation{
		IsValid: true,
		Payload: &port.WebhookPayload{EventID: "evt_001", TransactionID: "txn_abc", Status: domain.StatusPaid},
	}}
	h := newTestHandler(gw)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/pixforte", strings.NewReader(`{}`))
	req.Header.Set("X-Signature", "deadbeef")
	w := serve(h, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp application.WebhookResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Received {
		t.Error("Received = false")
	}
}

func TestWebhookEndpointInvalidSignature(t *testing.T) {
	gw := &stubGateway{validation: &port.WebhookValidation{IsValid: false, Error: "signature mismatch"}}
	h := newTestHandler(gw)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/pixforte", strings.NewReader(`{}`))
	req.Header.Set("X-Signature", "ffff")
	w := serve(h, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	var errResp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatal(err)
	}
	if errResp["code"] != "WEBHOOK_INVALID" {
		t.Errorf("code = %s", errResp["code"])
	}
}

func TestWebhookEndpointUnknownGateway(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	w := serve(h, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`)))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
