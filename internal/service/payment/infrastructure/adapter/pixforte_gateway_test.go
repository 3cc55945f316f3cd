package adapter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"vitrine/internal/pkg/httpclient"
	"vitrine/internal/service/payment/domain"
	"vitrine/internal/service/payment/port"
)

const testWebhookSecret = "whsec_test_123"

func newTestAdapter(t *testing.T, baseURL string) *PixForteAdapter {
	t.Helper()
	a, err := NewPixForteAdapter(
		httpclient.NewClient(otel.Tracer("test"), "vitrine-test/1.0"),
		PixForteConfig{
			BaseURL:       baseURL,
			PublicKey:     "pk_test",
			SecretKey:     "sk_test",
			WebhookSecret: testWebhookSecret,
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNewPixForteAdapterRequiresCredentials(t *testing.T) {
	client := httpclient.NewClient(otel.Tracer("test"), "vitrine-test/1.0")

	tests := []struct {
		name string
		cfg  PixForteConfig
	}{
		{"missing secret key", PixForteConfig{BaseURL: "https://x", PublicKey: "pk", WebhookSecret: "wh"}},
		{"missing public key", PixForteConfig{BaseURL: "https://x", SecretKey: "sk", WebhookSecret: "wh"}},
		{"missing webhook secret", PixForteConfig{BaseURL: "https://x", PublicKey: "pk", SecretKey: "sk"}},
		{"missing base URL", PixForteConfig{PublicKey: "pk", SecretKey: "sk", WebhookSecret: "wh"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPixForteAdapter(client, tt.cfg); err == nil {
				t.Error("expected constructor to fail")
			}
		})
	}
}

func TestPixForteAdapterSupportsMethod(t *testing.T) {
	a := newTestAdapter(t, "https://unused")
	if !a.SupportsMethod(port.MethodPIX) {
		t.Error("pix must be supported")
	}
	for _, m := range []port.PaymentMethod{port.MethodCard, port.MethodBoleto} {
		if a.SupportsMethod(m) {
			t.Errorf("%s must not be supported", m)
		}
	}
	if a.Name() != "pixforte" {
		t.Errorf("Name = %s", a.Name())
	}
}

func TestPixForteAdapterCreatePayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Public-Key") != "pk_test" || r.Header.Get("X-Secret-Key") != "sk_test" {
			t.Error("auth headers missing")
		}

		body, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("unparsable request body: %v", err)
		}
		if req["amount"] != float64(5000) {
			t.Errorf("amount = %v, want 5000", req["amount"])
		}
		if req["external_reference"] != "order-42" {
			t.Errorf("external_reference = %v", req["external_reference"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"id": "txn_abc",
			"status": "AWAITING_PAYMENT",
			"amount": 5000,
			"expires_at": "2026-09-01T15:00:00Z",
			"pix": {"qr_code": "00020126...", "qr_code_base64": "iVBORw0KG..."}
		}`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	result, err := a.CreatePayment(context.Background(), &port.CreatePaymentInput{
		AmountCents: 5000,
		Description: "Pedido 42",
		Customer: port.Customer{
			Name:     "Maria Silva",
			Document: "52998224725",
		},
		ExternalReference: "order-42",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TransactionID != "txn_abc" {
		t.Errorf("TransactionID = %s", result.TransactionID)
	}
	if result.Status != domain.StatusPending {
		t.Errorf("Status = %s, want pending", result.Status)
	}
	if result.PIX == nil || result.PIX.QRCode != "00020126..." {
		t.Errorf("PIX = %+v", result.PIX)
	}
	if result.ExpiresAt == nil {
		t.Error("ExpiresAt should be parsed")
	}
}

func TestPixForteAdapterCreatePaymentRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success": false, "error": "invalid document"}`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	_, err := a.CreatePayment(context.Background(), &port.CreatePaymentInput{AmountCents: 100})

	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %T, want *domain.GatewayError", err)
	}
	if gerr.Gateway != "pixforte" || gerr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("GatewayError = %+v", gerr)
	}
	if gerr.Body == "" {
		t.Error("GatewayError should carry the raw response body")
	}
}

func TestPixForteAdapterBusinessFailureOn200(t *testing.T) {
	// 厂商用 200 + success:false 报告业务失败
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error": "daily limit exceeded"}`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	_, err := a.CreatePayment(context.Background(), &port.CreatePaymentInput{AmountCents: 100})

	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %T, want *domain.GatewayError", err)
	}
}

func TestPixForteAdapterGetPaymentStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/payments/txn_abc" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"id": "txn_abc",
			"status": "PAID",
			"amount": 5000,
			"paid_at": "2026-09-01T14:30:00Z"
		}`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	result, err := a.GetPaymentStatus(context.Background(), "txn_abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.StatusPaid {
		t.Errorf("Status = %s, want paid", result.Status)
	}
	if result.PaidAt == nil {
		t.Error("PaidAt should be parsed")
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		vendor string
		want   domain.PaymentStatus
	}{
		{"PENDING", domain.StatusPending},
		{"AWAITING_PAYMENT", domain.StatusPending},
		{"PROCESSING", domain.StatusProcessing},
		{"PAID", domain.StatusPaid},
		{"CONFIRMED", domain.StatusPaid},
		{"FAILED", domain.StatusFailed},
		{"DECLINED", domain.StatusFailed},
		{"CANCELLED", domain.StatusCancelled},
		{"CANCELED", domain.StatusCancelled},
		{"REFUNDED", domain.StatusRefunded},
		{"EXPIRED", domain.StatusExpired},
		// 未收录的厂商状态按 pending 处理
		{"SOMETHING_NEW", domain.StatusPending},
		{"", domain.StatusPending},
	}
	for _, tt := range tests {
		if got := normalizeStatus(tt.vendor); got != tt.want {
			t.Errorf("normalizeStatus(%q) = %s, want %s", tt.vendor, got, tt.want)
		}
	}
}

func signPayload(payload []byte) string {
	return signWith(payload, testWebhookSecret)
}

func signWith(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPixForteAdapterValidateWebhook(t *testing.T) {
	a := newTestAdapter(t, "https://unused")
	payload := []byte(`{
		"event_id": "evt_001",
		"event": "payment.updated",
		"data": {"id": "txn_abc", "status": "PAID", "amount": 5000, "paid_at": "2026-09-01T14:30:00Z"}
	}`)

	v := a.ValidateWebhook(payload, signPayload(payload))
	if !v.IsValid {
		t.Fatalf("valid signature rejected: %s", v.Error)
	}
	if v.Payload.EventID != "evt_001" || v.Payload.TransactionID != "txn_abc" {
		t.Errorf("Payload = %+v", v.Payload)
	}
	if v.Payload.Status != domain.StatusPaid {
		t.Errorf("Status = %s, want paid", v.Payload.Status)
	}
	if v.Payload.PaidAt == nil {
		t.Error("PaidAt should be parsed")
	}
}

func TestPixForteAdapterValidateWebhookRejects(t *testing.T) {
	a := newTestAdapter(t, "https://unused")
	payload := []byte(`{"event_id": "evt_001", "data": {"id": "txn_abc", "status": "PAID"}}`)
	goodSig := signPayload(payload)

	tests := []struct {
		name      string
		payload   []byte
		signature string
	}{
		{"tampered payload", []byte(`{"event_id": "evt_001", "data": {"id": "txn_abc", "status": "PAID", "amount": 1}}`), goodSig},
		{"wrong key signature", payload, signWith(payload, "other-secret")},
		{"malformed hex", payload, "not-hex!!"},
		{"empty signature", payload, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := a.ValidateWebhook(tt.payload, tt.signature)
			if v.IsValid {
				t.Fatal("invalid webhook accepted")
			}
			if v.Payload != nil {
				t.Fatal("rejected webhook must not expose parsed payload")
			}
		})
	}
}

func TestPixForteAdapterCancelAndRefund(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "id": "txn_abc", "status": "CANCELLED"}`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	if err := a.CancelPayment(context.Background(), "txn_abc"); err != nil {
		t.Fatalf("CancelPayment: %v", err)
	}
	if err := a.RefundPayment(context.Background(), "txn_abc"); err != nil {
		t.Fatalf("RefundPayment: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/payments/txn_abc/cancel" || paths[1] != "/payments/txn_abc/refund" {
		t.Errorf("paths = %v", paths)
	}
}
