package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"

	"vitrine/internal/pkg/httpclient"
	"vitrine/internal/service/shipping/domain"
)

func newTestClient() *httpclient.Client {
	return httpclient.NewClient(otel.Tracer("test"), "vitrine-test/1.0")
}

func mustCEP(t *testing.T, raw string) domain.CEP {
	t.Helper()
	cep, err := domain.NewCEP(raw)
	if err != nil {
		t.Fatal(err)
	}
	return cep
}

func TestViaCEPAdapterGetAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/01310100/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"cep": "01310-100",
			"logradouro": "Avenida Paulista",
			"bairro": "Bela Vista",
			"localidade": "São Paulo",
			"uf": "SP"
		}`))
	}))
	defer server.Close()

	a := NewViaCEPAdapter(newTestClient(), server.URL)
	addr, err := a.GetAddressFromCEP(context.Background(), mustCEP(t, "01310-100"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.Street != "Avenida Paulista" || addr.City != "São Paulo" || addr.State != "SP" {
		t.Errorf("unexpected address: %+v", addr)
	}
	if addr.CEP.String() != "01310100" {
		t.Errorf("CEP = %s, want 01310100", addr.CEP)
	}
}

func TestViaCEPAdapterNotFound(t *testing.T) {
	// 上游用 200 + erro 标志表示查无此邮编
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"erro": true}`))
	}))
	defer server.Close()

	a := NewViaCEPAdapter(newTestClient(), server.URL)
	_, err := a.GetAddressFromCEP(context.Background(), mustCEP(t, "99999999"))
	if !errors.Is(err, domain.ErrCEPNotFound) {
		t.Fatalf("error = %v, want ErrCEPNotFound", err)
	}
}

func TestViaCEPAdapterServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a := NewViaCEPAdapter(newTestClient(), server.URL)
	_, err := a.GetAddressFromCEP(context.Background(), mustCEP(t, "01310100"))
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if errors.Is(err, domain.ErrCEPNotFound) {
		t.Fatal("transport error must not look like a not-found")
	}
}

func testAddress(t *testing.T) *domain.Address {
	t.Helper()
	return &domain.Address{
		Street:       "Avenida Paulista",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
		CEP:          mustCEP(t, "01310-100"),
	}
}

func TestNominatimAdapterFreeTextHit(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "-23.5614", "lon": "-46.6559"}]`))
	}))
	defer server.Close()

	a := NewNominatimAdapter(newTestClient(), server.URL)
	coords, err := a.GeocodeAddress(context.Background(), testAddress(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coords.Lat != -23.5614 || coords.Lng != -46.6559 {
		t.Errorf("coords = %+v", coords)
	}
	if gotQuery != "Avenida Paulista, Bela Vista, São Paulo, SP, Brazil" {
		t.Errorf("q = %q", gotQuery)
	}
}

func TestNominatimAdapterPostalCodeFallback(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("postalcode") == "" {
			// 全文检索无结果
			w.Write([]byte(`[]`))
			return
		}
		if got := r.URL.Query().Get("postalcode"); got != "01310-100" {
			t.Errorf("postalcode = %q, want 01310-100", got)
		}
		if got := r.URL.Query().Get("country"); got != "Brazil" {
			t.Errorf("country = %q, want Brazil", got)
		}
		w.Write([]byte(`[{"lat": "-23.5614", "lon": "-46.6559"}]`))
	}))
	defer server.Close()

	a := NewNominatimAdapter(newTestClient(), server.URL)
	coords, err := a.GeocodeAddress(context.Background(), testAddress(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coords.Lat != -23.5614 {
		t.Errorf("coords = %+v", coords)
	}
	if len(requests) != 2 {
		t.Fatalf("made %d requests, want 2 (free-text then postal code)", len(requests))
	}
}

func TestNominatimAdapterBothEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	a := NewNominatimAdapter(newTestClient(), server.URL)
	_, err := a.GeocodeAddress(context.Background(), testAddress(t))
	if !errors.Is(err, domain.ErrGeocodingFailed) {
		t.Fatalf("error = %v, want ErrGeocodingFailed", err)
	}
}

func TestNominatimAdapterUnparsableCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "not-a-number", "lon": "-46.6559"}]`))
	}))
	defer server.Close()

	a := NewNominatimAdapter(newTestClient(), server.URL)
	_, err := a.GeocodeAddress(context.Background(), testAddress(t))
	if !errors.Is(err, domain.ErrGeocodingFailed) {
		t.Fatalf("error = %v, want ErrGeocodingFailed", err)
	}
}

func TestOSRMAdapterCalculateRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 坐标顺序必须是 lon,lat
		if want := "/route/v1/driving/-46.633300,-23.550500;-46.655900,-23.561400"; r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		if got := r.URL.Query().Get("overview"); got != "false" {
			t.Errorf("overview = %q, want false", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code": "Ok", "routes": [{"distance": 5321.7, "duration": 812.4}]}`))
	}))
	defer server.Close()

	a := NewOSRMAdapter(newTestClient(), server.URL)
	route, err := a.CalculateRoute(context.Background(),
		domain.Coordinates{Lat: -23.5505, Lng: -46.6333},
		domain.Coordinates{Lat: -23.5614, Lng: -46.6559},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.DistanceMeters != 5321.7 {
		t.Errorf("DistanceMeters = %f, want 5321.7", route.DistanceMeters)
	}
	if route.DurationSeconds != 812.4 {
		t.Errorf("DurationSeconds = %f, want 812.4", route.DurationSeconds)
	}
}

func TestOSRMAdapterNoRoute(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"error code", `{"code": "NoRoute", "routes": []}`},
		{"ok but empty", `{"code": "Ok", "routes": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			a := NewOSRMAdapter(newTestClient(), server.URL)
			_, err := a.CalculateRoute(context.Background(), domain.Coordinates{}, domain.Coordinates{})
			if !errors.Is(err, domain.ErrRouteNotFound) {
				t.Fatalf("error = %v, want ErrRouteNotFound", err)
			}
		})
	}
}
