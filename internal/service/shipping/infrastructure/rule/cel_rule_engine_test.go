package rule

import "testing"

func TestCELRuleAdapterEligible(t *testing.T) {
	adapter, err := NewCELRuleAdapter("cart_total >= 300.0")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	tests := []struct {
		cartTotal float64
		want      bool
	}{
		{0, false},
		{299.99, false},
		{300.0, true},
		{450.75, true},
	}
	for _, tt := range tests {
		got, err := adapter.Eligible(tt.cartTotal)
		if err != nil {
			t.Fatalf("Eligible(%f): %v", tt.cartTotal, err)
		}
		if got != tt.want {
			t.Errorf("Eligible(%f) = %v, want %v", tt.cartTotal, got, tt.want)
		}
	}
}

func TestCELRuleAdapterCompoundExpression(t *testing.T) {
	// 促销场景：低门槛包邮
	adapter, err := NewCELRuleAdapter("cart_total >= 150.0 && cart_total < 10000.0")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if ok, _ := adapter.Eligible(200); !ok {
		t.Error("Eligible(200) = false, want true")
	}
	if ok, _ := adapter.Eligible(100); ok {
		t.Error("Eligible(100) = true, want false")
	}
}

func TestCELRuleAdapterRejectsBadExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"syntax error", "cart_total >="},
		{"unknown variable", "order_total >= 300.0"},
		{"non-bool result", "cart_total * 2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCELRuleAdapter(tt.expr); err == nil {
				t.Errorf("NewCELRuleAdapter(%q) succeeded, want error", tt.expr)
			}
		})
	}
}

func TestThresholdRule(t *testing.T) {
	r := NewThresholdRule(300.0)
	if ok, _ := r.Eligible(299.99); ok {
		t.Error("Eligible(299.99) = true, want false")
	}
	if ok, _ := r.Eligible(300.0); !ok {
		t.Error("Eligible(300.0) = false, want true")
	}
}
