package domain

import (
	"testing"
	"time"
)

func TestPaymentStatusIsFinal(t *testing.T) {
	finals := []PaymentStatus{StatusPaid, StatusFailed, StatusCancelled, StatusRefunded, StatusExpired}
	for _, s := range finals {
		if !s.IsFinal() {
			t.Errorf("%s.IsFinal() = false, want true", s)
		}
	}
	for _, s := range []PaymentStatus{StatusPending, StatusProcessing} {
		if s.IsFinal() {
			t.Errorf("%s.IsFinal() = true, want false", s)
		}
	}
}

func TestPaymentApplyStatus(t *testing.T) {
	p := &Payment{Status: StatusPending}

	if !p.ApplyStatus(StatusProcessing, nil) {
		t.Fatal("pending → processing should apply")
	}
	if p.Status != StatusProcessing {
		t.Fatalf("Status = %s", p.Status)
	}

	paidAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if !p.ApplyStatus(StatusPaid, &paidAt) {
		t.Fatal("processing → paid should apply")
	}
	if p.PaidAt == nil || !p.PaidAt.Equal(paidAt) {
		t.Fatalf("PaidAt = %v, want %v", p.PaidAt, paidAt)
	}

	// 终态之后的迟到回调被忽略
	if p.ApplyStatus(StatusFailed, nil) {
		t.Fatal("late webhook after final state must be a no-op")
	}
	if p.Status != StatusPaid {
		t.Fatalf("Status = %s, want paid", p.Status)
	}
}

func TestPaymentApplyStatusPaidWithoutTimestamp(t *testing.T) {
	p := &Payment{Status: StatusPending}
	if !p.ApplyStatus(StatusPaid, nil) {
		t.Fatal("pending → paid should apply")
	}
	if p.PaidAt == nil {
		t.Fatal("PaidAt should default to now when the webhook omits it")
	}
}
