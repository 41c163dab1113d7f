package escalate

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/RevCBH/revwatch/internal/aging"
)

type mockEscalator struct {
	name  string
	err   error
	calls int32
}

func (m *mockEscalator) Escalate(ctx context.Context, e Escalation) error {
	atomic.AddInt32(&m.calls, 1)
	return m.err
}

func (m *mockEscalator) Name() string {
	return m.name
}

func testEscalation() Escalation {
	return Escalation{
		Severity: aging.SeverityLow,
		Subject:  "owner/repo#1",
		Title:    "Test",
		Message:  "Test message",
	}
}

func TestMulti_Escalate(t *testing.T) {
	mock1 := &mockEscalator{name: "mock1"}
	mock2 := &mockEscalator{name: "mock2"}
	mock3 := &mockEscalator{name: "mock3"}

	multi := NewMulti(mock1, mock2, mock3)
	err := multi.Escalate(context.Background(), testEscalation())

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if mock1.calls != 1 || mock2.calls != 1 || mock3.calls != 1 {
		t.Error("expected all escalators to be called once")
	}
}

func TestMulti_EscalateContinuesOnError(t *testing.T) {
	mock1 := &mockEscalator{name: "mock1"}
	mock2 := &mockEscalator{name: "mock2", err: errors.New("failed")}
	mock3 := &mockEscalator{name: "mock3"}

	multi := NewMulti(mock1, mock2, mock3)
	err := multi.Escalate(context.Background(), testEscalation())

	if err == nil {
		t.Fatal("expected error from failing escalator")
	}
	if !strings.Contains(err.Error(), "mock2: failed") {
		t.Errorf("expected error to name the failing backend, got %q", err)
	}

	// All escalators are still called
	if mock1.calls != 1 || mock2.calls != 1 || mock3.calls != 1 {
		t.Error("expected all escalators to be called despite errors")
	}
}

func TestMulti_Empty(t *testing.T) {
	multi := NewMulti()
	if err := multi.Escalate(context.Background(), testEscalation()); err != nil {
		t.Errorf("unexpected error for empty multi: %v", err)
	}
}

func TestMulti_Name(t *testing.T) {
	multi := NewMulti()
	if multi.Name() != "multi" {
		t.Errorf("expected 'multi', got %q", multi.Name())
	}
}

func TestNop(t *testing.T) {
	var n Nop
	if err := n.Escalate(context.Background(), testEscalation()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if n.Name() != "nop" {
		t.Errorf("expected 'nop', got %q", n.Name())
	}
}

func testDigest() Escalation {
	return Escalation{
		Kind:     KindDigest,
		Severity: aging.SeverityHigh,
		Title:    "2 PR(s) awaiting review",
		Items: []Escalation{
			{Severity: aging.SeverityHigh, Subject: "owner/repo#4", Title: "#4: Retry uploads", Message: "Waiting 3 days"},
			{Severity: aging.SeverityLow, Subject: "owner/repo#9", Title: "#9: Fix typo", Message: "Waiting 2 hours"},
		},
	}
}
