package tools

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/exedev/fincoach/internal/ledger"
)

// fakeLedger implements LedgerAPI with canned data.
type fakeLedger struct {
	balance float64
	txns    []ledger.Transaction
	err     error

	balanceCalls int
	txnCalls     int
}

func (f *fakeLedger) Balance(ctx context.Context, accountID string) (float64, error) {
	f.balanceCalls++
	if f.err != nil {
		return 0, f.err
	}
	return f.balance, nil
}

func (f *fakeLedger) Transactions(ctx context.Context, accountID string) ([]ledger.Transaction, error) {
	f.txnCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.txns, nil
}

func TestGetBalanceTool(t *testing.T) {
	api := &fakeLedger{balance: 512.25}
	tool := &BalanceTool{api: api}

	result, err := tool.Execute(context.Background(), map[string]interface{}{"account_id": "acc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["balance"] != 512.25 {
		t.Fatalf("expected balance 512.25, got %v", result["balance"])
	}
	if result["verified"] != true {
		t.Fatal("live balance must carry verified: true")
	}
	if api.balanceCalls != 1 {
		t.Fatalf("expected 1 ledger call, got %d", api.balanceCalls)
	}
}

func TestGetBalanceToolPropagatesLedgerError(t *testing.T) {
	remoteErr := &ledger.RemoteError{Op: "account", Status: 503}
	tool := &BalanceTool{api: &fakeLedger{err: remoteErr}}

	_, err := tool.Execute(context.Background(), map[string]interface{}{"account_id": "acc-1"})
	var re *ledger.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError to propagate, got %v", err)
	}
}

func TestSpendingByCategory(t *testing.T) {
	api := &fakeLedger{txns: []ledger.Transaction{
		{Description: "Whole Foods Market", Amount: 80},
		{Description: "Shell Gas Station", Amount: 45},
		{Description: "Netflix", Amount: 15},
		{Description: "mystery merchant", Amount: 10},
		{Description: "Safeway grocery", Amount: 20},
	}}
	tool := &SpendingTool{api: api}

	result, err := tool.Execute(context.Background(), map[string]interface{}{"account_id": "acc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	categories := result["categories"].(map[string]float64)
	if categories[CategoryGroceries] != 100 {
		t.Errorf("groceries = %v, want 100", categories[CategoryGroceries])
	}
	if categories[CategoryTransportation] != 45 {
		t.Errorf("transportation = %v, want 45", categories[CategoryTransportation])
	}
	if categories[CategorySubscriptions] != 15 {
		t.Errorf("subscriptions = %v, want 15", categories[CategorySubscriptions])
	}
	if categories[CategoryOther] != 10 {
		t.Errorf("other = %v, want 10", categories[CategoryOther])
	}
	if result["total"] != 170.0 {
		t.Errorf("total = %v, want 170", result["total"])
	}
	if result["period_days"] != 30 {
		t.Errorf("period_days = %v, want default 30", result["period_days"])
	}
	if result["verified"] != true {
		t.Error("spending summary must carry verified: true")
	}
}

func TestSpendingByCategoryCustomDays(t *testing.T) {
	tool := &SpendingTool{api: &fakeLedger{}}
	// JSON-decoded numbers arrive as float64.
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"account_id": "acc-1",
		"days":       float64(7),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["period_days"] != 7 {
		t.Fatalf("period_days = %v, want 7", result["period_days"])
	}
}

func TestCheckAffordability(t *testing.T) {
	cases := []struct {
		balance   float64
		amount    float64
		canAfford bool
		remainder float64
	}{
		{100, 60, false, 40},  // remainder 40 < 50 buffer
		{200, 60, true, 140},  // remainder 140 >= 50
		{110, 60, true, 50},   // exactly the buffer is still safe
		{109, 60, false, 49},
	}

	for _, tc := range cases {
		tool := &AffordabilityTool{api: &fakeLedger{balance: tc.balance}}
		result, err := tool.Execute(context.Background(), map[string]interface{}{
			"account_id": "acc-1",
			"amount":     tc.amount,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result["can_afford"] != tc.canAfford {
			t.Errorf("balance=%v amount=%v: can_afford = %v, want %v",
				tc.balance, tc.amount, result["can_afford"], tc.canAfford)
		}
		if result["balance_after"] != tc.remainder {
			t.Errorf("balance=%v amount=%v: balance_after = %v, want %v",
				tc.balance, tc.amount, result["balance_after"], tc.remainder)
		}
		if result["verified"] != true {
			t.Error("affordability must carry verified: true")
		}
	}
}

func TestAffordabilityRecommendation(t *testing.T) {
	tool := &AffordabilityTool{api: &fakeLedger{balance: 100}}
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"account_id": "acc-1",
		"amount":     float64(60),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := result["recommendation"].(string)
	if rec == "" || rec == "Safe to purchase" {
		t.Fatalf("expected a cautionary recommendation, got %q", rec)
	}
}

func TestAPRCostTool(t *testing.T) {
	tool := &APRCostTool{}
	result, err := tool.Execute(context.Background(), map[string]interface{}{
		"balance": float64(1000),
		"apr":     float64(24),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result["monthly_interest"].(float64)-20) > 1e-9 {
		t.Errorf("monthly_interest = %v, want 20", result["monthly_interest"])
	}
	if math.Abs(result["yearly_interest"].(float64)-240) > 1e-9 {
		t.Errorf("yearly_interest = %v, want 240", result["yearly_interest"])
	}
	if result["verified"] != false {
		t.Error("pure computation must not claim verified data")
	}
}

func TestMissingArguments(t *testing.T) {
	tool := &BalanceTool{api: &fakeLedger{}}
	if _, err := tool.Execute(context.Background(), map[string]interface{}{}); err == nil {
		t.Fatal("expected error for missing account_id")
	}

	afford := &AffordabilityTool{api: &fakeLedger{}}
	if _, err := afford.Execute(context.Background(), map[string]interface{}{"account_id": "a"}); err == nil {
		t.Fatal("expected error for missing amount")
	}
}
