package tools

import (
	"context"
	"fmt"

	"github.com/exedev/fincoach/internal/ledger"
)

// affordabilityBuffer is the minimum balance that must remain after a
// purchase for it to be considered safe.
const affordabilityBuffer = 50.0

// LedgerAPI is the slice of the ledger client the finance tools need.
type LedgerAPI interface {
	Balance(ctx context.Context, accountID string) (float64, error)
	Transactions(ctx context.Context, accountID string) ([]ledger.Transaction, error)
}

// NewFinanceCatalog builds the fixed catalog of financial tools backed by
// the given ledger.
func NewFinanceCatalog(api LedgerAPI) *Catalog {
	return NewCatalog(
		&BalanceTool{api: api},
		&SpendingTool{api: api},
		&AffordabilityTool{api: api},
		&APRCostTool{},
	)
}

// BalanceTool reports the live account balance.
type BalanceTool struct {
	api LedgerAPI
}

func (t *BalanceTool) Name() string { return "get_balance" }

func (t *BalanceTool) Description() string {
	return "Get the current account balance. Use this when the user asks about their balance or available money."
}

func (t *BalanceTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"account_id": map[string]interface{}{"type": "string", "description": "User's account ID"},
		},
		"required": []string{"account_id"},
	}
}

func (t *BalanceTool) Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	accountID, err := stringArg(args, "account_id")
	if err != nil {
		return nil, err
	}
	balance, err := t.api.Balance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"balance":  balance,
		"source":   "nessie_api",
		"verified": true,
	}, nil
}

// SpendingTool groups recent spending by category.
type SpendingTool struct {
	api LedgerAPI
}

func (t *SpendingTool) Name() string { return "get_spending_by_category" }

func (t *SpendingTool) Description() string {
	return "Analyze spending by category (dining, groceries, etc). Use when the user asks where their money goes."
}

func (t *SpendingTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"account_id": map[string]interface{}{"type": "string"},
			"days":       map[string]interface{}{"type": "integer", "description": "Number of days to analyze (default 30)"},
		},
		"required": []string{"account_id"},
	}
}

func (t *SpendingTool) Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	accountID, err := stringArg(args, "account_id")
	if err != nil {
		return nil, err
	}
	days := intArg(args, "days", 30)

	txns, err := t.api.Transactions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	categories := map[string]float64{}
	var total float64
	for _, txn := range txns {
		categories[Categorize(txn.Description)] += txn.Amount
		total += txn.Amount
	}

	return map[string]interface{}{
		"categories":  categories,
		"total":       total,
		"period_days": days,
		"source":      "nessie_api",
		"verified":    true,
	}, nil
}

// AffordabilityTool checks whether a purchase is safe given the balance.
type AffordabilityTool struct {
	api LedgerAPI
}

func (t *AffordabilityTool) Name() string { return "check_affordability" }

func (t *AffordabilityTool) Description() string {
	return "Check if the user can afford a purchase. Use when the user asks 'can I afford X?'"
}

func (t *AffordabilityTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"account_id": map[string]interface{}{"type": "string"},
			"amount":     map[string]interface{}{"type": "number", "description": "Purchase amount in dollars"},
		},
		"required": []string{"account_id", "amount"},
	}
}

func (t *AffordabilityTool) Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	accountID, err := stringArg(args, "account_id")
	if err != nil {
		return nil, err
	}
	amount, err := floatArg(args, "amount")
	if err != nil {
		return nil, err
	}

	balance, err := t.api.Balance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	remainder := balance - amount
	canAfford := remainder >= affordabilityBuffer

	recommendation := "Safe to purchase"
	if !canAfford {
		recommendation = fmt.Sprintf("Wait - would leave only $%.2f", remainder)
	}

	return map[string]interface{}{
		"can_afford":       canAfford,
		"current_balance":  balance,
		"purchase_amount":  amount,
		"balance_after":    remainder,
		"buffer_maintained": canAfford,
		"recommendation":   recommendation,
		"verified":         true,
	}, nil
}

// APRCostTool projects the cost of carrying a credit card balance. It is a
// pure computation: no live ledger data backs it, so the result is not
// marked verified.
type APRCostTool struct{}

func (t *APRCostTool) Name() string { return "calculate_apr_cost" }

func (t *APRCostTool) Description() string {
	return "Calculate the interest cost of carrying a credit card balance at a given APR. Use for 'what does it cost to carry $X at Y%' questions."
}

func (t *APRCostTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"balance": map[string]interface{}{"type": "number", "description": "Balance carried, in dollars"},
			"apr":     map[string]interface{}{"type": "number", "description": "Annual percentage rate, e.g. 24.99"},
			"months":  map[string]interface{}{"type": "integer", "description": "Months to project (default 12)"},
		},
		"required": []string{"balance", "apr"},
	}
}

func (t *APRCostTool) Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	balance, err := floatArg(args, "balance")
	if err != nil {
		return nil, err
	}
	apr, err := floatArg(args, "apr")
	if err != nil {
		return nil, err
	}
	months := intArg(args, "months", 12)

	cost := CalculateAPRCost(balance, apr, months)
	return map[string]interface{}{
		"balance":          cost.Balance,
		"apr":              cost.APR,
		"months":           months,
		"monthly_interest": cost.MonthlyInterest,
		"yearly_interest":  cost.YearlyInterest,
		"total_cost":       cost.TotalCost,
		"verified":         false,
	}, nil
}

// Argument helpers. The provider validates arguments against the schema
// before they reach us, so these guard against shape drift only.

func stringArg(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing or invalid %q argument", key)
	}
	return v, nil
}

func floatArg(args map[string]interface{}, key string) (float64, error) {
	switch v := args[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("missing or invalid %q argument", key)
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}
