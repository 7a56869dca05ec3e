package tools

import (
	"errors"
	"testing"
)

func TestCatalogResolve(t *testing.T) {
	catalog := NewFinanceCatalog(&fakeLedger{})

	for _, name := range []string{"get_balance", "get_spending_by_category", "check_affordability", "calculate_apr_cost"} {
		tool, err := catalog.Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q): %v", name, err)
			continue
		}
		if tool.Name() != name {
			t.Errorf("Resolve(%q) returned tool %q", name, tool.Name())
		}
	}
}

func TestCatalogUnknownTool(t *testing.T) {
	catalog := NewFinanceCatalog(&fakeLedger{})
	_, err := catalog.Resolve("steal_money")
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestCatalogDefs(t *testing.T) {
	catalog := NewFinanceCatalog(&fakeLedger{})
	defs := catalog.Defs()
	if len(defs) != 4 {
		t.Fatalf("expected 4 tool defs, got %d", len(defs))
	}
	// Registration order is stable; the model sees a deterministic catalog.
	if defs[0].Name != "get_balance" {
		t.Fatalf("expected get_balance first, got %q", defs[0].Name)
	}
	for _, def := range defs {
		if def.Description == "" {
			t.Errorf("tool %q has no description", def.Name)
		}
		if def.InputSchema["type"] != "object" {
			t.Errorf("tool %q schema is not an object", def.Name)
		}
	}
}
