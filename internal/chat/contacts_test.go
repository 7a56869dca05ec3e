package chat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultContactsMatch(t *testing.T) {
	contacts := DefaultContacts()

	c, ok := contacts.Match("send mike 20 dollars")
	if !ok || c.Name != "Mike Chen" {
		t.Fatalf("expected Mike Chen, got %+v (ok=%v)", c, ok)
	}

	if _, ok := contacts.Match("send somebody 20 dollars"); ok {
		t.Fatal("unknown name should not match")
	}
}

func TestMatchIsDeterministicForMultipleNames(t *testing.T) {
	contacts := DefaultContacts()

	// "alex" sorts before "mike"; the same recipient must win every time.
	for i := 0; i < 20; i++ {
		c, ok := contacts.Match("send mike and alex 20 dollars")
		if !ok || c.Name != "Alex Kim" {
			t.Fatalf("iteration %d: expected Alex Kim, got %+v (ok=%v)", i, c, ok)
		}
	}
}

func TestLoadContactsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.yaml")
	content := `
Dana:
  name: Dana Whitfield
  account_id: acc-dana
mike:
  name: Mike Chen
  account_id: acc-mike
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write contacts: %v", err)
	}

	contacts, err := LoadContacts(path)
	if err != nil {
		t.Fatalf("load contacts: %v", err)
	}

	// Keys are lowercased for matching.
	c, ok := contacts.Match("pay dana 5 bucks")
	if !ok || c.AccountID != "acc-dana" {
		t.Fatalf("expected dana, got %+v (ok=%v)", c, ok)
	}
}

func TestLoadContactsMissingFileFallsBack(t *testing.T) {
	contacts, err := LoadContacts("/nonexistent/contacts.yaml")
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if _, ok := contacts.Match("sarah"); !ok {
		t.Fatal("defaults missing sarah")
	}
}
