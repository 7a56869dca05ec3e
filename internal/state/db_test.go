package state

import (
	"context"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndReadTurns(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.EnsureSession(ctx, "s1", "acc-1"); err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	if err := db.RecordTurn(ctx, "s1", "user", "what's my balance?"); err != nil {
		t.Fatalf("record turn: %v", err)
	}
	if err := db.RecordTurn(ctx, "s1", "assistant", "You have $500."); err != nil {
		t.Fatalf("record turn: %v", err)
	}

	turns, err := db.Turns(ctx, "s1")
	if err != nil {
		t.Fatalf("read turns: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Fatalf("turns out of order: %+v", turns)
	}
}

func TestRecordTurnCreatesSession(t *testing.T) {
	db := testDB(t)
	// No explicit EnsureSession; the recorder path must still work.
	if err := db.RecordTurn(context.Background(), "implicit", "user", "hi"); err != nil {
		t.Fatalf("record turn: %v", err)
	}
}

func TestRecordAndReadInvocations(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.EnsureSession(ctx, "s1", "acc-1"); err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	if err := db.RecordInvocation(ctx, "s1", "get_balance", `{"account_id":"acc-1"}`, `{"balance":500}`, false); err != nil {
		t.Fatalf("record invocation: %v", err)
	}
	if err := db.RecordInvocation(ctx, "s1", "get_balance", `{}`, "ledger unavailable", true); err != nil {
		t.Fatalf("record invocation: %v", err)
	}

	invocations, err := db.Invocations(ctx, "s1")
	if err != nil {
		t.Fatalf("read invocations: %v", err)
	}
	if len(invocations) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(invocations))
	}
	if invocations[0].IsError || !invocations[1].IsError {
		t.Fatalf("error flags wrong: %+v", invocations)
	}
}

func TestSessionsSeparateTranscripts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	db.RecordTurn(ctx, "a", "user", "one")
	db.RecordTurn(ctx, "b", "user", "two")

	turns, err := db.Turns(ctx, "a")
	if err != nil {
		t.Fatalf("read turns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "one" {
		t.Fatalf("transcript bleed: %+v", turns)
	}
}
