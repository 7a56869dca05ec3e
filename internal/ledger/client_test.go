package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 5*time.Second)
}

func TestAccounts(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers/cust-1/accounts" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key, got query %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]Account{
			{ID: "acc-1", Nickname: "Checking", Balance: 1250.50},
			{ID: "acc-2", Nickname: "Savings", Balance: 4000},
		})
	})

	accounts, err := c.Accounts(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Nickname != "Checking" {
		t.Fatalf("unexpected account: %+v", accounts[0])
	}
}

func TestBalance(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Account{ID: "acc-1", Balance: 321.75})
	})

	balance, err := c.Balance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 321.75 {
		t.Fatalf("expected 321.75, got %v", balance)
	}
}

func TestTransactionsCappedAt20(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		txns := make([]Transaction, 35)
		for i := range txns {
			txns[i] = Transaction{ID: fmt.Sprintf("txn-%d", i), Amount: float64(i)}
		}
		json.NewEncoder(w).Encode(txns)
	})

	txns, err := c.Transactions(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 20 {
		t.Fatalf("expected 20 transactions, got %d", len(txns))
	}
	if txns[0].ID != "txn-0" {
		t.Fatalf("cap should keep the head of the list, got %q", txns[0].ID)
	}
}

func TestCreateTransfer(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["medium"] != "balance" {
			t.Errorf("expected balance medium, got %v", payload["medium"])
		}
		if payload["payee_id"] != "acc-2" {
			t.Errorf("unexpected payee: %v", payload["payee_id"])
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"code":    201,
			"message": "Created transfer",
			"objectCreated": Transfer{
				ID: "tr-1", Medium: "balance", PayeeID: "acc-2", Amount: 20,
			},
		})
	})

	tr, err := c.CreateTransfer(context.Background(), TransferRequest{
		SourceAccountID: "acc-1",
		PayeeID:         "acc-2",
		Amount:          20,
		Description:     "payment",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.ID != "tr-1" || tr.Amount != 20 {
		t.Fatalf("unexpected transfer: %+v", tr)
	}
}

func TestNonSuccessStatusIsRemoteError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"account not found"}`, http.StatusNotFound)
	})

	_, err := c.Account(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error")
	}
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RemoteError, got %T", err)
	}
	if re.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", re.Status)
	}
}

func TestUnreachableHostIsRemoteError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "k", time.Second)
	_, err := c.Balance(context.Background(), "acc-1")
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RemoteError, got %T (%v)", err, err)
	}
	if re.Status != 0 {
		t.Fatalf("transport failure should have no status, got %d", re.Status)
	}
}
