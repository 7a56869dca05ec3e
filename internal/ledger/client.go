// Package ledger talks to the Nessie sandbox banking API
// (http://api.nessieisreal.com). All requests carry the API key as a query
// parameter; failures surface as *RemoteError, never as silent defaults.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the public Nessie sandbox endpoint.
	DefaultBaseURL = "http://api.nessieisreal.com"

	// maxTransactions caps how much history a single fetch returns.
	maxTransactions = 20
)

// RemoteError reports a failed ledger call: either the API was unreachable
// or it answered with a non-2xx status.
type RemoteError struct {
	Op     string
	Status int    // 0 when the request never completed
	Body   string // response body for status errors, truncated
	Err    error  // transport error, if any
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ledger %s: status %d: %s", e.Op, e.Status, e.Body)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Client issues requests against the sandbox banking API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a ledger client. baseURL falls back to the public
// sandbox when empty.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Accounts fetches all accounts belonging to a customer.
func (c *Client) Accounts(ctx context.Context, customerID string) ([]Account, error) {
	var accounts []Account
	path := fmt.Sprintf("/customers/%s/accounts", url.PathEscape(customerID))
	if err := c.do(ctx, "accounts", http.MethodGet, path, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Account fetches a single account by ID.
func (c *Client) Account(ctx context.Context, accountID string) (*Account, error) {
	var account Account
	path := fmt.Sprintf("/accounts/%s", url.PathEscape(accountID))
	if err := c.do(ctx, "account", http.MethodGet, path, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Balance fetches the current balance for an account.
func (c *Client) Balance(ctx context.Context, accountID string) (float64, error) {
	account, err := c.Account(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// Transactions fetches recent purchases for an account, newest first as the
// sandbox returns them, capped at the 20 most recent.
func (c *Client) Transactions(ctx context.Context, accountID string) ([]Transaction, error) {
	var txns []Transaction
	path := fmt.Sprintf("/accounts/%s/purchases", url.PathEscape(accountID))
	if err := c.do(ctx, "transactions", http.MethodGet, path, nil, &txns); err != nil {
		return nil, err
	}
	if len(txns) > maxTransactions {
		txns = txns[:maxTransactions]
	}
	return txns, nil
}

// CreateTransfer moves balance from the source account to the payee.
func (c *Client) CreateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	payload := map[string]any{
		"medium":           "balance",
		"payee_id":         req.PayeeID,
		"amount":           req.Amount,
		"transaction_date": date,
		"description":      req.Description,
	}

	// The sandbox wraps the created record in an envelope.
	var envelope struct {
		Code           int      `json:"code"`
		Message        string   `json:"message"`
		ObjectCreated  Transfer `json:"objectCreated"`
	}
	path := fmt.Sprintf("/accounts/%s/transfers", url.PathEscape(req.SourceAccountID))
	if err := c.do(ctx, "create_transfer", http.MethodPost, path, payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope.ObjectCreated, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	u := fmt.Sprintf("%s%s?key=%s", c.baseURL, path, url.QueryEscape(c.apiKey))

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &RemoteError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(respBody)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return &RemoteError{Op: op, Status: resp.StatusCode, Body: snippet}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &RemoteError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}
