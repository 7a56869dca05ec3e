package ledger

// Account is a Nessie sandbox bank account.
type Account struct {
	ID         string  `json:"_id"`
	Type       string  `json:"type"`
	Nickname   string  `json:"nickname"`
	Rewards    int     `json:"rewards"`
	Balance    float64 `json:"balance"`
	CustomerID string  `json:"customer_id"`
}

// Transaction is a purchase record on an account.
type Transaction struct {
	ID           string  `json:"_id"`
	MerchantID   string  `json:"merchant_id"`
	PayerID      string  `json:"payer_id"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	PurchaseDate string  `json:"purchase_date"`
	Status       string  `json:"status"`
}

// TransferRequest describes a balance transfer between two accounts.
type TransferRequest struct {
	SourceAccountID string
	PayeeID         string
	Amount          float64
	Description     string
	Date            string // YYYY-MM-DD; defaults to today when empty
}

// Transfer is the sandbox's confirmation record for a created transfer.
type Transfer struct {
	ID              string  `json:"_id"`
	Medium          string  `json:"medium"`
	PayerID         string  `json:"payer_id"`
	PayeeID         string  `json:"payee_id"`
	Amount          float64 `json:"amount"`
	TransactionDate string  `json:"transaction_date"`
	Status          string  `json:"status"`
	Description     string  `json:"description"`
}
