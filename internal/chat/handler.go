// Package chat implements the rule-based payment assistant: keyword and
// regex matching over user text driving a tiny per-session state machine.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/exedev/fincoach/internal/ledger"
	"github.com/exedev/fincoach/internal/session"
)

// amountPattern extracts an integer dollar amount, optionally prefixed with
// a currency symbol ("20", "$20").
var amountPattern = regexp.MustCompile(`\$?(\d+)`)

var (
	greetingWords = []string{"hello", "hi", "hey"}
	paymentWords  = []string{"send", "pay", "transfer"}
)

// TransferAPI is the slice of the ledger client the handler needs.
type TransferAPI interface {
	CreateTransfer(ctx context.Context, req ledger.TransferRequest) (*ledger.Transfer, error)
}

// Handler answers user messages for the rule-based payment flow. Ledger
// failures are converted to user-facing text here; the session always stays
// usable.
type Handler struct {
	ledger          TransferAPI
	contacts        Directory
	sessions        *session.Store
	sourceAccountID string
	logger          *slog.Logger
}

// NewHandler creates a handler paying out of sourceAccountID.
func NewHandler(api TransferAPI, contacts Directory, sessions *session.Store, sourceAccountID string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		ledger:          api,
		contacts:        contacts,
		sessions:        sessions,
		sourceAccountID: sourceAccountID,
		logger:          logger,
	}
}

// Respond processes one user message for the given session and returns the
// assistant's reply. It never returns an error: failures become
// natural-language responses.
func (h *Handler) Respond(ctx context.Context, sessionID, message string) string {
	lower := strings.ToLower(message)
	var response string

	h.sessions.Do(sessionID, func(st *session.State) {
		response = h.respondLocked(ctx, st, message, lower)
	})
	return response
}

func (h *Handler) respondLocked(ctx context.Context, st *session.State, message, lower string) string {
	// Greetings and help are answered at any step and never mutate state.
	if containsAny(lower, greetingWords) {
		return "Hi! I'm your payment assistant. Try saying 'Send Mike 20 dollars'"
	}
	if strings.Contains(lower, "help") {
		return "Tell me who to pay and how much. Example: 'Send Sarah 15 dollars'"
	}

	if containsAny(lower, paymentWords) {
		return h.handlePaymentIntent(st, message, lower)
	}

	if st.Step == session.StepAwaitingConfirmation {
		switch {
		case strings.Contains(lower, "confirm"), strings.Contains(lower, "yes"):
			return h.handleConfirm(ctx, st)
		case strings.Contains(lower, "cancel"), strings.Contains(lower, "no"):
			*st = session.State{Step: session.StepIdle}
			return "Payment cancelled."
		}
		// Anything else falls through to the generic fallback; the pending
		// payment stays staged.
	}

	return "Try saying 'Send money to Mike' or ask for help."
}

func (h *Handler) handlePaymentIntent(st *session.State, message, lower string) string {
	amount := extractAmount(message)
	contact, found := h.contacts.Match(lower)

	if amount <= 0 || !found {
		return "Try saying 'Send Mike 20 dollars'"
	}

	st.Pending = &session.PendingPayment{
		Recipient:          contact.Name,
		RecipientAccountID: contact.AccountID,
		Amount:             amount,
		Description:        "payment",
	}
	st.Step = session.StepAwaitingConfirmation
	return fmt.Sprintf("Sending $%d to %s. Say confirm to complete.", amount, contact.Name)
}

// handleConfirm executes the staged transfer. On success the session resets
// to idle. On failure the pending payment is retained and the session stays
// in awaiting-confirmation so the user can retry with another "confirm" or
// back out with "cancel".
func (h *Handler) handleConfirm(ctx context.Context, st *session.State) string {
	payment := st.Pending
	if payment == nil {
		*st = session.State{Step: session.StepIdle}
		return "There's no payment waiting for confirmation."
	}

	_, err := h.ledger.CreateTransfer(ctx, ledger.TransferRequest{
		SourceAccountID: h.sourceAccountID,
		PayeeID:         payment.RecipientAccountID,
		Amount:          float64(payment.Amount),
		Description:     payment.Description,
	})
	if err != nil {
		h.logger.Warn("transfer failed", "recipient", payment.Recipient, "amount", payment.Amount, "error", err)
		return fmt.Sprintf("Payment to %s failed. Say confirm to retry or cancel to give up.", payment.Recipient)
	}

	response := fmt.Sprintf("Done! $%d sent to %s.", payment.Amount, payment.Recipient)
	*st = session.State{Step: session.StepIdle}
	return response
}

func extractAmount(message string) int {
	m := amountPattern.FindStringSubmatch(message)
	if m == nil {
		return 0
	}
	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return amount
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
