package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountResponse cuenta en respuestas.
type AccountResponse struct {
	ID          string          `json:"id"`
	PartnerID   string          `json:"partner_id"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AppendPostingRequest body para POST /api/accounts/:id/postings (ajuste manual).
type AppendPostingRequest struct {
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Date           *time.Time      `json:"date,omitempty"`
}

// PostingResponse asiento en respuestas.
type PostingResponse struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	Sequence       int64           `json:"sequence"`
	Type           string          `json:"type"`
	Date           time.Time       `json:"date"`
	CounterpartyID string          `json:"counterparty_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Reference      string          `json:"reference,omitempty"`
}

// PostingResultResponse asiento agregado y saldo resultante.
type PostingResultResponse struct {
	Posting PostingResponse `json:"posting"`
	Balance decimal.Decimal `json:"balance"`
}

// PostingListResponse asientos de una cuenta.
type PostingListResponse struct {
	AccountID string            `json:"account_id"`
	Balance   decimal.Decimal   `json:"balance"`
	Postings  []PostingResponse `json:"postings"`
}

// BalanceCheckResponse comparación saldo cacheado vs derivado.
type BalanceCheckResponse struct {
	AccountID  string          `json:"account_id"`
	Cached     decimal.Decimal `json:"cached_balance"`
	Derived    decimal.Decimal `json:"derived_balance"`
	Consistent bool            `json:"consistent"`
	Postings   int             `json:"postings"`
}
