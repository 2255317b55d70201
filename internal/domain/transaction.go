package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// FinancialTransaction is a single ledger entry. Amount is always stored
// positive; the sign comes from the type.
type FinancialTransaction struct {
	ID              uint            `json:"id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	Description     string          `json:"description"`
	EventID         *uint           `json:"event_id,omitempty"`
	Event           *Event          `json:"event,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (t FinancialTransaction) SignedAmount() decimal.Decimal {
	if t.TransactionType == TransactionExpense {
		return t.Amount.Neg()
	}

	return t.Amount
}

type LedgerTotals struct {
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	Balance      decimal.Decimal `json:"balance"`
}
