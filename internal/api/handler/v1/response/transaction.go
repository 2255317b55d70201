package response

import (
	"github.com/shopspring/decimal"

	"github.com/assohub/assohub-api/internal/domain"
)

// TransactionListResponse carries the ledger together with its running
// totals, the way the bookkeeping page presents them.
type TransactionListResponse struct {
	Transactions []domain.FinancialTransaction `json:"transactions"`
	IncomeTotal  decimal.Decimal               `json:"income_total"`
	ExpenseTotal decimal.Decimal               `json:"expense_total"`
	Balance      decimal.Decimal               `json:"balance"`
}
