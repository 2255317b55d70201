package domain

import "github.com/shopspring/decimal"

// DashboardSummary is the administrator landing view, composed from the
// roster, event and ledger modules.
type DashboardSummary struct {
	ActiveMemberCount int64            `json:"active_member_count"`
	EventCount        int64            `json:"event_count"`
	IncomeTotal       decimal.Decimal  `json:"income_total"`
	ExpenseTotal      decimal.Decimal  `json:"expense_total"`
	Balance           decimal.Decimal  `json:"balance"`
	RecentEvents      []Event          `json:"recent_events"`
	FeesByStatus      map[string]int64 `json:"fees_by_status"`
}
