package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/assohub/assohub-api/internal/domain"
)

// recentEventsLimit caps the dashboard's recent-events panel.
const recentEventsLimit = 5

type DashboardMemberRepository interface {
	CountActive(ctx context.Context) (int64, error)
}

type DashboardEventRepository interface {
	Count(ctx context.Context) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Event, error)
}

type DashboardFeeRepository interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type DashboardLedgerRepository interface {
	SumByType(ctx context.Context, transactionType string) (decimal.Decimal, error)
}

// DashboardService composes read-only aggregates from the roster, event, fee
// and ledger modules for the administrator landing page.
type DashboardService struct {
	members DashboardMemberRepository
	events  DashboardEventRepository
	fees    DashboardFeeRepository
	ledger  DashboardLedgerRepository
}

func NewDashboardService(
	members DashboardMemberRepository,
	events DashboardEventRepository,
	fees DashboardFeeRepository,
	ledger DashboardLedgerRepository,
) *DashboardService {
	return &DashboardService{
		members: members,
		events:  events,
		fees:    fees,
		ledger:  ledger,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	activeMembers, err := s.members.CountActive(ctx)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("s.members.CountActive -> %w", err)
	}

	eventCount, err := s.events.Count(ctx)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("s.events.Count -> %w", err)
	}

	recentEvents, err := s.events.FindRecent(ctx, recentEventsLimit)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("s.events.FindRecent -> %w", err)
	}

	income, err := s.ledger.SumByType(ctx, domain.TransactionIncome)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("s.ledger.SumByType -> %w", err)
	}

	expense, err := s.ledger.SumByType(ctx, domain.TransactionExpense)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("s.ledger.SumByType -> %w", err)
	}

	feesByStatus, err := s.fees.CountByStatus(ctx)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("s.fees.CountByStatus -> %w", err)
	}

	return domain.DashboardSummary{
		ActiveMemberCount: activeMembers,
		EventCount:        eventCount,
		IncomeTotal:       income,
		ExpenseTotal:      expense,
		Balance:           income.Sub(expense),
		RecentEvents:      recentEvents,
		FeesByStatus:      feesByStatus,
	}, nil
}
