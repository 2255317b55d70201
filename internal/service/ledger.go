package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/assohub/assohub-api/internal/domain"
)

var (
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInvalidTransactionType = errors.New("transaction type must be income or expense")
)

type LedgerRepository interface {
	Create(ctx context.Context, transaction domain.FinancialTransaction) (domain.FinancialTransaction, error)
	FindAll(ctx context.Context) ([]domain.FinancialTransaction, error)
	SumByType(ctx context.Context, transactionType string) (decimal.Decimal, error)
}

type LedgerEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type LedgerService struct {
	repo   LedgerRepository
	events LedgerEventRepository
}

func NewLedgerService(repo LedgerRepository, events LedgerEventRepository) *LedgerService {
	return &LedgerService{
		repo:   repo,
		events: events,
	}
}

// ListTransactions returns the full ledger, newest first (date, then id).
func (s *LedgerService) ListTransactions(ctx context.Context) ([]domain.FinancialTransaction, error) {
	transactions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return transactions, nil
}

// Totals folds the ledger with decimal arithmetic. The invariant is exact:
// balance equals income minus expense to the cent.
func (s *LedgerService) Totals(ctx context.Context) (domain.LedgerTotals, error) {
	income, err := s.repo.SumByType(ctx, domain.TransactionIncome)
	if err != nil {
		return domain.LedgerTotals{}, fmt.Errorf("s.repo.SumByType -> %w", err)
	}

	expense, err := s.repo.SumByType(ctx, domain.TransactionExpense)
	if err != nil {
		return domain.LedgerTotals{}, fmt.Errorf("s.repo.SumByType -> %w", err)
	}

	return domain.LedgerTotals{
		IncomeTotal:  income,
		ExpenseTotal: expense,
		Balance:      income.Sub(expense),
	}, nil
}

// CreateTransaction records an income or expense. Amounts are stored
// positive; a referenced event must exist.
func (s *LedgerService) CreateTransaction(ctx context.Context, transaction domain.FinancialTransaction) (domain.FinancialTransaction, error) {
	if transaction.TransactionType != domain.TransactionIncome &&
		transaction.TransactionType != domain.TransactionExpense {
		return domain.FinancialTransaction{}, ErrInvalidTransactionType
	}
	if !transaction.Amount.IsPositive() {
		return domain.FinancialTransaction{}, ErrInvalidAmount
	}
	if transaction.Date.IsZero() {
		transaction.Date = time.Now().UTC()
	}

	if transaction.EventID != nil {
		if _, err := s.events.FindByID(ctx, *transaction.EventID); err != nil {
			return domain.FinancialTransaction{}, fmt.Errorf("s.events.FindByID -> %w", err)
		}
	}

	created, err := s.repo.Create(ctx, transaction)
	if err != nil {
		return domain.FinancialTransaction{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}
