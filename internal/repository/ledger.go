package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository/dao"
)

type TransactionDAO interface {
	Insert(ctx context.Context, transaction dao.FinancialTransaction) (dao.FinancialTransaction, error)
	FindAllWithEvents(ctx context.Context) ([]dao.FinancialTransaction, error)
	AmountsByType(ctx context.Context, transactionType string) ([]decimal.Decimal, error)
}

type LedgerRepository struct {
	dao TransactionDAO
}

func NewLedgerRepository(dao TransactionDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func (r *LedgerRepository) Create(ctx context.Context, transaction domain.FinancialTransaction) (domain.FinancialTransaction, error) {
	created, err := r.dao.Insert(ctx, dao.FinancialTransaction{
		TransactionType: transaction.TransactionType,
		Amount:          transaction.Amount,
		Date:            transaction.Date,
		Description:     transaction.Description,
		EventID:         transaction.EventID,
	})
	if err != nil {
		return domain.FinancialTransaction{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return transactionDAOToDomain(created), nil
}

func (r *LedgerRepository) FindAll(ctx context.Context) ([]domain.FinancialTransaction, error) {
	found, err := r.dao.FindAllWithEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllWithEvents -> %w", err)
	}

	transactions := make([]domain.FinancialTransaction, 0, len(found))
	for _, t := range found {
		transactions = append(transactions, transactionDAOToDomain(t))
	}

	return transactions, nil
}

// SumByType folds the stored amounts with decimal arithmetic so totals never
// pick up float drift.
func (r *LedgerRepository) SumByType(ctx context.Context, transactionType string) (decimal.Decimal, error) {
	amounts, err := r.dao.AmountsByType(ctx, transactionType)
	if err != nil {
		return decimal.Zero, fmt.Errorf("r.dao.AmountsByType -> %w", err)
	}

	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}

	return total, nil
}

func transactionDAOToDomain(t dao.FinancialTransaction) domain.FinancialTransaction {
	transaction := domain.FinancialTransaction{
		ID:              t.ID,
		TransactionType: t.TransactionType,
		Amount:          t.Amount,
		Date:            t.Date,
		Description:     t.Description,
		EventID:         t.EventID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if t.Event != nil {
		event := eventDAOToDomain(*t.Event)
		transaction.Event = &event
	}

	return transaction
}
