package dao

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FinancialTransaction struct {
	ID uint `gorm:"primaryKey"`

	TransactionType string          `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Date            time.Time       `gorm:"not null"`
	Description     string          `gorm:"not null"`

	EventID *uint  `gorm:"index"`
	Event   *Event `gorm:"constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type TransactionDAO struct {
	db *gorm.DB
}

func NewTransactionDAO(db *gorm.DB) *TransactionDAO {
	return &TransactionDAO{
		db: db,
	}
}

func (d *TransactionDAO) Insert(ctx context.Context, transaction FinancialTransaction) (FinancialTransaction, error) {
	result := d.db.WithContext(ctx).Create(&transaction)
	if result.Error != nil {
		return FinancialTransaction{}, result.Error
	}

	return transaction, nil
}

func (d *TransactionDAO) FindAllWithEvents(ctx context.Context) ([]FinancialTransaction, error) {
	var transactions []FinancialTransaction

	result := d.db.WithContext(ctx).
		Preload("Event").
		Order("date DESC, id DESC").
		Find(&transactions)
	if result.Error != nil {
		return nil, result.Error
	}

	return transactions, nil
}

// AmountsByType returns the raw amounts of one transaction type. The caller
// folds them with decimal arithmetic; SQL SUM is not used because not every
// supported driver keeps the column exact.
func (d *TransactionDAO) AmountsByType(ctx context.Context, transactionType string) ([]decimal.Decimal, error) {
	var amounts []decimal.Decimal

	result := d.db.WithContext(ctx).
		Model(&FinancialTransaction{}).
		Where("transaction_type = ?", transactionType).
		Pluck("amount", &amounts)
	if result.Error != nil {
		return nil, result.Error
	}

	return amounts, nil
}
