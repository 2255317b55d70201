package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/assohub/assohub-api/internal/domain"
)

var errAmountNotPositive = errors.New("amount must be greater than zero")

type CreateTransactionRequest struct {
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Date            *time.Time      `json:"date"`
	Description     string          `json:"description"`
	EventID         *uint           `json:"event_id"`
}

func (req *CreateTransactionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TransactionType, validation.Required,
			validation.In(domain.TransactionIncome, domain.TransactionExpense)),
		validation.Field(&req.Amount, validation.By(requirePositiveAmount)),
		validation.Field(&req.Description, validation.Required, validation.Length(1, 255)),
	)
}
