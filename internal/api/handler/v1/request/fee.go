package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/assohub/assohub-api/internal/domain"
)

type CreateFeeRequest struct {
	MemberID    uint            `json:"member_id"`
	Year        int             `json:"year"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *time.Time      `json:"payment_date"`
	Status      string          `json:"status"`
}

func (req *CreateFeeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.MemberID, validation.Required),
		validation.Field(&req.Year, validation.Min(0)),
		validation.Field(&req.Amount, validation.By(requirePositiveAmount)),
		validation.Field(&req.Status, validation.In(domain.FeeStatusPending, domain.FeeStatusPaid)),
	)
}

func requirePositiveAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok || !amount.IsPositive() {
		return errAmountNotPositive
	}

	return nil
}
