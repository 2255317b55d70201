package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FeeStatusPending = "pending"
	FeeStatusPaid    = "paid"
)

// MembershipFee is the annual due of a member. At most one fee exists per
// (member, year) pair.
type MembershipFee struct {
	ID          uint            `json:"id"`
	MemberID    uint            `json:"member_id"`
	Member      *Member         `json:"member,omitempty"`
	Year        int             `json:"year"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
