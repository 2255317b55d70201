package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountDisplayName(t *testing.T) {
	t.Run("prefers the linked member's name", func(t *testing.T) {
		account := Account{
			Username:  "mrossi",
			FirstName: "M.",
			LastName:  "R.",
			Member:    &Member{FirstName: "Mario", LastName: "Rossi"},
		}
		assert.Equal(t, "Mario Rossi", account.DisplayName())
	})

	t.Run("falls back to the account's own name", func(t *testing.T) {
		account := Account{Username: "mrossi", FirstName: "Mario", LastName: "Rossi"}
		assert.Equal(t, "Mario Rossi", account.DisplayName())
	})

	t.Run("falls back to the username", func(t *testing.T) {
		account := Account{Username: "mrossi"}
		assert.Equal(t, "mrossi", account.DisplayName())
	})
}

func TestAccountRoleHelpers(t *testing.T) {
	admin := Account{Role: RoleAdministrator}
	assert.True(t, admin.IsAdministrator())
	assert.False(t, admin.IsAssociate())

	memberID := uint(7)
	associate := Account{Role: RoleAssociate, MemberID: &memberID}
	assert.True(t, associate.IsAssociate())
	assert.True(t, associate.HasMember())
	assert.False(t, Account{}.HasMember())
}

func TestMemberFullName(t *testing.T) {
	assert.Equal(t, "Mario Rossi", Member{FirstName: "Mario", LastName: "Rossi"}.FullName())
	assert.Equal(t, "Rossi", Member{LastName: "Rossi"}.FullName())
	assert.Equal(t, "", Member{}.FullName())
}

func TestEventIsFuture(t *testing.T) {
	now := time.Now()

	assert.True(t, Event{Date: now.Add(time.Hour)}.IsFuture(now))
	// An event starting exactly now still counts as upcoming.
	assert.True(t, Event{Date: now}.IsFuture(now))
	assert.False(t, Event{Date: now.Add(-time.Hour)}.IsFuture(now))
}

func TestFinancialTransactionSignedAmount(t *testing.T) {
	amount := decimal.RequireFromString("10.10")

	income := FinancialTransaction{TransactionType: TransactionIncome, Amount: amount}
	assert.True(t, income.SignedAmount().Equal(amount))

	expense := FinancialTransaction{TransactionType: TransactionExpense, Amount: amount}
	assert.True(t, expense.SignedAmount().Equal(amount.Neg()))
}
