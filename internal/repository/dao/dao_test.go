package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/assohub/assohub-api/internal/domain"
)

// openTestDB opens an in-memory SQLite database named after the test, so
// tests never share state. Foreign keys are enabled for the cascade rules.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%v?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, InitTables(db))

	return db
}

func seedMember(t *testing.T, db *gorm.DB, email string) Member {
	t.Helper()

	member := Member{
		FirstName: "Mario",
		LastName:  "Rossi",
		Email:     email,
		Role:      domain.RoleAssociate,
		Active:    true,
	}
	require.NoError(t, db.Create(&member).Error)

	return member
}

func seedAccount(t *testing.T, db *gorm.DB, username string, memberID *uint) Account {
	t.Helper()

	account := Account{
		Username: username,
		Password: "hash",
		Email:    username + "@example.com",
		Role:     domain.RoleAssociate,
		MemberID: memberID,
	}
	require.NoError(t, db.Create(&account).Error)

	return account
}

func seedEvent(t *testing.T, db *gorm.DB, title string, date time.Time) Event {
	t.Helper()

	event := Event{
		Title:    title,
		Date:     date,
		Location: "Sede sociale",
	}
	require.NoError(t, db.Create(&event).Error)

	return event
}

func TestMemberDAO_Insert_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	d := NewMemberDAO(db)
	ctx := context.Background()

	_, err := d.Insert(ctx, Member{
		FirstName: "Mario", LastName: "Rossi",
		Email: "mario@example.com", Role: domain.RoleAssociate, Active: true,
	})
	require.NoError(t, err)

	_, err = d.Insert(ctx, Member{
		FirstName: "Maria", LastName: "Bianchi",
		Email: "mario@example.com", Role: domain.RoleAssociate, Active: true,
	})
	assert.ErrorIs(t, err, ErrMemberEmailExists)
}

func TestMemberDAO_InsertWithAccount_BootstrapsFirstAdministrator(t *testing.T) {
	db := openTestDB(t)
	d := NewMemberDAO(db)
	ctx := context.Background()

	member, account, err := d.InsertWithAccount(ctx,
		Member{
			FirstName: "Mario", LastName: "Rossi",
			Email: "mario@example.com", Role: domain.RoleAssociate, Active: true,
		},
		Account{Username: "mrossi", Password: "hash", Email: "mario@example.com"},
	)
	require.NoError(t, err)

	// No account existed, so the first one is elevated and the member
	// follows it.
	assert.Equal(t, domain.RoleAdministrator, account.Role)
	assert.Equal(t, domain.RoleAdministrator, member.Role)
	require.NotNil(t, account.MemberID)
	assert.Equal(t, member.ID, *account.MemberID)

	stored, err := d.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdministrator, stored.Role)
}

func TestMemberDAO_InsertWithAccount_DuplicateUsernameRollsBack(t *testing.T) {
	db := openTestDB(t)
	d := NewMemberDAO(db)
	ctx := context.Background()

	seedAccount(t, db, "mrossi", nil)

	_, _, err := d.InsertWithAccount(ctx,
		Member{
			FirstName: "Mario", LastName: "Rossi",
			Email: "mario@example.com", Role: domain.RoleAssociate, Active: true,
		},
		Account{Username: "mrossi", Password: "hash", Email: "mario@example.com"},
	)
	assert.ErrorIs(t, err, ErrAccountUsernameExists)

	// The member insert must have been rolled back with the account.
	var count int64
	require.NoError(t, db.Model(&Member{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMemberDAO_Update_SyncsLinkedAccountRole(t *testing.T) {
	db := openTestDB(t)
	d := NewMemberDAO(db)
	ctx := context.Background()

	member := seedMember(t, db, "mario@example.com")
	account := seedAccount(t, db, "mrossi", &member.ID)

	member.Role = domain.RoleAdministrator
	updated, err := d.Update(ctx, member)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdministrator, updated.Role)

	var stored Account
	require.NoError(t, db.First(&stored, account.ID).Error)
	assert.Equal(t, domain.RoleAdministrator, stored.Role)
}

func TestMemberDAO_Update_NotFound(t *testing.T) {
	db := openTestDB(t)
	d := NewMemberDAO(db)

	_, err := d.Update(context.Background(), Member{
		ID:        999,
		FirstName: "Mario", LastName: "Rossi",
		Email: "mario@example.com", Role: domain.RoleAssociate,
	})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestMemberDAO_Delete_CascadesFeesParticipationsAndAccount(t *testing.T) {
	db := openTestDB(t)
	d := NewMemberDAO(db)
	ctx := context.Background()

	member := seedMember(t, db, "mario@example.com")
	account := seedAccount(t, db, "mrossi", &member.ID)
	event := seedEvent(t, db, "Assemblea", time.Now().Add(24*time.Hour))

	require.NoError(t, db.Create(&MembershipFee{
		MemberID: member.ID, Year: 2026,
		Amount: decimal.RequireFromString("25.00"), Status: domain.FeeStatusPending,
	}).Error)
	require.NoError(t, db.Create(&Participation{
		MemberID: member.ID, EventID: event.ID, RegisteredAt: time.Now(),
	}).Error)

	require.NoError(t, d.Delete(ctx, member.ID))

	var fees, participations, accounts int64
	require.NoError(t, db.Model(&MembershipFee{}).Count(&fees).Error)
	require.NoError(t, db.Model(&Participation{}).Count(&participations).Error)
	require.NoError(t, db.Model(&Account{}).Where("id = ?", account.ID).Count(&accounts).Error)
	assert.Zero(t, fees)
	assert.Zero(t, participations)
	assert.Zero(t, accounts)
}

func TestMemberDAO_CountActive(t *testing.T) {
	db := openTestDB(t)
	d := NewMemberDAO(db)

	seedMember(t, db, "mario@example.com")
	inactive := Member{
		FirstName: "Maria", LastName: "Bianchi",
		Email: "maria@example.com", Role: domain.RoleAssociate, Active: false,
	}
	require.NoError(t, db.Create(&inactive).Error)

	count, err := d.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAccountDAO_Insert_BootstrapsOnlyFirstAccount(t *testing.T) {
	db := openTestDB(t)
	d := NewAccountDAO(db)
	ctx := context.Background()

	first, err := d.Insert(ctx, Account{
		Username: "first", Password: "hash", Email: "first@example.com",
		Role: domain.RoleAssociate,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdministrator, first.Role)

	second, err := d.Insert(ctx, Account{
		Username: "second", Password: "hash", Email: "second@example.com",
		Role: domain.RoleAssociate,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssociate, second.Role)
}

func TestAccountDAO_Insert_DuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	d := NewAccountDAO(db)
	ctx := context.Background()

	seedAccount(t, db, "mrossi", nil)

	_, err := d.Insert(ctx, Account{
		Username: "mrossi", Password: "hash", Email: "other@example.com",
		Role: domain.RoleAssociate,
	})
	assert.ErrorIs(t, err, ErrAccountUsernameExists)
}

func TestAccountDAO_Update_SyncsLinkedMemberRole(t *testing.T) {
	db := openTestDB(t)
	d := NewAccountDAO(db)
	ctx := context.Background()

	member := seedMember(t, db, "mario@example.com")
	account := seedAccount(t, db, "mrossi", &member.ID)

	account.Role = domain.RoleAdministrator
	updated, err := d.Update(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdministrator, updated.Role)

	var stored Member
	require.NoError(t, db.First(&stored, member.ID).Error)
	assert.Equal(t, domain.RoleAdministrator, stored.Role)
}

func TestAccountDAO_UpdateProfile_MirrorsOntoLinkedMember(t *testing.T) {
	db := openTestDB(t)
	d := NewAccountDAO(db)
	ctx := context.Background()

	member := seedMember(t, db, "mario@example.com")
	account := seedAccount(t, db, "mrossi", &member.ID)

	account.LastName = "Rossi-Verdi"
	account.Email = "mario.verdi@example.com"
	updated, err := d.UpdateProfile(ctx, account, &Member{
		ID:        member.ID,
		FirstName: "Mario",
		LastName:  "Rossi-Verdi",
		Email:     "mario.verdi@example.com",
		Phone:     "3331234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "mario.verdi@example.com", updated.Email)

	var stored Member
	require.NoError(t, db.First(&stored, member.ID).Error)
	assert.Equal(t, "Rossi-Verdi", stored.LastName)
	assert.Equal(t, "mario.verdi@example.com", stored.Email)
	assert.Equal(t, "3331234567", stored.Phone)
}

func TestAccountDAO_UpdateProfile_MemberEmailCollisionRollsBack(t *testing.T) {
	db := openTestDB(t)
	d := NewAccountDAO(db)
	ctx := context.Background()

	member := seedMember(t, db, "mario@example.com")
	other := Member{
		FirstName: "Maria", LastName: "Bianchi",
		Email: "maria@example.com", Role: domain.RoleAssociate, Active: true,
	}
	require.NoError(t, db.Create(&other).Error)
	account := seedAccount(t, db, "mrossi", &member.ID)

	account.Email = "maria@example.com"
	_, err := d.UpdateProfile(ctx, account, &Member{
		ID:        member.ID,
		FirstName: "Mario",
		LastName:  "Rossi",
		Email:     "maria@example.com",
	})
	assert.ErrorIs(t, err, ErrMemberEmailExists)

	// The account write rolled back with the failed mirror.
	var storedAccount Account
	require.NoError(t, db.First(&storedAccount, account.ID).Error)
	assert.Equal(t, "mrossi@example.com", storedAccount.Email)

	var storedMember Member
	require.NoError(t, db.First(&storedMember, member.ID).Error)
	assert.Equal(t, "mario@example.com", storedMember.Email)
}

func TestAccountDAO_FindByUsername_PreloadsMember(t *testing.T) {
	db := openTestDB(t)
	d := NewAccountDAO(db)

	member := seedMember(t, db, "mario@example.com")
	seedAccount(t, db, "mrossi", &member.ID)

	account, err := d.FindByUsername(context.Background(), "mrossi")
	require.NoError(t, err)
	require.NotNil(t, account.Member)
	assert.Equal(t, "Rossi", account.Member.LastName)
}

func TestFeeDAO_Insert_DuplicateYear(t *testing.T) {
	db := openTestDB(t)
	d := NewFeeDAO(db)
	ctx := context.Background()

	member := seedMember(t, db, "mario@example.com")

	_, err := d.Insert(ctx, MembershipFee{
		MemberID: member.ID, Year: 2026,
		Amount: decimal.RequireFromString("25.00"), Status: domain.FeeStatusPaid,
	})
	require.NoError(t, err)

	_, err = d.Insert(ctx, MembershipFee{
		MemberID: member.ID, Year: 2026,
		Amount: decimal.RequireFromString("30.00"), Status: domain.FeeStatusPending,
	})
	assert.ErrorIs(t, err, ErrFeeYearExists)

	// A different year for the same member is fine.
	_, err = d.Insert(ctx, MembershipFee{
		MemberID: member.ID, Year: 2027,
		Amount: decimal.RequireFromString("25.00"), Status: domain.FeeStatusPending,
	})
	assert.NoError(t, err)
}

func TestFeeDAO_FindByMemberID_NewestYearFirst(t *testing.T) {
	db := openTestDB(t)
	d := NewFeeDAO(db)
	ctx := context.Background()

	member := seedMember(t, db, "mario@example.com")
	for _, year := range []int{2024, 2026, 2025} {
		_, err := d.Insert(ctx, MembershipFee{
			MemberID: member.ID, Year: year,
			Amount: decimal.RequireFromString("25.00"), Status: domain.FeeStatusPaid,
		})
		require.NoError(t, err)
	}

	fees, err := d.FindByMemberID(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, fees, 3)
	assert.Equal(t, 2026, fees[0].Year)
	assert.Equal(t, 2025, fees[1].Year)
	assert.Equal(t, 2024, fees[2].Year)
}

func TestFeeDAO_CountByStatus(t *testing.T) {
	db := openTestDB(t)
	d := NewFeeDAO(db)
	ctx := context.Background()

	mario := seedMember(t, db, "mario@example.com")
	maria := seedMember(t, db, "maria@example.com")

	_, err := d.Insert(ctx, MembershipFee{
		MemberID: mario.ID, Year: 2026,
		Amount: decimal.RequireFromString("25.00"), Status: domain.FeeStatusPaid,
	})
	require.NoError(t, err)
	_, err = d.Insert(ctx, MembershipFee{
		MemberID: maria.ID, Year: 2026,
		Amount: decimal.RequireFromString("25.00"), Status: domain.FeeStatusPending,
	})
	require.NoError(t, err)
	_, err = d.Insert(ctx, MembershipFee{
		MemberID: maria.ID, Year: 2025,
		Amount: decimal.RequireFromString("25.00"), Status: domain.FeeStatusPaid,
	})
	require.NoError(t, err)

	counts, err := d.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.FeeStatusPaid])
	assert.Equal(t, int64(1), counts[domain.FeeStatusPending])
}

func TestEventDAO_FindFutureAndPast(t *testing.T) {
	db := openTestDB(t)
	d := NewEventDAO(db)
	ctx := context.Background()
	now := time.Now()

	seedEvent(t, db, "Gita", now.Add(48*time.Hour))
	seedEvent(t, db, "Assemblea", now.Add(24*time.Hour))
	for i := 1; i <= 7; i++ {
		seedEvent(t, db, fmt.Sprintf("Passata %v", i), now.Add(-time.Duration(i)*24*time.Hour))
	}

	future, err := d.FindFuture(ctx, now)
	require.NoError(t, err)
	require.Len(t, future, 2)
	// Ascending, soonest first.
	assert.Equal(t, "Assemblea", future[0].Title)
	assert.Equal(t, "Gita", future[1].Title)

	past, err := d.FindPast(ctx, now, 5)
	require.NoError(t, err)
	require.Len(t, past, 5)
	// Descending, most recent first.
	assert.Equal(t, "Passata 1", past[0].Title)
	assert.Equal(t, "Passata 5", past[4].Title)
}

func TestEventDAO_GetOrCreateParticipation_Idempotent(t *testing.T) {
	db := openTestDB(t)
	d := NewEventDAO(db)
	ctx := context.Background()

	member := seedMember(t, db, "mario@example.com")
	event := seedEvent(t, db, "Assemblea", time.Now().Add(24*time.Hour))

	first, created, err := d.GetOrCreateParticipation(ctx, member.ID, event.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, first.Presence)
	assert.False(t, first.RegisteredAt.IsZero())

	second, created, err := d.GetOrCreateParticipation(ctx, member.ID, event.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&Participation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEventDAO_UpdateParticipationPresence_KeepsRegisteredAt(t *testing.T) {
	db := openTestDB(t)
	d := NewEventDAO(db)
	ctx := context.Background()

	member := seedMember(t, db, "mario@example.com")
	event := seedEvent(t, db, "Assemblea", time.Now().Add(24*time.Hour))

	participation, _, err := d.GetOrCreateParticipation(ctx, member.ID, event.ID)
	require.NoError(t, err)

	updated, err := d.UpdateParticipationPresence(ctx, participation.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Presence)
	assert.WithinDuration(t, participation.RegisteredAt, updated.RegisteredAt, time.Second)

	_, err = d.UpdateParticipationPresence(ctx, 999, true)
	assert.ErrorIs(t, err, ErrParticipationNotFound)
}

func TestEventDAO_Delete_CascadesParticipationsAndClearsTransactions(t *testing.T) {
	db := openTestDB(t)
	d := NewEventDAO(db)
	ctx := context.Background()

	member := seedMember(t, db, "mario@example.com")
	event := seedEvent(t, db, "Assemblea", time.Now().Add(24*time.Hour))

	_, _, err := d.GetOrCreateParticipation(ctx, member.ID, event.ID)
	require.NoError(t, err)

	transaction := FinancialTransaction{
		TransactionType: domain.TransactionIncome,
		Amount:          decimal.RequireFromString("10.10"),
		Date:            time.Now(),
		Description:     "Quota buffet",
		EventID:         &event.ID,
	}
	require.NoError(t, db.Create(&transaction).Error)

	require.NoError(t, d.Delete(ctx, event.ID))

	var participations int64
	require.NoError(t, db.Model(&Participation{}).Count(&participations).Error)
	assert.Zero(t, participations)

	var stored FinancialTransaction
	require.NoError(t, db.First(&stored, transaction.ID).Error)
	assert.Nil(t, stored.EventID)
}

func TestTransactionDAO_AmountsByType(t *testing.T) {
	db := openTestDB(t)
	d := NewTransactionDAO(db)
	ctx := context.Background()

	for _, amount := range []string{"10.10", "10.10", "10.10"} {
		_, err := d.Insert(ctx, FinancialTransaction{
			TransactionType: domain.TransactionIncome,
			Amount:          decimal.RequireFromString(amount),
			Date:            time.Now(),
			Description:     "Quota",
		})
		require.NoError(t, err)
	}
	_, err := d.Insert(ctx, FinancialTransaction{
		TransactionType: domain.TransactionExpense,
		Amount:          decimal.RequireFromString("5.05"),
		Date:            time.Now(),
		Description:     "Cancelleria",
	})
	require.NoError(t, err)

	incomes, err := d.AmountsByType(ctx, domain.TransactionIncome)
	require.NoError(t, err)
	require.Len(t, incomes, 3)

	total := decimal.Zero
	for _, amount := range incomes {
		total = total.Add(amount)
	}
	assert.True(t, total.Equal(decimal.RequireFromString("30.30")), "got %v", total)

	expenses, err := d.AmountsByType(ctx, domain.TransactionExpense)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].Equal(decimal.RequireFromString("5.05")))
}
