package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrAccountUsernameExists = errors.New("this username is already in use")
	ErrAccountNotFound       = errors.New("account not found")
)

type Account struct {
	ID uint `gorm:"primaryKey"`

	Username  string `gorm:"unique;not null"`
	Password  string `gorm:"not null"`
	Email     string `gorm:"not null"`
	FirstName string
	LastName  string
	Role      string `gorm:"not null"`

	MemberID *uint   `gorm:"index"`
	Member   *Member `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type AccountDAO struct {
	db *gorm.DB
}

func NewAccountDAO(db *gorm.DB) *AccountDAO {
	return &AccountDAO{
		db: db,
	}
}

func (d *AccountDAO) Insert(ctx context.Context, account Account) (Account, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyBootstrapRole(tx, &account); err != nil {
			return err
		}

		if err := tx.Create(&account).Error; err != nil {
			if isUniqueViolation(err, "uni_accounts_username") {
				return ErrAccountUsernameExists
			}

			return err
		}

		if account.MemberID != nil {
			return syncLinkedRoles(tx, *account.MemberID, account.Role)
		}

		return nil
	})
	if err != nil {
		return Account{}, err
	}

	return account, nil
}

func (d *AccountDAO) FindByID(ctx context.Context, id uint) (Account, error) {
	var account Account

	result := d.db.WithContext(ctx).Preload("Member").First(&account, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Account{}, ErrAccountNotFound
		}

		return Account{}, result.Error
	}

	return account, nil
}

func (d *AccountDAO) FindByUsername(ctx context.Context, username string) (Account, error) {
	var account Account

	result := d.db.WithContext(ctx).
		Preload("Member").
		First(&account, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Account{}, ErrAccountNotFound
		}

		return Account{}, result.Error
	}

	return account, nil
}

// Update persists the account and mirrors its role onto the linked member in
// the same transaction. The account is authoritative on save.
func (d *AccountDAO) Update(ctx context.Context, account Account) (Account, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Account{}).
			Where("id = ?", account.ID).
			Select("username", "email", "first_name", "last_name", "role", "password").
			Updates(&account)
		if result.Error != nil {
			if isUniqueViolation(result.Error, "uni_accounts_username") {
				return ErrAccountUsernameExists
			}

			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAccountNotFound
		}

		if account.MemberID != nil {
			return syncLinkedRoles(tx, *account.MemberID, account.Role)
		}

		return nil
	})
	if err != nil {
		return Account{}, err
	}

	return d.FindByID(ctx, account.ID)
}

// UpdateProfile persists the account's own identity fields and, when a
// mirror is given, writes name, email and phone onto the linked member in
// the same transaction. A collision on either unique column rolls both
// writes back.
func (d *AccountDAO) UpdateProfile(ctx context.Context, account Account, mirror *Member) (Account, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Account{}).
			Where("id = ?", account.ID).
			Select("username", "email", "first_name", "last_name").
			Updates(&account)
		if result.Error != nil {
			if isUniqueViolation(result.Error, "uni_accounts_username") {
				return ErrAccountUsernameExists
			}

			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAccountNotFound
		}

		if mirror == nil {
			return nil
		}

		result = tx.Model(&Member{}).
			Where("id = ?", mirror.ID).
			Select("first_name", "last_name", "email", "phone").
			Updates(mirror)
		if result.Error != nil {
			if isUniqueViolation(result.Error, "uni_members_email") {
				return ErrMemberEmailExists
			}

			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}

		return nil
	})
	if err != nil {
		return Account{}, err
	}

	return d.FindByID(ctx, account.ID)
}

// UpdatePassword replaces only the password hash.
func (d *AccountDAO) UpdatePassword(ctx context.Context, id uint, hash string) error {
	result := d.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Update("password", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}
