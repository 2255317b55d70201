package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/assohub/assohub-api/internal/domain"
)

var (
	ErrMemberEmailExists = errors.New("a member with this email already exists")
	ErrMemberNotFound    = errors.New("member not found")
)

type Member struct {
	ID uint `gorm:"primaryKey"`

	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Email     string `gorm:"unique;not null"`
	Phone     string
	Role      string `gorm:"not null"`
	Active    bool   `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type MemberDAO struct {
	db *gorm.DB
}

func NewMemberDAO(db *gorm.DB) *MemberDAO {
	return &MemberDAO{
		db: db,
	}
}

func (d *MemberDAO) Insert(ctx context.Context, member Member) (Member, error) {
	result := d.db.WithContext(ctx).Create(&member)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_members_email") {
			return Member{}, ErrMemberEmailExists
		}

		return Member{}, result.Error
	}

	return member, nil
}

// InsertWithAccount creates a member and its login account in one
// transaction, so a username or email collision cannot leave an orphaned
// member behind. The account role is copied from the member, except for the
// very first account ever created, which bootstraps the administrator.
func (d *MemberDAO) InsertWithAccount(ctx context.Context, member Member, account Account) (Member, Account, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&member).Error; err != nil {
			if isUniqueViolation(err, "uni_members_email") {
				return ErrMemberEmailExists
			}

			return err
		}

		account.Role = member.Role
		if err := applyBootstrapRole(tx, &account); err != nil {
			return err
		}
		account.MemberID = &member.ID

		if err := tx.Create(&account).Error; err != nil {
			if isUniqueViolation(err, "uni_accounts_username") {
				return ErrAccountUsernameExists
			}

			return err
		}

		// The bootstrap may have elevated the account; the account is
		// authoritative on save.
		if account.Role != member.Role {
			if err := syncLinkedRoles(tx, member.ID, account.Role); err != nil {
				return err
			}
			member.Role = account.Role
		}

		return nil
	})
	if err != nil {
		return Member{}, Account{}, err
	}

	return member, account, nil
}

func (d *MemberDAO) FindByID(ctx context.Context, id uint) (Member, error) {
	var member Member

	result := d.db.WithContext(ctx).First(&member, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Member{}, ErrMemberNotFound
		}

		return Member{}, result.Error
	}

	return member, nil
}

func (d *MemberDAO) FindAll(ctx context.Context) ([]Member, error) {
	var members []Member

	result := d.db.WithContext(ctx).
		Order("last_name, first_name").
		Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

// Update persists the editable member fields and re-aligns any linked account
// role inside the same transaction.
func (d *MemberDAO) Update(ctx context.Context, member Member) (Member, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Member{}).
			Where("id = ?", member.ID).
			Select("first_name", "last_name", "email", "phone", "role", "active").
			Updates(&member)
		if result.Error != nil {
			if isUniqueViolation(result.Error, "uni_members_email") {
				return ErrMemberEmailExists
			}

			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}

		return syncLinkedRoles(tx, member.ID, member.Role)
	})
	if err != nil {
		return Member{}, err
	}

	return d.FindByID(ctx, member.ID)
}

// Delete removes a member. Fees, participations and the linked account go
// with it through the foreign key cascades.
func (d *MemberDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Member{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

func (d *MemberDAO) CountActive(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Member{}).
		Where("active = ?", true).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// applyBootstrapRole forces the very first account ever persisted to be an
// administrator, whatever role was requested. The check runs against the
// persisted count inside the caller's transaction.
func applyBootstrapRole(tx *gorm.DB, account *Account) error {
	var count int64
	if err := tx.Model(&Account{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		account.Role = domain.RoleAdministrator
	}

	return nil
}
