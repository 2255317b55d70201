package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrFeeYearExists = errors.New("a fee for this member and year already exists")
	ErrFeeNotFound   = errors.New("membership fee not found")
)

type MembershipFee struct {
	ID uint `gorm:"primaryKey"`

	MemberID uint   `gorm:"not null;uniqueIndex:uq_membership_fees_member_year"`
	Member   Member `gorm:"constraint:OnDelete:CASCADE"`

	Year        int             `gorm:"not null;uniqueIndex:uq_membership_fees_member_year"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentDate *time.Time
	Status      string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type FeeDAO struct {
	db *gorm.DB
}

func NewFeeDAO(db *gorm.DB) *FeeDAO {
	return &FeeDAO{
		db: db,
	}
}

func (d *FeeDAO) Insert(ctx context.Context, fee MembershipFee) (MembershipFee, error) {
	result := d.db.WithContext(ctx).Create(&fee)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uq_membership_fees_member_year") {
			return MembershipFee{}, ErrFeeYearExists
		}

		return MembershipFee{}, result.Error
	}

	return fee, nil
}

// FindAllWithMembers returns every fee with its member joined, newest year
// first, then by member surname.
func (d *FeeDAO) FindAllWithMembers(ctx context.Context) ([]MembershipFee, error) {
	var fees []MembershipFee

	result := d.db.WithContext(ctx).
		Joins("Member").
		Order(`year DESC, "Member"."last_name"`).
		Find(&fees)
	if result.Error != nil {
		return nil, result.Error
	}

	return fees, nil
}

func (d *FeeDAO) FindByMemberID(ctx context.Context, memberID uint) ([]MembershipFee, error) {
	var fees []MembershipFee

	result := d.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("year DESC").
		Find(&fees)
	if result.Error != nil {
		return nil, result.Error
	}

	return fees, nil
}

func (d *FeeDAO) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}

	result := d.db.WithContext(ctx).
		Model(&MembershipFee{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}
