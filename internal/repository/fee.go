package repository

import (
	"context"
	"fmt"

	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository/dao"
)

var (
	ErrFeeYearExists = dao.ErrFeeYearExists
	ErrFeeNotFound   = dao.ErrFeeNotFound
)

type FeeDAO interface {
	Insert(ctx context.Context, fee dao.MembershipFee) (dao.MembershipFee, error)
	FindAllWithMembers(ctx context.Context) ([]dao.MembershipFee, error)
	FindByMemberID(ctx context.Context, memberID uint) ([]dao.MembershipFee, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type FeeRepository struct {
	dao FeeDAO
}

func NewFeeRepository(dao FeeDAO) *FeeRepository {
	return &FeeRepository{
		dao: dao,
	}
}

func (r *FeeRepository) Create(ctx context.Context, fee domain.MembershipFee) (domain.MembershipFee, error) {
	created, err := r.dao.Insert(ctx, dao.MembershipFee{
		MemberID:    fee.MemberID,
		Year:        fee.Year,
		Amount:      fee.Amount,
		PaymentDate: fee.PaymentDate,
		Status:      fee.Status,
	})
	if err != nil {
		return domain.MembershipFee{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return feeDAOToDomain(created), nil
}

func (r *FeeRepository) FindAll(ctx context.Context) ([]domain.MembershipFee, error) {
	found, err := r.dao.FindAllWithMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllWithMembers -> %w", err)
	}

	fees := make([]domain.MembershipFee, 0, len(found))
	for _, f := range found {
		fee := feeDAOToDomain(f)
		member := memberDAOToDomain(f.Member)
		fee.Member = &member
		fees = append(fees, fee)
	}

	return fees, nil
}

func (r *FeeRepository) FindByMemberID(ctx context.Context, memberID uint) ([]domain.MembershipFee, error) {
	found, err := r.dao.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByMemberID -> %w", err)
	}

	fees := make([]domain.MembershipFee, 0, len(found))
	for _, f := range found {
		fees = append(fees, feeDAOToDomain(f))
	}

	return fees, nil
}

func (r *FeeRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts, err := r.dao.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByStatus -> %w", err)
	}

	return counts, nil
}

func feeDAOToDomain(f dao.MembershipFee) domain.MembershipFee {
	return domain.MembershipFee{
		ID:          f.ID,
		MemberID:    f.MemberID,
		Year:        f.Year,
		Amount:      f.Amount,
		PaymentDate: f.PaymentDate,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
