package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository"
)

var (
	ErrFeeYearExists = repository.ErrFeeYearExists
	ErrForbidden     = errors.New("not allowed to view another member's fees")
)

type FeeRepository interface {
	Create(ctx context.Context, fee domain.MembershipFee) (domain.MembershipFee, error)
	FindAll(ctx context.Context) ([]domain.MembershipFee, error)
	FindByMemberID(ctx context.Context, memberID uint) ([]domain.MembershipFee, error)
}

type FeeMemberRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Member, error)
}

type FeeService struct {
	repo    FeeRepository
	members FeeMemberRepository
}

func NewFeeService(repo FeeRepository, members FeeMemberRepository) *FeeService {
	return &FeeService{
		repo:    repo,
		members: members,
	}
}

// ListFees scopes the result to the caller: administrators see every fee with
// the member joined, associates only their own. An associate without a linked
// member gets an empty list, not an error.
func (s *FeeService) ListFees(ctx context.Context, account domain.Account) ([]domain.MembershipFee, error) {
	if account.IsAdministrator() {
		fees, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
		}

		return fees, nil
	}

	if !account.HasMember() {
		return []domain.MembershipFee{}, nil
	}

	fees, err := s.repo.FindByMemberID(ctx, *account.MemberID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByMemberID -> %w", err)
	}

	return fees, nil
}

// CreateFee records a member's annual due. The (member, year) pair is unique;
// a second fee for the same year fails with ErrFeeYearExists.
func (s *FeeService) CreateFee(ctx context.Context, fee domain.MembershipFee) (domain.MembershipFee, error) {
	if fee.Year == 0 {
		fee.Year = time.Now().Year()
	}
	if fee.Status == "" {
		fee.Status = domain.FeeStatusPending
	}

	if _, err := s.members.FindByID(ctx, fee.MemberID); err != nil {
		return domain.MembershipFee{}, fmt.Errorf("s.members.FindByID -> %w", err)
	}

	created, err := s.repo.Create(ctx, fee)
	if err != nil {
		return domain.MembershipFee{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// FeesForMember returns one member's fees, newest year first. Associates may
// only ask for their own member; administrators for anyone.
func (s *FeeService) FeesForMember(ctx context.Context, memberID uint, account domain.Account) ([]domain.MembershipFee, error) {
	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("s.members.FindByID -> %w", err)
	}

	if account.IsAssociate() {
		if !account.HasMember() || *account.MemberID != memberID {
			return nil, ErrForbidden
		}
	}

	fees, err := s.repo.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByMemberID -> %w", err)
	}

	return fees, nil
}
