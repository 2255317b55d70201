package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository"
)

var (
	ErrMemberNotFound = repository.ErrMemberNotFound
)

type MemberRepository interface {
	Create(ctx context.Context, member domain.Member) (domain.Member, error)
	CreateWithAccount(ctx context.Context, member domain.Member, account domain.Account) (domain.Member, domain.Account, error)
	FindByID(ctx context.Context, id uint) (domain.Member, error)
	FindAll(ctx context.Context) ([]domain.Member, error)
	Update(ctx context.Context, member domain.Member) (domain.Member, error)
	Delete(ctx context.Context, id uint) error
}

type MemberService struct {
	repo MemberRepository
}

func NewMemberService(repo MemberRepository) *MemberService {
	return &MemberService{
		repo: repo,
	}
}

// ListMembers returns the roster ordered by surname, then first name.
func (s *MemberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	members, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return members, nil
}

func (s *MemberService) GetMember(ctx context.Context, id uint) (domain.Member, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return member, nil
}

func (s *MemberService) CreateMember(ctx context.Context, member domain.Member) (domain.Member, error) {
	if member.Role == "" {
		member.Role = domain.RoleAssociate
	}

	created, err := s.repo.Create(ctx, member)
	if err != nil {
		return domain.Member{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// CreateMemberWithAccount creates the member and a login account referencing
// it, atomically. The account inherits the member's role and email; a
// username or email collision rolls back both rows.
func (s *MemberService) CreateMemberWithAccount(ctx context.Context, member domain.Member, username, password string) (domain.Member, domain.Account, error) {
	if member.Role == "" {
		member.Role = domain.RoleAssociate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Member{}, domain.Account{}, err
	}

	account := domain.Account{
		Username:  username,
		Password:  string(hash),
		Email:     member.Email,
		FirstName: member.FirstName,
		LastName:  member.LastName,
	}

	createdMember, createdAccount, err := s.repo.CreateWithAccount(ctx, member, account)
	if err != nil {
		return domain.Member{}, domain.Account{}, fmt.Errorf("s.repo.CreateWithAccount -> %w", err)
	}

	return createdMember, createdAccount, nil
}

// UpdateMember saves the member; the storage layer mirrors a role change onto
// any linked account in the same transaction.
func (s *MemberService) UpdateMember(ctx context.Context, member domain.Member) (domain.Member, error) {
	updated, err := s.repo.Update(ctx, member)
	if err != nil {
		return domain.Member{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *MemberService) DeleteMember(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
