package repository

import (
	"context"
	"fmt"

	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository/dao"
)

var (
	ErrMemberEmailExists = dao.ErrMemberEmailExists
	ErrMemberNotFound    = dao.ErrMemberNotFound
)

type MemberDAO interface {
	Insert(ctx context.Context, member dao.Member) (dao.Member, error)
	InsertWithAccount(ctx context.Context, member dao.Member, account dao.Account) (dao.Member, dao.Account, error)
	FindByID(ctx context.Context, id uint) (dao.Member, error)
	FindAll(ctx context.Context) ([]dao.Member, error)
	Update(ctx context.Context, member dao.Member) (dao.Member, error)
	Delete(ctx context.Context, id uint) error
	CountActive(ctx context.Context) (int64, error)
}

type MemberRepository struct {
	dao MemberDAO
}

func NewMemberRepository(dao MemberDAO) *MemberRepository {
	return &MemberRepository{
		dao: dao,
	}
}

func (r *MemberRepository) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	created, err := r.dao.Insert(ctx, memberDomainToDAO(member))
	if err != nil {
		return domain.Member{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return memberDAOToDomain(created), nil
}

// CreateWithAccount creates the member together with its login account in a
// single transaction.
func (r *MemberRepository) CreateWithAccount(ctx context.Context, member domain.Member, account domain.Account) (domain.Member, domain.Account, error) {
	createdMember, createdAccount, err := r.dao.InsertWithAccount(ctx, memberDomainToDAO(member), accountDomainToDAO(account))
	if err != nil {
		return domain.Member{}, domain.Account{}, fmt.Errorf("r.dao.InsertWithAccount -> %w", err)
	}

	return memberDAOToDomain(createdMember), accountDAOToDomain(createdAccount), nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id uint) (domain.Member, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return memberDAOToDomain(found), nil
}

func (r *MemberRepository) FindAll(ctx context.Context) ([]domain.Member, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	members := make([]domain.Member, 0, len(found))
	for _, m := range found {
		members = append(members, memberDAOToDomain(m))
	}

	return members, nil
}

func (r *MemberRepository) Update(ctx context.Context, member domain.Member) (domain.Member, error) {
	updated, err := r.dao.Update(ctx, memberDomainToDAO(member))
	if err != nil {
		return domain.Member{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return memberDAOToDomain(updated), nil
}

func (r *MemberRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *MemberRepository) CountActive(ctx context.Context) (int64, error) {
	count, err := r.dao.CountActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountActive -> %w", err)
	}

	return count, nil
}

func memberDAOToDomain(m dao.Member) domain.Member {
	return domain.Member{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      m.Role,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func memberDomainToDAO(m domain.Member) dao.Member {
	return dao.Member{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      m.Role,
		Active:    m.Active,
	}
}
