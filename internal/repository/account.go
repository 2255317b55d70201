package repository

import (
	"context"
	"fmt"

	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository/dao"
)

var (
	ErrAccountUsernameExists = dao.ErrAccountUsernameExists
	ErrAccountNotFound       = dao.ErrAccountNotFound
)

type AccountDAO interface {
	Insert(ctx context.Context, account dao.Account) (dao.Account, error)
	FindByID(ctx context.Context, id uint) (dao.Account, error)
	FindByUsername(ctx context.Context, username string) (dao.Account, error)
	Update(ctx context.Context, account dao.Account) (dao.Account, error)
	UpdateProfile(ctx context.Context, account dao.Account, mirror *dao.Member) (dao.Account, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type AccountRepository struct {
	dao AccountDAO
}

func NewAccountRepository(dao AccountDAO) *AccountRepository {
	return &AccountRepository{
		dao: dao,
	}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	created, err := r.dao.Insert(ctx, accountDomainToDAO(account))
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return accountDAOToDomain(created), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uint) (domain.Account, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return accountDAOToDomain(found), nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (domain.Account, error) {
	found, err := r.dao.FindByUsername(ctx, username)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.FindByUsername -> %w", err)
	}

	return accountDAOToDomain(found), nil
}

func (r *AccountRepository) Update(ctx context.Context, account domain.Account) (domain.Account, error) {
	updated, err := r.dao.Update(ctx, accountDomainToDAO(account))
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return accountDAOToDomain(updated), nil
}

// UpdateProfile writes the account and its linked member mirror in one
// storage transaction.
func (r *AccountRepository) UpdateProfile(ctx context.Context, account domain.Account, mirror *domain.Member) (domain.Account, error) {
	var daoMirror *dao.Member
	if mirror != nil {
		m := memberDomainToDAO(*mirror)
		daoMirror = &m
	}

	updated, err := r.dao.UpdateProfile(ctx, accountDomainToDAO(account), daoMirror)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.UpdateProfile -> %w", err)
	}

	return accountDAOToDomain(updated), nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	if err := r.dao.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("r.dao.UpdatePassword -> %w", err)
	}

	return nil
}

func accountDAOToDomain(a dao.Account) domain.Account {
	account := domain.Account{
		ID:        a.ID,
		Username:  a.Username,
		Password:  a.Password,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
		MemberID:  a.MemberID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Member != nil {
		member := memberDAOToDomain(*a.Member)
		account.Member = &member
	}

	return account
}

func accountDomainToDAO(a domain.Account) dao.Account {
	return dao.Account{
		ID:        a.ID,
		Username:  a.Username,
		Password:  a.Password,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
		MemberID:  a.MemberID,
	}
}
