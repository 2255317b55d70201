package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository"
)

var (
	ErrUsernameExists    = repository.ErrAccountUsernameExists
	ErrAccountNotFound   = repository.ErrAccountNotFound
	ErrMemberEmailExists = repository.ErrMemberEmailExists
	ErrWrongPassword     = errors.New("wrong password")
)

type AuthAccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	FindByID(ctx context.Context, id uint) (domain.Account, error)
	FindByUsername(ctx context.Context, username string) (domain.Account, error)
	UpdateProfile(ctx context.Context, account domain.Account, mirror *domain.Member) (domain.Account, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type AuthService struct {
	accounts AuthAccountRepository
}

func NewAuthService(accounts AuthAccountRepository) *AuthService {
	return &AuthService{
		accounts: accounts,
	}
}

// Signup creates a plain login account without a roster entry. New accounts
// are always associates; the very first account persisted is promoted to
// administrator by the storage layer.
func (s *AuthService) Signup(ctx context.Context, account domain.Account) (domain.Account, error) {
	if err := s.checkUsernameExists(ctx, account.Username); err != nil {
		return domain.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Account{}, err
	}
	account.Password = string(hash)
	account.Role = domain.RoleAssociate

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.accounts.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}

		return domain.Account{}, fmt.Errorf("s.accounts.FindByUsername -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return domain.Account{}, ErrWrongPassword
	}

	return account, nil
}

func (s *AuthService) GetAccount(ctx context.Context, id uint) (domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.accounts.FindByID -> %w", err)
	}

	return account, nil
}

// ProfileUpdate carries the fields an account holder may edit about
// themselves.
type ProfileUpdate struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// UpdateProfile edits the account's own identity fields and mirrors name,
// email and phone onto the linked member when there is one. Account and
// member are written atomically; a unique collision on either leaves both
// unchanged. The role is left untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, accountID uint, update ProfileUpdate) (domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.accounts.FindByID -> %w", err)
	}

	account.Username = update.Username
	account.FirstName = update.FirstName
	account.LastName = update.LastName
	account.Email = update.Email

	var mirror *domain.Member
	if account.MemberID != nil {
		mirror = &domain.Member{
			ID:        *account.MemberID,
			FirstName: update.FirstName,
			LastName:  update.LastName,
			Email:     update.Email,
			Phone:     update.Phone,
		}
	}

	updated, err := s.accounts.UpdateProfile(ctx, account, mirror)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.accounts.UpdateProfile -> %w", err)
	}

	return updated, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, accountID uint, oldPassword, newPassword string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("s.accounts.FindByID -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, accountID, string(hash)); err != nil {
		return fmt.Errorf("s.accounts.UpdatePassword -> %w", err)
	}

	return nil
}

func (s *AuthService) checkUsernameExists(ctx context.Context, username string) error {
	_, err := s.accounts.FindByUsername(ctx, username)
	if err == nil {
		return ErrUsernameExists
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return err
	}

	return nil
}
