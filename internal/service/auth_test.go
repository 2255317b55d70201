package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository"
)

type fakeAccountRepo struct {
	nextID   uint
	accounts map[uint]domain.Account
	members  map[uint]domain.Member
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts: make(map[uint]domain.Account),
		members:  make(map[uint]domain.Member),
	}
}

func (r *fakeAccountRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	for _, existing := range r.accounts {
		if existing.Username == account.Username {
			return domain.Account{}, repository.ErrAccountUsernameExists
		}
	}

	r.nextID++
	account.ID = r.nextID
	r.accounts[account.ID] = account

	return account, nil
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id uint) (domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, repository.ErrAccountNotFound
	}

	return account, nil
}

func (r *fakeAccountRepo) FindByUsername(ctx context.Context, username string) (domain.Account, error) {
	for _, account := range r.accounts {
		if account.Username == username {
			return account, nil
		}
	}

	return domain.Account{}, repository.ErrAccountNotFound
}

// UpdateProfile mimics the storage layer's all-or-nothing write: both unique
// checks run before either row is touched.
func (r *fakeAccountRepo) UpdateProfile(ctx context.Context, account domain.Account, mirror *domain.Member) (domain.Account, error) {
	stored, ok := r.accounts[account.ID]
	if !ok {
		return domain.Account{}, repository.ErrAccountNotFound
	}
	for id, existing := range r.accounts {
		if id != account.ID && existing.Username == account.Username {
			return domain.Account{}, repository.ErrAccountUsernameExists
		}
	}
	if mirror != nil {
		if _, ok := r.members[mirror.ID]; !ok {
			return domain.Account{}, repository.ErrMemberNotFound
		}
		for id, existing := range r.members {
			if id != mirror.ID && existing.Email == mirror.Email {
				return domain.Account{}, repository.ErrMemberEmailExists
			}
		}
	}

	if mirror != nil {
		member := r.members[mirror.ID]
		member.FirstName = mirror.FirstName
		member.LastName = mirror.LastName
		member.Email = mirror.Email
		member.Phone = mirror.Phone
		r.members[mirror.ID] = member
	}

	stored.Username = account.Username
	stored.FirstName = account.FirstName
	stored.LastName = account.LastName
	stored.Email = account.Email
	r.accounts[account.ID] = stored

	return stored, nil
}

func (r *fakeAccountRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	account, ok := r.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	account.Password = hash
	r.accounts[id] = account

	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return string(hash)
}

func TestAuthService_Signup(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := NewAuthService(accounts)
	ctx := context.Background()

	created, err := svc.Signup(ctx, domain.Account{
		Username: "mrossi",
		Password: "password1",
		Email:    "mario@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleAssociate, created.Role)
	assert.NotEqual(t, "password1", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password1")))
}

func TestAuthService_Signup_DuplicateUsername(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := NewAuthService(accounts)
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.Account{Username: "mrossi", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, domain.Account{Username: "mrossi", Password: "password2"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := NewAuthService(accounts)
	ctx := context.Background()

	_, err := accounts.Create(ctx, domain.Account{
		Username: "mrossi",
		Password: hashPassword(t, "password1"),
		Role:     domain.RoleAssociate,
	})
	require.NoError(t, err)

	account, err := svc.Login(ctx, "mrossi", "password1")
	require.NoError(t, err)
	assert.Equal(t, "mrossi", account.Username)

	_, err = svc.Login(ctx, "mrossi", "nope12345")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(ctx, "ghost", "password1")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAuthService_UpdateProfile_MirrorsOntoLinkedMember(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := NewAuthService(accounts)
	ctx := context.Background()

	accounts.members[7] = domain.Member{
		ID: 7, FirstName: "Mario", LastName: "Rossi",
		Email: "mario@example.com", Role: domain.RoleAssociate, Active: true,
	}
	memberID := uint(7)
	created, err := accounts.Create(ctx, domain.Account{
		Username: "mrossi", Password: "hash",
		Email: "mario@example.com", Role: domain.RoleAssociate, MemberID: &memberID,
	})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, created.ID, ProfileUpdate{
		Username:  "mrossi",
		FirstName: "Mario",
		LastName:  "Rossi-Verdi",
		Email:     "mario.verdi@example.com",
		Phone:     "3331234567",
	})
	require.NoError(t, err)

	member := accounts.members[7]
	assert.Equal(t, "Rossi-Verdi", member.LastName)
	assert.Equal(t, "mario.verdi@example.com", member.Email)
	assert.Equal(t, "3331234567", member.Phone)
	// The role never moves through a profile edit.
	assert.Equal(t, domain.RoleAssociate, member.Role)
}

func TestAuthService_UpdateProfile_EmailCollisionLeavesAccountUntouched(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := NewAuthService(accounts)
	ctx := context.Background()

	accounts.members[7] = domain.Member{
		ID: 7, FirstName: "Mario", LastName: "Rossi",
		Email: "mario@example.com", Role: domain.RoleAssociate, Active: true,
	}
	accounts.members[8] = domain.Member{
		ID: 8, FirstName: "Maria", LastName: "Bianchi",
		Email: "maria@example.com", Role: domain.RoleAssociate, Active: true,
	}
	memberID := uint(7)
	created, err := accounts.Create(ctx, domain.Account{
		Username: "mrossi", Password: "hash",
		Email: "mario@example.com", Role: domain.RoleAssociate, MemberID: &memberID,
	})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, created.ID, ProfileUpdate{
		Username:  "mrossi",
		FirstName: "Mario",
		LastName:  "Rossi",
		Email:     "maria@example.com",
	})
	assert.ErrorIs(t, err, ErrMemberEmailExists)

	// Neither row moved.
	assert.Equal(t, "mario@example.com", accounts.accounts[created.ID].Email)
	assert.Equal(t, "mario@example.com", accounts.members[7].Email)
}

func TestAuthService_ChangePassword(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := NewAuthService(accounts)
	ctx := context.Background()

	created, err := accounts.Create(ctx, domain.Account{
		Username: "mrossi",
		Password: hashPassword(t, "oldpass12"),
	})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, created.ID, "wrongpass", "newpass12")
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(ctx, created.ID, "oldpass12", "newpass12")
	require.NoError(t, err)

	stored := accounts.accounts[created.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpass12")))
}
