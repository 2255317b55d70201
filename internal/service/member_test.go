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

type fakeMemberRepo struct {
	nextID  uint
	members map[uint]domain.Member

	lastAccount domain.Account
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{
		members: make(map[uint]domain.Member),
	}
}

func (r *fakeMemberRepo) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	r.nextID++
	member.ID = r.nextID
	r.members[member.ID] = member

	return member, nil
}

func (r *fakeMemberRepo) CreateWithAccount(ctx context.Context, member domain.Member, account domain.Account) (domain.Member, domain.Account, error) {
	created, err := r.Create(ctx, member)
	if err != nil {
		return domain.Member{}, domain.Account{}, err
	}

	account.ID = created.ID
	account.MemberID = &created.ID
	account.Role = created.Role
	r.lastAccount = account

	return created, account, nil
}

func (r *fakeMemberRepo) FindByID(ctx context.Context, id uint) (domain.Member, error) {
	member, ok := r.members[id]
	if !ok {
		return domain.Member{}, repository.ErrMemberNotFound
	}

	return member, nil
}

func (r *fakeMemberRepo) FindAll(ctx context.Context) ([]domain.Member, error) {
	members := make([]domain.Member, 0, len(r.members))
	for _, member := range r.members {
		members = append(members, member)
	}

	return members, nil
}

func (r *fakeMemberRepo) Update(ctx context.Context, member domain.Member) (domain.Member, error) {
	if _, ok := r.members[member.ID]; !ok {
		return domain.Member{}, repository.ErrMemberNotFound
	}
	r.members[member.ID] = member

	return member, nil
}

func (r *fakeMemberRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.members[id]; !ok {
		return repository.ErrMemberNotFound
	}
	delete(r.members, id)

	return nil
}

func TestMemberService_CreateMember_DefaultsRole(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	created, err := svc.CreateMember(context.Background(), domain.Member{
		FirstName: "Mario", LastName: "Rossi",
		Email: "mario@example.com", Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssociate, created.Role)
}

func TestMemberService_CreateMemberWithAccount(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)

	member, account, err := svc.CreateMemberWithAccount(context.Background(),
		domain.Member{
			FirstName: "Mario", LastName: "Rossi",
			Email: "mario@example.com", Active: true,
		},
		"mrossi", "password1",
	)
	require.NoError(t, err)

	assert.Equal(t, "mrossi", account.Username)
	// The account inherits the member's email and identity.
	assert.Equal(t, "mario@example.com", account.Email)
	assert.Equal(t, "Mario", account.FirstName)
	require.NotNil(t, account.MemberID)
	assert.Equal(t, member.ID, *account.MemberID)

	// The password is never stored in the clear.
	stored := repo.lastAccount
	assert.NotEqual(t, "password1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password1")))
}

func TestMemberService_UpdateMember_NotFound(t *testing.T) {
	svc := NewMemberService(newFakeMemberRepo())

	_, err := svc.UpdateMember(context.Background(), domain.Member{ID: 999})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestMemberService_DeleteMember(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo)
	ctx := context.Background()

	created, err := svc.CreateMember(ctx, domain.Member{
		FirstName: "Mario", LastName: "Rossi", Email: "mario@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMember(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteMember(ctx, created.ID), ErrMemberNotFound)
}
