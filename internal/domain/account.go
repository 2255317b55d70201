package domain

import (
	"strings"
	"time"
)

// Account is a login credential. It may reference a Member (an associate who
// can sign in) or stand alone (staff login with no roster entry).
type Account struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	MemberID  *uint     `json:"member_id,omitempty"`
	Member    *Member   `json:"member,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Account) IsAssociate() bool {
	return a.Role == RoleAssociate
}

func (a Account) IsAdministrator() bool {
	return a.Role == RoleAdministrator
}

func (a Account) HasMember() bool {
	return a.MemberID != nil
}

// DisplayName prefers the linked member's full name, then the account's own
// first and last name, then the username.
func (a Account) DisplayName() string {
	if a.Member != nil {
		if name := a.Member.FullName(); name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(a.FirstName + " " + a.LastName); name != "" {
		return name
	}

	return a.Username
}
