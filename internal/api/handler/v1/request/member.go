package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/assohub/assohub-api/internal/domain"
)

// CreateMemberRequest creates a roster entry, optionally together with a
// login account when a username and password are supplied.
type CreateMemberRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Active    *bool  `json:"active"`

	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *CreateMemberRequest) WithAccount() bool {
	return req.Username != ""
}

func (req *CreateMemberRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 150)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 150)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Phone, validation.Length(0, 30)),
		validation.Field(&req.Role, validation.In(domain.RoleAssociate, domain.RoleAdministrator)),
	)
	if err != nil {
		return err
	}

	if req.WithAccount() {
		if err := validation.Validate(req.Username, validation.Required, validation.Length(3, 150)); err != nil {
			return err
		}

		return validatePassword(req.Password, req.Password)
	}

	return nil
}

type UpdateMemberRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Active    *bool  `json:"active"`
}

func (req *UpdateMemberRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 150)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 150)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Phone, validation.Length(0, 30)),
		validation.Field(&req.Role, validation.Required, validation.In(domain.RoleAssociate, domain.RoleAdministrator)),
		validation.Field(&req.Active, validation.NotNil),
	)
}
