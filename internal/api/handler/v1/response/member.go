package response

import "github.com/assohub/assohub-api/internal/domain"

type CreateMemberResponse struct {
	Member  domain.Member   `json:"member"`
	Account *domain.Account `json:"account,omitempty"`
}
