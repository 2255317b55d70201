package response

import "github.com/assohub/assohub-api/internal/domain"

type LoginResponse struct {
	Token   string         `json:"token"`
	Account domain.Account `json:"account"`
}
