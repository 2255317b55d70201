package response

import "github.com/assohub/assohub-api/internal/domain"

type RegisterParticipationResponse struct {
	Participation domain.Participation `json:"participation"`
	Created       bool                 `json:"created"`
}
