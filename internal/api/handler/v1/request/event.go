package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Date, validation.Required),
		validation.Field(&req.Location, validation.Required, validation.Length(1, 200)),
	)
}

type UpdateEventRequest struct {
	CreateEventRequest
}

type UpdateParticipationRequest struct {
	Presence *bool `json:"presence"`
}

func (req *UpdateParticipationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Presence, validation.NotNil),
	)
}
