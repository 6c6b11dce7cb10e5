package dto

import (
	"time"

	"clienthub.app/hub/internal/model"
	"clienthub.app/hub/internal/service"
)

type ClientRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=255" jsonschema:"required"`
	Color        string  `json:"color,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$"`
	ContactName  *string `json:"contact_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" jsonschema:"format=email"`
	ContactPhone *string `json:"contact_phone,omitempty"`
}

func (r ClientRequest) ToInput() service.ClientInput {
	return service.ClientInput{
		Name:         r.Name,
		Color:        r.Color,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
	}
}

type ClientResponse struct {
	ID           int64     `json:"id,string"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	ContactName  *string   `json:"contact_name,omitempty"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	ContactPhone *string   `json:"contact_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToClientResponse(c *model.Client) ClientResponse {
	return ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		Color:        c.Color,
		ContactName:  c.ContactName,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
		CreatedAt:    c.CreatedAt,
	}
}

func ToClientResponses(clients []model.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, ToClientResponse(&clients[i]))
	}
	return out
}
