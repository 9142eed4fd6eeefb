package models

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"user_id"`
	Name           string       `json:"name" validate:"required,min=2,max=120"`
	Email          string       `json:"email" validate:"omitempty,email"`
	Phone          string       `json:"phone"`
	Whatsapp       string       `json:"whatsapp"`
	Instagram      string       `json:"instagram"`
	ClientType     ClientType   `json:"client_type"`
	Status         ClientStatus `json:"status"`
	Since          string       `json:"since"` // YYYY-MM-DD
	LastContact    time.Time    `json:"last_contact"`
	PortalAccessID uuid.UUID    `json:"portal_access_id"`
	CreatedAt      time.Time    `json:"created_at"`
}

// PortalView is what a client sees through their portal link.
type PortalView struct {
	Client   *Client    `json:"client"`
	Projects []*Project `json:"projects"`
}
