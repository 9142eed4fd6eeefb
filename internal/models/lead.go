package models

import (
	"time"

	"github.com/google/uuid"
)

type Lead struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Name           string         `json:"name" validate:"required,min=2,max=120"`
	ContactChannel ContactChannel `json:"contact_channel"`
	Location       string         `json:"location"`
	Status         LeadStatus     `json:"status"`
	Date           string         `json:"date"` // YYYY-MM-DD
	Notes          string         `json:"notes"`
	Whatsapp       string         `json:"whatsapp,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// LeadForm is the public lead-capture form.
type LeadForm struct {
	Name          string `json:"name" validate:"required,min=2,max=120"`
	Whatsapp      string `json:"whatsapp" validate:"required,min=6,max=20"`
	EventType     string `json:"event_type" validate:"required"`
	EventDate     string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventLocation string `json:"event_location" validate:"required"`
}
