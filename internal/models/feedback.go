package models

import (
	"time"

	"github.com/google/uuid"
)

type ClientFeedback struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	ClientName   string            `json:"client_name" validate:"required"`
	Rating       int               `json:"rating" validate:"required,min=1,max=5"`
	Satisfaction SatisfactionLevel `json:"satisfaction"`
	Feedback     string            `json:"feedback" validate:"max=2000"`
	Date         string            `json:"date"`
	CreatedAt    time.Time         `json:"created_at"`
}

// SatisfactionFor maps a 1-5 star rating to a satisfaction level.
func SatisfactionFor(rating int) SatisfactionLevel {
	switch {
	case rating >= 5:
		return SatisfactionVerySatisfied
	case rating == 4:
		return SatisfactionSatisfied
	case rating == 3:
		return SatisfactionNeutral
	default:
		return SatisfactionUnsatisfied
	}
}
