package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PhysicalItem struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

// Package is a bookable service offering. Prices are whole currency units.
type Package struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Name           string          `json:"name" validate:"required,min=2,max=120"`
	Price          decimal.Decimal `json:"price"`
	ProcessingTime string          `json:"processing_time"`
	Photographers  string          `json:"photographers"`
	Videographers  string          `json:"videographers"`
	PhysicalItems  []PhysicalItem  `json:"physical_items" validate:"dive"`
	DigitalItems   []string        `json:"digital_items"`
	CoverImage     string          `json:"cover_image,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type AddOn struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Name      string          `json:"name" validate:"required,max=120"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// Catalog is the public view of a vendor's offering.
type Catalog struct {
	Packages []*Package `json:"packages"`
	AddOns   []*AddOn   `json:"add_ons"`
}
