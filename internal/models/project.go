package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Project struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	ProjectName     string           `json:"project_name" validate:"required"`
	ClientID        uuid.UUID        `json:"client_id"`
	ClientName      string           `json:"client_name"`
	ProjectType     string           `json:"project_type"`
	PackageID       *uuid.UUID       `json:"package_id,omitempty"`
	PackageName     string           `json:"package_name"`
	AddOns          []AddOn          `json:"add_ons"`
	Date            string           `json:"date"` // YYYY-MM-DD
	Location        string           `json:"location"`
	Progress        int              `json:"progress" validate:"gte=0,lte=100"`
	Status          string           `json:"status"`
	BookingStatus   BookingStatus    `json:"booking_status,omitempty"`
	TotalCost       decimal.Decimal  `json:"total_cost"`
	AmountPaid      decimal.Decimal  `json:"amount_paid"`
	PaymentStatus   PaymentStatus    `json:"payment_status"`
	Notes           string           `json:"notes"`
	PromoCodeID     *uuid.UUID       `json:"promo_code_id,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
	DpProofURL      string           `json:"dp_proof_url,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Balance is what remains to be paid; negative on overpayment.
func (p *Project) Balance() decimal.Decimal {
	return p.TotalCost.Sub(p.AmountPaid)
}
