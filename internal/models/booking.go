package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FeedbackKind string

const (
	FeedbackNone     FeedbackKind = "none"
	FeedbackSuccess  FeedbackKind = "success"
	FeedbackInvalid  FeedbackKind = "invalid"
	FeedbackNotFound FeedbackKind = "not_found"
)

// PromoEvaluation is the outcome of checking an entered code against a catalog.
type PromoEvaluation struct {
	Applied        bool            `json:"applied"`
	PromoCodeID    *uuid.UUID      `json:"promo_code_id,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DiscountLabel  string          `json:"discount_label,omitempty"`
	FeedbackKind   FeedbackKind    `json:"feedback_kind"`
	Message        string          `json:"message,omitempty"`
}

type PriceBreakdown struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	DiscountLabel string          `json:"discount_label,omitempty"`
	AddOns        []AddOn         `json:"add_ons"`
}

// ProofFile is an uploaded proof of deposit payment.
type ProofFile struct {
	Filename string
	Data     []byte
}

// BookingSubmission is the public booking form as posted.
type BookingSubmission struct {
	PackageID        uuid.UUID       `json:"package_id" validate:"required"`
	ClientName       string          `json:"client_name" validate:"required,min=2,max=120"`
	Email            string          `json:"email" validate:"required,email"`
	Phone            string          `json:"phone" validate:"required,min=6,max=20"`
	Instagram        string          `json:"instagram" validate:"max=60"`
	ProjectType      string          `json:"project_type" validate:"required"`
	Location         string          `json:"location" validate:"required"`
	Date             string          `json:"date" validate:"required,datetime=2006-01-02"`
	SelectedAddOnIDs []uuid.UUID     `json:"selected_add_on_ids"`
	PromoCode        string          `json:"promo_code" validate:"max=40"`
	Deposit          decimal.Decimal `json:"dp"`
	DepositRef       string          `json:"dp_payment_ref" validate:"max=120"`
	Proof            *ProofFile      `json:"-"`
}

// QuoteRequest asks for a live price breakdown without booking.
type QuoteRequest struct {
	PackageID        uuid.UUID   `json:"package_id" validate:"required"`
	SelectedAddOnIDs []uuid.UUID `json:"selected_add_on_ids"`
	PromoCode        string      `json:"promo_code" validate:"max=40"`
}

type Quote struct {
	Breakdown PriceBreakdown  `json:"breakdown"`
	Promo     PromoEvaluation `json:"promo"`
	// Display holds the amounts formatted for the vendor's locale.
	Display map[string]string `json:"display"`
}

// BookingReceipt records the chain of records a booking produced.
type BookingReceipt struct {
	Key           string     `json:"key"`
	VendorID      uuid.UUID  `json:"vendor_id"`
	Project       *Project   `json:"project"`
	ClientID      uuid.UUID  `json:"client_id"`
	LeadID        uuid.UUID  `json:"lead_id"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	CompletedAt   time.Time  `json:"completed_at"`
}
