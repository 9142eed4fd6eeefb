package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PromoCode struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Code          string          `json:"code" validate:"required,min=2,max=40"`
	DiscountType  DiscountType    `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	IsActive      bool            `json:"is_active"`
	UsageCount    int             `json:"usage_count"`
	MaxUsage      *int            `json:"max_usage,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NormalizePromoCode trims and upper-cases user input before comparison.
func NormalizePromoCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Matches reports whether the stored code equals the normalized input.
func (p *PromoCode) Matches(normalized string) bool {
	return strings.EqualFold(p.Code, normalized)
}

func (p *PromoCode) IsExpired(now time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(now)
}

func (p *PromoCode) IsMaxedOut() bool {
	return p.MaxUsage != nil && p.UsageCount >= *p.MaxUsage
}

// IsApplicable: active, not past expiry, usage below the ceiling.
func (p *PromoCode) IsApplicable(now time.Time) bool {
	return p.IsActive && !p.IsExpired(now) && !p.IsMaxedOut()
}
