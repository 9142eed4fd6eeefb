package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/shopspring/decimal"
)

const (
	msgPromoApplied  = "Kode promo diterapkan! Diskon %s."
	msgPromoInvalid  = "Kode promo tidak valid atau sudah habis."
	msgPromoNotFound = "Kode promo tidak ditemukan."
)

var hundred = decimal.NewFromInt(100)

// EvaluatePromoCode checks an entered code against the vendor's codes. It never
// touches usage counts; redemption happens only when a booking completes.
func EvaluatePromoCode(promoCodes []*models.PromoCode, rawCode string, baseAmount decimal.Decimal, now time.Time, settings models.StudioSettings) models.PromoEvaluation {
	result := models.PromoEvaluation{
		DiscountAmount: decimal.Zero,
		FeedbackKind:   models.FeedbackNone,
	}

	code := models.NormalizePromoCode(rawCode)
	if code == "" {
		return result
	}

	var promo *models.PromoCode
	for _, p := range promoCodes {
		if p.IsActive && p.Matches(code) {
			promo = p
			break
		}
	}
	if promo == nil {
		result.FeedbackKind = models.FeedbackNotFound
		result.Message = msgPromoNotFound
		return result
	}

	if !promo.IsApplicable(now) {
		result.FeedbackKind = models.FeedbackInvalid
		result.Message = msgPromoInvalid
		return result
	}

	switch promo.DiscountType {
	case models.DiscountTypePercentage:
		result.DiscountAmount = baseAmount.Mul(promo.DiscountValue).Div(hundred)
		result.DiscountLabel = promo.DiscountValue.String() + "%"
	case models.DiscountTypeFixed:
		result.DiscountAmount = decimal.Min(promo.DiscountValue, baseAmount)
		result.DiscountLabel = helpers.FormatCurrency(promo.DiscountValue, settings.Locale, settings.Currency)
	default:
		result.FeedbackKind = models.FeedbackInvalid
		result.Message = msgPromoInvalid
		return result
	}
	if result.DiscountAmount.IsNegative() {
		result.DiscountAmount = decimal.Zero
	}

	id := promo.ID
	result.Applied = true
	result.PromoCodeID = &id
	result.FeedbackKind = models.FeedbackSuccess
	result.Message = fmt.Sprintf(msgPromoApplied, result.DiscountLabel)
	return result
}

// SelectAddOns keeps catalog order; unknown ids are ignored.
func SelectAddOns(addOns []*models.AddOn, selectedIDs []uuid.UUID) []models.AddOn {
	wanted := make(map[uuid.UUID]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		wanted[id] = struct{}{}
	}
	selected := []models.AddOn{}
	for _, a := range addOns {
		if _, ok := wanted[a.ID]; ok {
			selected = append(selected, *a)
		}
	}
	return selected
}

func Subtotal(pkg *models.Package, addOns []*models.AddOn, selectedIDs []uuid.UUID) decimal.Decimal {
	return subtotalOf(pkg, SelectAddOns(addOns, selectedIDs))
}

func subtotalOf(pkg *models.Package, selected []models.AddOn) decimal.Decimal {
	subtotal := pkg.Price
	for _, a := range selected {
		subtotal = subtotal.Add(a.Price)
	}
	return subtotal
}

func ComputeTotal(pkg *models.Package, addOns []*models.AddOn, selectedIDs []uuid.UUID, promo models.PromoEvaluation) models.PriceBreakdown {
	selected := SelectAddOns(addOns, selectedIDs)
	subtotal := subtotalOf(pkg, selected)

	discount := decimal.Zero
	label := ""
	if promo.Applied {
		discount = promo.DiscountAmount
		label = promo.DiscountLabel
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return models.PriceBreakdown{
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         total,
		DiscountLabel: label,
		AddOns:        selected,
	}
}

func ClassifyPayment(total, amountPaid decimal.Decimal) models.PaymentStatus {
	if !amountPaid.IsPositive() {
		return models.PaymentStatusUnpaid
	}
	if total.Sub(amountPaid).IsPositive() {
		return models.PaymentStatusDepositPaid
	}
	return models.PaymentStatusPaid
}

// PriceBooking evaluates the promo against the pre-discount subtotal and
// folds it into the breakdown.
func PriceBooking(pkg *models.Package, addOns []*models.AddOn, selectedIDs []uuid.UUID, promoCodes []*models.PromoCode, rawCode string, now time.Time, settings models.StudioSettings) (models.PriceBreakdown, models.PromoEvaluation) {
	promo := EvaluatePromoCode(promoCodes, rawCode, Subtotal(pkg, addOns, selectedIDs), now, settings)
	return ComputeTotal(pkg, addOns, selectedIDs, promo), promo
}
