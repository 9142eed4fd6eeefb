package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idr(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func intPtr(v int) *int { return &v }

var pricingNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func promoFixture(code string, kind models.DiscountType, value int64) *models.PromoCode {
	return &models.PromoCode{
		ID:            uuid.New(),
		Code:          code,
		DiscountType:  kind,
		DiscountValue: idr(value),
		IsActive:      true,
	}
}

func TestEvaluatePromoCode_EmptyCode(t *testing.T) {
	res := EvaluatePromoCode([]*models.PromoCode{promoFixture("DISC10", models.DiscountTypePercentage, 10)}, "   ", idr(1000), pricingNow, models.DefaultStudioSettings())

	assert.False(t, res.Applied)
	assert.Equal(t, models.FeedbackNone, res.FeedbackKind)
	assert.True(t, res.DiscountAmount.IsZero())
	assert.Empty(t, res.Message)
}

func TestEvaluatePromoCode_NotFound(t *testing.T) {
	inactive := promoFixture("OLD", models.DiscountTypeFixed, 100)
	inactive.IsActive = false

	for _, code := range []string{"NOPE", "old"} {
		res := EvaluatePromoCode([]*models.PromoCode{inactive}, code, idr(1000), pricingNow, models.DefaultStudioSettings())
		assert.False(t, res.Applied, code)
		assert.Equal(t, models.FeedbackNotFound, res.FeedbackKind, code)
		assert.Equal(t, "Kode promo tidak ditemukan.", res.Message)
	}
}

func TestEvaluatePromoCode_Invalid(t *testing.T) {
	yesterday := pricingNow.Add(-24 * time.Hour)

	expired := promoFixture("EXPIRED5", models.DiscountTypePercentage, 5)
	expired.ExpiryDate = &yesterday

	maxed := promoFixture("FULL", models.DiscountTypeFixed, 100)
	maxed.MaxUsage = intPtr(3)
	maxed.UsageCount = 3

	tests := []struct {
		name  string
		promo *models.PromoCode
	}{
		{"expired", expired},
		{"usage ceiling reached", maxed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluatePromoCode([]*models.PromoCode{tt.promo}, tt.promo.Code, idr(5_000_000), pricingNow, models.DefaultStudioSettings())
			assert.False(t, res.Applied)
			assert.Equal(t, models.FeedbackInvalid, res.FeedbackKind)
			assert.True(t, res.DiscountAmount.IsZero())
			assert.Equal(t, "Kode promo tidak valid atau sudah habis.", res.Message)
		})
	}
}

func TestEvaluatePromoCode_Percentage(t *testing.T) {
	promo := promoFixture("DISC10", models.DiscountTypePercentage, 10)

	res := EvaluatePromoCode([]*models.PromoCode{promo}, " disc10 ", idr(5_500_000), pricingNow, models.DefaultStudioSettings())

	require.True(t, res.Applied)
	assert.Equal(t, models.FeedbackSuccess, res.FeedbackKind)
	assert.True(t, res.DiscountAmount.Equal(idr(550_000)), res.DiscountAmount.String())
	assert.Equal(t, "10%", res.DiscountLabel)
	assert.Equal(t, "Kode promo diterapkan! Diskon 10%.", res.Message)
	require.NotNil(t, res.PromoCodeID)
	assert.Equal(t, promo.ID, *res.PromoCodeID)
}

func TestEvaluatePromoCode_PercentageIsExact(t *testing.T) {
	promo := promoFixture("THIRD", models.DiscountTypePercentage, 15)

	res := EvaluatePromoCode([]*models.PromoCode{promo}, "THIRD", idr(333), pricingNow, models.DefaultStudioSettings())

	assert.True(t, res.DiscountAmount.Equal(decimal.RequireFromString("49.95")), res.DiscountAmount.String())
}

func TestEvaluatePromoCode_FixedIsClamped(t *testing.T) {
	promo := promoFixture("BIG", models.DiscountTypeFixed, 2_000_000)

	res := EvaluatePromoCode([]*models.PromoCode{promo}, "BIG", idr(1_500_000), pricingNow, models.DefaultStudioSettings())

	require.True(t, res.Applied)
	assert.True(t, res.DiscountAmount.Equal(idr(1_500_000)))
	assert.Equal(t, "Rp 2.000.000", res.DiscountLabel)
}

func TestEvaluatePromoCode_DoesNotMutate(t *testing.T) {
	promo := promoFixture("DISC10", models.DiscountTypePercentage, 10)
	promo.UsageCount = 2
	codes := []*models.PromoCode{promo}

	first := EvaluatePromoCode(codes, "DISC10", idr(1000), pricingNow, models.DefaultStudioSettings())
	second := EvaluatePromoCode(codes, "DISC10", idr(1000), pricingNow, models.DefaultStudioSettings())

	assert.Equal(t, first, second)
	assert.Equal(t, 2, promo.UsageCount)
}

func TestComputeTotal(t *testing.T) {
	pkg := &models.Package{ID: uuid.New(), Price: idr(5_000_000)}
	album := &models.AddOn{ID: uuid.New(), Name: "Album", Price: idr(500_000)}
	drone := &models.AddOn{ID: uuid.New(), Name: "Drone", Price: idr(750_000)}
	addOns := []*models.AddOn{album, drone}

	t.Run("no promo", func(t *testing.T) {
		got := ComputeTotal(pkg, addOns, []uuid.UUID{album.ID, uuid.New()}, models.PromoEvaluation{})
		assert.True(t, got.Subtotal.Equal(idr(5_500_000)))
		assert.True(t, got.Discount.IsZero())
		assert.True(t, got.Total.Equal(idr(5_500_000)))
		require.Len(t, got.AddOns, 1)
		assert.Equal(t, "Album", got.AddOns[0].Name)
	})

	t.Run("matches Subtotal", func(t *testing.T) {
		selected := []uuid.UUID{drone.ID, album.ID}
		got := ComputeTotal(pkg, addOns, selected, models.PromoEvaluation{})
		assert.True(t, got.Subtotal.Equal(Subtotal(pkg, addOns, selected)))
		assert.True(t, got.Subtotal.Equal(idr(6_250_000)))
	})

	t.Run("applied promo", func(t *testing.T) {
		promo := models.PromoEvaluation{Applied: true, DiscountAmount: idr(550_000), DiscountLabel: "10%"}
		got := ComputeTotal(pkg, addOns, []uuid.UUID{album.ID}, promo)
		assert.True(t, got.Total.Equal(idr(4_950_000)))
		assert.Equal(t, "10%", got.DiscountLabel)
	})

	t.Run("unapplied promo is ignored", func(t *testing.T) {
		promo := models.PromoEvaluation{Applied: false, DiscountAmount: idr(550_000)}
		got := ComputeTotal(pkg, addOns, nil, promo)
		assert.True(t, got.Discount.IsZero())
		assert.True(t, got.Total.Equal(idr(5_000_000)))
	})

	t.Run("total never negative", func(t *testing.T) {
		promo := models.PromoEvaluation{Applied: true, DiscountAmount: idr(9_000_000)}
		got := ComputeTotal(pkg, addOns, nil, promo)
		assert.True(t, got.Total.IsZero())
	})
}

func TestClassifyPayment(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		paid  int64
		want  models.PaymentStatus
	}{
		{"nothing paid", 4_950_000, 0, models.PaymentStatusUnpaid},
		{"negative paid", 4_950_000, -5, models.PaymentStatusUnpaid},
		{"deposit", 4_950_000, 1_000_000, models.PaymentStatusDepositPaid},
		{"one short", 4_950_000, 4_949_999, models.PaymentStatusDepositPaid},
		{"exact", 4_950_000, 4_950_000, models.PaymentStatusPaid},
		{"overpaid", 4_950_000, 5_000_000, models.PaymentStatusPaid},
		{"free booking paid nothing", 0, 0, models.PaymentStatusUnpaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPayment(idr(tt.total), idr(tt.paid)))
		})
	}
}

func TestPriceBooking_EvaluatesAgainstSubtotal(t *testing.T) {
	pkg := &models.Package{ID: uuid.New(), Price: idr(5_000_000)}
	album := &models.AddOn{ID: uuid.New(), Price: idr(500_000)}
	promo := promoFixture("DISC10", models.DiscountTypePercentage, 10)

	breakdown, eval := PriceBooking(pkg, []*models.AddOn{album}, []uuid.UUID{album.ID}, []*models.PromoCode{promo}, "DISC10", pricingNow, models.DefaultStudioSettings())

	assert.True(t, eval.Applied)
	assert.True(t, breakdown.Discount.Equal(idr(550_000)))
	assert.True(t, breakdown.Total.Equal(idr(4_950_000)))
}
