package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoCode_IsApplicable(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	three := 3

	tests := []struct {
		name  string
		promo PromoCode
		want  bool
	}{
		{"active without limits", PromoCode{IsActive: true}, true},
		{"inactive", PromoCode{IsActive: false}, false},
		{"expired", PromoCode{IsActive: true, ExpiryDate: &past}, false},
		{"expires later", PromoCode{IsActive: true, ExpiryDate: &future}, true},
		{"expires exactly now", PromoCode{IsActive: true, ExpiryDate: &now}, true},
		{"below ceiling", PromoCode{IsActive: true, MaxUsage: &three, UsageCount: 2}, true},
		{"at ceiling", PromoCode{IsActive: true, MaxUsage: &three, UsageCount: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.promo.IsApplicable(now))
		})
	}
}

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "DISC10", NormalizePromoCode("  disc10 "))
	assert.True(t, (&PromoCode{Code: "Disc10"}).Matches("DISC10"))
}

func TestMemoryStore_OwnershipIsEnforced(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	client, err := store.CreateClient(ctx, &Client{UserID: owner, Name: "Dewi"}, "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, client.ID)
	assert.False(t, client.CreatedAt.IsZero())

	list, err := store.ListClients(ctx, stranger, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = store.UpdateClient(ctx, client.ID, stranger, map[string]interface{}{"name": "X"}, "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteClient(ctx, client.ID, stranger, ""), ErrNotFound)

	updated, err := store.UpdateClient(ctx, client.ID, owner, map[string]interface{}{
		"name":    "Dewi Lestari",
		"user_id": stranger.String(),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Dewi Lestari", updated.Name)
	assert.Equal(t, owner, updated.UserID)
	require.NoError(t, store.DeleteClient(ctx, client.ID, owner, ""))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := uuid.New()

	created, err := store.CreatePackage(ctx, &Package{UserID: owner, Name: "Gold", Price: decimal.NewFromInt(5_000_000)}, "")
	require.NoError(t, err)
	created.Name = "mutated"

	got, err := store.GetPackage(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Gold", got.Name)
}

func TestMemoryStore_PatchDecimals(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := uuid.New()

	project, err := store.CreateProject(ctx, &Project{UserID: owner, ProjectName: "Acara", TotalCost: decimal.NewFromInt(100)}, "")
	require.NoError(t, err)

	updated, err := store.UpdateProject(ctx, project.ID, owner, map[string]interface{}{
		"amount_paid":    decimal.NewFromInt(40),
		"payment_status": PaymentStatusDepositPaid,
	}, "")
	require.NoError(t, err)
	assert.True(t, updated.AmountPaid.Equal(decimal.NewFromInt(40)))
	assert.True(t, updated.TotalCost.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, PaymentStatusDepositPaid, updated.PaymentStatus)

	_, err = store.UpdateProject(ctx, project.ID, owner, map[string]interface{}{}, "")
	assert.Error(t, err)
}

func TestMemoryStore_UpdatePromoCodeUsage(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := uuid.New()
	two := 2

	promo, err := store.CreatePromoCode(ctx, &PromoCode{UserID: owner, Code: "DISC10", IsActive: true, UsageCount: 1, MaxUsage: &two}, "")
	require.NoError(t, err)

	require.NoError(t, store.UpdatePromoCodeUsage(ctx, promo.ID))
	assert.ErrorIs(t, store.UpdatePromoCodeUsage(ctx, promo.ID), ErrPromoCodeExhausted)
	assert.ErrorIs(t, store.UpdatePromoCodeUsage(ctx, uuid.New()), ErrNotFound)

	list, err := store.ListPromoCodes(ctx, owner, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].UsageCount)
}

func TestMemoryStore_OnWriteFailsWrite(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("boom")
	store.OnWrite = func(op string) error {
		if op == "create_lead" {
			return boom
		}
		return nil
	}

	_, err := store.CreateLead(context.Background(), &Lead{UserID: uuid.New(), Name: "Budi"}, "")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "create_lead")
}

func TestMemoryStore_ActivePromoCodesAndPortal(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := uuid.New()

	_, err := store.CreatePromoCode(ctx, &PromoCode{UserID: owner, Code: "ON", IsActive: true}, "")
	require.NoError(t, err)
	_, err = store.CreatePromoCode(ctx, &PromoCode{UserID: owner, Code: "OFF", IsActive: false}, "")
	require.NoError(t, err)

	active, err := store.ListActivePromoCodes(ctx, owner)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "ON", active[0].Code)

	portalID := uuid.New()
	_, err = store.CreateClient(ctx, &Client{UserID: owner, Name: "Dewi", PortalAccessID: portalID}, "")
	require.NoError(t, err)
	found, err := store.GetClientByPortalID(ctx, portalID)
	require.NoError(t, err)
	assert.Equal(t, "Dewi", found.Name)
}

func TestMemoryNotificationRepo(t *testing.T) {
	repo := NewMemoryNotificationRepo()
	ctx := context.Background()

	require.NoError(t, repo.InsertNotification(ctx, &Notification{ID: "NOTIF-1", UserID: "v", Seq: 1}))
	require.NoError(t, repo.InsertNotification(ctx, &Notification{ID: "NOTIF-2", UserID: "v", Seq: 2}))
	require.NoError(t, repo.InsertNotification(ctx, &Notification{ID: "NOTIF-3", UserID: "other", Seq: 3}))

	list, err := repo.ListNotifications(ctx, "v", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "NOTIF-2", list[0].ID)

	limited, err := repo.ListNotifications(ctx, "v", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, repo.MarkNotificationRead(ctx, "v", "NOTIF-1"))
	assert.ErrorIs(t, repo.MarkNotificationRead(ctx, "v", "NOTIF-3"), ErrNotFound)

	n, err := repo.MarkAllNotificationsRead(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSatisfactionFor(t *testing.T) {
	assert.Equal(t, SatisfactionVerySatisfied, SatisfactionFor(5))
	assert.Equal(t, SatisfactionSatisfied, SatisfactionFor(4))
	assert.Equal(t, SatisfactionNeutral, SatisfactionFor(3))
	assert.Equal(t, SatisfactionUnsatisfied, SatisfactionFor(2))
}

func TestProfileSettings(t *testing.T) {
	var missing *Profile
	assert.Equal(t, DefaultLocale, missing.Settings().Locale)

	s := (&Profile{BrandColor: "#000000", CompanyName: "Studio Cahaya", NotificationEmail: "halo@cahaya.id"}).Settings()
	assert.Equal(t, "#000000", s.BrandColor)
	assert.Equal(t, "Studio Cahaya", s.CompanyName)
	assert.Equal(t, "halo@cahaya.id", s.NotificationEmail)
	assert.True(t, s.NotificationSettings.NewProject)
}
