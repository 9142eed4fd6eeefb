package models

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type PackageRepo interface {
	CreatePackage(ctx context.Context, pkg *Package, accessToken string) (*Package, error)
	ListPackages(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Package, error)
	GetPackage(ctx context.Context, id, userID uuid.UUID) (*Package, error)
	UpdatePackage(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Package, error)
	DeletePackage(ctx context.Context, id, userID uuid.UUID, accessToken string) error
	CreateAddOn(ctx context.Context, addOn *AddOn, accessToken string) (*AddOn, error)
	ListAddOns(ctx context.Context, userID uuid.UUID, accessToken string) ([]*AddOn, error)
	DeleteAddOn(ctx context.Context, id, userID uuid.UUID, accessToken string) error
}

type PromoCodeRepo interface {
	CreatePromoCode(ctx context.Context, promo *PromoCode, accessToken string) (*PromoCode, error)
	ListPromoCodes(ctx context.Context, userID uuid.UUID, accessToken string) ([]*PromoCode, error)
	// ListActivePromoCodes is the public, unauthenticated catalog read.
	ListActivePromoCodes(ctx context.Context, userID uuid.UUID) ([]*PromoCode, error)
	// UpdatePromoCodeUsage increments usage_count by exactly one.
	UpdatePromoCodeUsage(ctx context.Context, id uuid.UUID) error
	DeletePromoCode(ctx context.Context, id, userID uuid.UUID, accessToken string) error
}

const (
	packageColumns   = "id,user_id,name,price,processing_time,photographers,videographers,physical_items,digital_items,cover_image,created_at"
	addOnColumns     = "id,user_id,name,price,created_at"
	promoCodeColumns = "id,user_id,code,discount_type,discount_value,is_active,usage_count,max_usage,expiry_date,created_at"
	usageRetries     = 3
)

func (su *SupabaseRepo) CreatePackage(ctx context.Context, pkg *Package, accessToken string) (*Package, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	physical := pkg.PhysicalItems
	if physical == nil {
		physical = []PhysicalItem{}
	}
	digital := pkg.DigitalItems
	if digital == nil {
		digital = []string{}
	}
	return insertRow[Package](client, PackagesTable, map[string]interface{}{
		"user_id":         pkg.UserID,
		"name":            pkg.Name,
		"price":           pkg.Price,
		"processing_time": pkg.ProcessingTime,
		"photographers":   pkg.Photographers,
		"videographers":   pkg.Videographers,
		"physical_items":  physical,
		"digital_items":   digital,
		"cover_image":     pkg.CoverImage,
	})
}

func (su *SupabaseRepo) ListPackages(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Package, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	raw, _, err := client.From(PackagesTable).
		Select(packageColumns, "", false).
		Eq("user_id", userID.String()).
		Order("created_at", newestFirst()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get packages: %v", err)
	}
	return decodeRows[Package](raw)
}

func (su *SupabaseRepo) GetPackage(ctx context.Context, id, userID uuid.UUID) (*Package, error) {
	client, err := su.clientFor("")
	if err != nil {
		return nil, err
	}
	raw, _, err := client.From(PackagesTable).
		Select(packageColumns, "", false).
		Eq("id", id.String()).
		Eq("user_id", userID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get package: %v", err)
	}
	return decodeSingle[Package](raw)
}

func (su *SupabaseRepo) UpdatePackage(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Package, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	return updateRow[Package](client, PackagesTable, fields, map[string]string{
		"id":      id.String(),
		"user_id": userID.String(),
	})
}

func (su *SupabaseRepo) DeletePackage(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return err
	}
	return deleteRow(client, PackagesTable, map[string]string{"id": id.String(), "user_id": userID.String()})
}

func (su *SupabaseRepo) CreateAddOn(ctx context.Context, addOn *AddOn, accessToken string) (*AddOn, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	return insertRow[AddOn](client, AddOnsTable, map[string]interface{}{
		"user_id": addOn.UserID,
		"name":    addOn.Name,
		"price":   addOn.Price,
	})
}

func (su *SupabaseRepo) ListAddOns(ctx context.Context, userID uuid.UUID, accessToken string) ([]*AddOn, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	raw, _, err := client.From(AddOnsTable).
		Select(addOnColumns, "", false).
		Eq("user_id", userID.String()).
		Order("created_at", newestFirst()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get add-ons: %v", err)
	}
	return decodeRows[AddOn](raw)
}

func (su *SupabaseRepo) DeleteAddOn(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return err
	}
	return deleteRow(client, AddOnsTable, map[string]string{"id": id.String(), "user_id": userID.String()})
}

func (su *SupabaseRepo) CreatePromoCode(ctx context.Context, promo *PromoCode, accessToken string) (*PromoCode, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	row := map[string]interface{}{
		"user_id":        promo.UserID,
		"code":           promo.Code,
		"discount_type":  promo.DiscountType,
		"discount_value": promo.DiscountValue,
		"is_active":      promo.IsActive,
		"usage_count":    0,
		"max_usage":      promo.MaxUsage,
	}
	if promo.ExpiryDate != nil {
		row["expiry_date"] = promo.ExpiryDate.UTC().Format(time.RFC3339)
	}
	return insertRow[PromoCode](client, PromoCodesTable, row)
}

func (su *SupabaseRepo) ListPromoCodes(ctx context.Context, userID uuid.UUID, accessToken string) ([]*PromoCode, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	raw, _, err := client.From(PromoCodesTable).
		Select(promoCodeColumns, "", false).
		Eq("user_id", userID.String()).
		Order("created_at", newestFirst()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get promo codes: %v", err)
	}
	return decodeRows[PromoCode](raw)
}

func (su *SupabaseRepo) ListActivePromoCodes(ctx context.Context, userID uuid.UUID) ([]*PromoCode, error) {
	client, err := su.clientFor("")
	if err != nil {
		return nil, err
	}
	raw, _, err := client.From(PromoCodesTable).
		Select(promoCodeColumns, "", false).
		Eq("user_id", userID.String()).
		Eq("is_active", "true").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get public promo codes: %v", err)
	}
	return decodeRows[PromoCode](raw)
}

// UpdatePromoCodeUsage bumps the counter with a compare-and-swap on the value
// read, so two redemptions racing on the same code never collapse into one.
func (su *SupabaseRepo) UpdatePromoCodeUsage(ctx context.Context, id uuid.UUID) error {
	client, err := su.clientFor("")
	if err != nil {
		return err
	}

	for attempt := 0; attempt < usageRetries; attempt++ {
		raw, _, err := client.From(PromoCodesTable).
			Select(promoCodeColumns, "", false).
			Eq("id", id.String()).
			Execute()
		if err != nil {
			return fmt.Errorf("failed to read promo code usage: %v", err)
		}
		current, err := decodeSingle[PromoCode](raw)
		if err != nil {
			return err
		}
		if current.IsMaxedOut() {
			return ErrPromoCodeExhausted
		}

		raw, _, err = client.From(PromoCodesTable).
			Update(map[string]interface{}{"usage_count": current.UsageCount + 1}, "representation", "exact").
			Eq("id", id.String()).
			Eq("usage_count", strconv.Itoa(current.UsageCount)).
			Execute()
		if err != nil {
			return fmt.Errorf("failed to update promo code usage: %v", err)
		}
		updated, err := decodeRows[PromoCode](raw)
		if err != nil {
			return err
		}
		if len(updated) == 1 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return ErrPromoCodeContended
}

func (su *SupabaseRepo) DeletePromoCode(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return err
	}
	return deleteRow(client, PromoCodesTable, map[string]string{"id": id.String(), "user_id": userID.String()})
}
