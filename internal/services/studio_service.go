package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/shopspring/decimal"
)

// StudioService backs the vendor dashboard and the public catalog.
type StudioService struct {
	packages     models.PackageRepo
	promoCodes   models.PromoCodeRepo
	clients      models.ClientRepo
	projects     models.ProjectRepo
	transactions models.TransactionRepo
	uploader     helpers.ImageUploader
	logger       *slog.Logger
	now          func() time.Time
}

func NewStudioService(stores BookingStores, uploader helpers.ImageUploader, logger *slog.Logger) *StudioService {
	return &StudioService{
		packages:     stores.Packages,
		promoCodes:   stores.PromoCodes,
		clients:      stores.Clients,
		projects:     stores.Projects,
		transactions: stores.Transactions,
		uploader:     uploader,
		logger:       logger,
		now:          time.Now,
	}
}

var (
	editableClientFields = map[string]string{
		"name":         "required,min=2,max=120",
		"email":        "omitempty,email",
		"phone":        "max=20",
		"whatsapp":     "max=20",
		"instagram":    "max=60",
		"client_type":  "oneof=Langsung Vendor Referensi",
		"status":       "oneof=Aktif 'Tidak Aktif' Prospek",
		"last_contact": "",
	}
	editablePackageFields = map[string]string{
		"name":            "required,min=2,max=120",
		"price":           "",
		"processing_time": "max=60",
		"photographers":   "max=60",
		"videographers":   "max=60",
		"physical_items":  "",
		"digital_items":   "",
		"cover_image":     "",
	}
	editableProjectFields = map[string]string{
		"project_name":     "required,min=2,max=160",
		"project_type":     "max=60",
		"date":             "datetime=2006-01-02",
		"location":         "max=200",
		"progress":         "gte=0,lte=100",
		"status":           "max=60",
		"booking_status":   "oneof=Baru Terkonfirmasi Ditolak",
		"notes":            "max=4000",
		"rejection_reason": "max=400",
		"amount_paid":      "",
		"total_cost":       "",
	}
)

// PublicCatalog is what the booking page shows for a vendor.
func (ss *StudioService) PublicCatalog(ctx context.Context, vendorID uuid.UUID) (*models.Catalog, error) {
	pkgs, err := ss.packages.ListPackages(ctx, vendorID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get packages: %w", err)
	}
	addOns, err := ss.packages.ListAddOns(ctx, vendorID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get add-ons: %w", err)
	}
	return &models.Catalog{Packages: pkgs, AddOns: addOns}, nil
}

// Portal resolves a client portal link to the client and their projects.
func (ss *StudioService) Portal(ctx context.Context, accessID uuid.UUID) (*models.PortalView, error) {
	client, err := ss.clients.GetClientByPortalID(ctx, accessID)
	if err != nil {
		return nil, err
	}
	projects, err := ss.projects.ListProjectsByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client projects: %w", err)
	}
	for _, p := range projects {
		// internal artefacts stay in the dashboard
		p.DpProofURL = ""
		p.Notes = ""
	}
	return &models.PortalView{Client: client, Projects: projects}, nil
}

func (ss *StudioService) CreateClient(ctx context.Context, vendorID uuid.UUID, client *models.Client, accessToken string) (*models.Client, error) {
	if err := validateStruct(client, nil); err != nil {
		return nil, err
	}
	now := ss.now()
	client.UserID = vendorID
	client.Name = helpers.StringTrim(client.Name)
	if client.ClientType == "" {
		client.ClientType = models.ClientTypeDirect
	}
	if client.Status == "" {
		client.Status = models.ClientStatusActive
	}
	if client.Since == "" {
		client.Since = now.Format(time.DateOnly)
	}
	if client.LastContact.IsZero() {
		client.LastContact = now
	}
	client.PortalAccessID = uuid.New()
	return ss.clients.CreateClient(ctx, client, accessToken)
}

func (ss *StudioService) ListClients(ctx context.Context, vendorID uuid.UUID, accessToken string) ([]*models.Client, error) {
	return ss.clients.ListClients(ctx, vendorID, accessToken)
}

func (ss *StudioService) UpdateClient(ctx context.Context, id, vendorID uuid.UUID, fields map[string]interface{}, accessToken string) (*models.Client, error) {
	update, err := filterFields(fields, editableClientFields)
	if err != nil {
		return nil, err
	}
	return ss.clients.UpdateClient(ctx, id, vendorID, update, accessToken)
}

func (ss *StudioService) DeleteClient(ctx context.Context, id, vendorID uuid.UUID, accessToken string) error {
	return ss.clients.DeleteClient(ctx, id, vendorID, accessToken)
}

// uploadCover moves an inline cover image to Cloudinary. Hosted URLs pass through.
func (ss *StudioService) uploadCover(ctx context.Context, cover string) (string, error) {
	if cover == "" || helpers.IsRemoteURL(cover) || ss.uploader == nil {
		return cover, nil
	}
	url, err := ss.uploader.UploadImage(ctx, cover, helpers.PackageCoverFolder)
	if err != nil {
		return "", fmt.Errorf("failed to upload cover image: %w", err)
	}
	return url, nil
}

func validatePrices(fields map[string]string, named map[string]decimal.Decimal) {
	for name, v := range named {
		if v.IsNegative() {
			fields[name] = "gte"
		}
	}
}

func (ss *StudioService) CreatePackage(ctx context.Context, vendorID uuid.UUID, pkg *models.Package, accessToken string) (*models.Package, error) {
	if err := validateStruct(pkg, nil); err != nil {
		return nil, err
	}
	problems := map[string]string{}
	validatePrices(problems, map[string]decimal.Decimal{"price": pkg.Price})
	for i, item := range pkg.PhysicalItems {
		validatePrices(problems, map[string]decimal.Decimal{fmt.Sprintf("physical_items[%d].price", i): item.Price})
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Fields: problems, Message: "prices must not be negative"}
	}

	cover, err := ss.uploadCover(ctx, pkg.CoverImage)
	if err != nil {
		return nil, err
	}
	pkg.CoverImage = cover
	pkg.UserID = vendorID
	pkg.Name = helpers.StringTrim(pkg.Name)
	pkg.DigitalItems = helpers.RemoveDuplicates(pkg.DigitalItems)
	return ss.packages.CreatePackage(ctx, pkg, accessToken)
}

func (ss *StudioService) ListPackages(ctx context.Context, vendorID uuid.UUID, accessToken string) ([]*models.Package, error) {
	return ss.packages.ListPackages(ctx, vendorID, accessToken)
}

func (ss *StudioService) UpdatePackage(ctx context.Context, id, vendorID uuid.UUID, fields map[string]interface{}, accessToken string) (*models.Package, error) {
	update, err := filterFields(fields, editablePackageFields)
	if err != nil {
		return nil, err
	}
	if raw, ok := update["price"]; ok {
		price, err := parseAmount(raw)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{"price": "gte"}, Message: "invalid price"}
		}
		update["price"] = price
	}
	if raw, ok := update["cover_image"].(string); ok {
		cover, err := ss.uploadCover(ctx, raw)
		if err != nil {
			return nil, err
		}
		update["cover_image"] = cover
	}
	return ss.packages.UpdatePackage(ctx, id, vendorID, update, accessToken)
}

func (ss *StudioService) DeletePackage(ctx context.Context, id, vendorID uuid.UUID, accessToken string) error {
	return ss.packages.DeletePackage(ctx, id, vendorID, accessToken)
}

func (ss *StudioService) CreateAddOn(ctx context.Context, vendorID uuid.UUID, addOn *models.AddOn, accessToken string) (*models.AddOn, error) {
	if err := validateStruct(addOn, nil); err != nil {
		return nil, err
	}
	if addOn.Price.IsNegative() {
		return nil, &ValidationError{Fields: map[string]string{"price": "gte"}, Message: "price must not be negative"}
	}
	addOn.UserID = vendorID
	addOn.Name = helpers.StringTrim(addOn.Name)
	return ss.packages.CreateAddOn(ctx, addOn, accessToken)
}

func (ss *StudioService) ListAddOns(ctx context.Context, vendorID uuid.UUID, accessToken string) ([]*models.AddOn, error) {
	return ss.packages.ListAddOns(ctx, vendorID, accessToken)
}

func (ss *StudioService) DeleteAddOn(ctx context.Context, id, vendorID uuid.UUID, accessToken string) error {
	return ss.packages.DeleteAddOn(ctx, id, vendorID, accessToken)
}

func (ss *StudioService) ListProjects(ctx context.Context, vendorID uuid.UUID, accessToken string) ([]*models.Project, error) {
	return ss.projects.ListProjects(ctx, vendorID, accessToken)
}

// UpdateProject re-derives the payment status whenever an amount changes.
func (ss *StudioService) UpdateProject(ctx context.Context, id, vendorID uuid.UUID, fields map[string]interface{}, accessToken string) (*models.Project, error) {
	update, err := filterFields(fields, editableProjectFields)
	if err != nil {
		return nil, err
	}
	_, paidChanged := update["amount_paid"]
	_, totalChanged := update["total_cost"]
	if paidChanged || totalChanged {
		current, err := ss.findProject(ctx, id, vendorID, accessToken)
		if err != nil {
			return nil, err
		}
		total, paid := current.TotalCost, current.AmountPaid
		if paidChanged {
			if paid, err = parseAmount(update["amount_paid"]); err != nil {
				return nil, &ValidationError{Fields: map[string]string{"amount_paid": "gte"}, Message: "invalid amount"}
			}
			update["amount_paid"] = paid
		}
		if totalChanged {
			if total, err = parseAmount(update["total_cost"]); err != nil {
				return nil, &ValidationError{Fields: map[string]string{"total_cost": "gte"}, Message: "invalid amount"}
			}
			update["total_cost"] = total
		}
		update["payment_status"] = ClassifyPayment(total, paid)
	}
	return ss.projects.UpdateProject(ctx, id, vendorID, update, accessToken)
}

func (ss *StudioService) findProject(ctx context.Context, id, vendorID uuid.UUID, accessToken string) (*models.Project, error) {
	projects, err := ss.projects.ListProjects(ctx, vendorID, accessToken)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

// parseAmount accepts the number or numeric string a PATCH body carries.
func parseAmount(raw interface{}) (decimal.Decimal, error) {
	var v decimal.Decimal
	switch n := raw.(type) {
	case float64:
		v = decimal.NewFromFloat(n)
	case int:
		v = decimal.NewFromInt(int64(n))
	case decimal.Decimal:
		v = n
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, err
		}
		v = parsed
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount %T", raw)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount")
	}
	return v, nil
}

func (ss *StudioService) DeleteProject(ctx context.Context, id, vendorID uuid.UUID, accessToken string) error {
	return ss.projects.DeleteProject(ctx, id, vendorID, accessToken)
}

func (ss *StudioService) CreateTransaction(ctx context.Context, vendorID uuid.UUID, tx *models.Transaction, accessToken string) (*models.Transaction, error) {
	if err := validateStruct(tx, nil); err != nil {
		return nil, err
	}
	if !tx.Amount.IsPositive() {
		return nil, &ValidationError{Fields: map[string]string{"amount": "gt"}, Message: "amount must be positive"}
	}
	tx.UserID = vendorID
	if tx.Method == "" {
		tx.Method = models.TransactionMethodTransfer
	}
	return ss.transactions.CreateTransaction(ctx, tx, accessToken)
}

func (ss *StudioService) ListTransactions(ctx context.Context, vendorID uuid.UUID, accessToken string) ([]*models.Transaction, error) {
	return ss.transactions.ListTransactions(ctx, vendorID, accessToken)
}

func (ss *StudioService) CreatePromoCode(ctx context.Context, vendorID uuid.UUID, promo *models.PromoCode, accessToken string) (*models.PromoCode, error) {
	promo.Code = models.NormalizePromoCode(promo.Code)
	if err := validateStruct(promo, nil); err != nil {
		return nil, err
	}
	switch promo.DiscountType {
	case models.DiscountTypePercentage:
		if promo.DiscountValue.IsNegative() || promo.DiscountValue.GreaterThan(hundred) {
			return nil, &ValidationError{Fields: map[string]string{"discount_value": "between_0_100"}, Message: "percentage must be between 0 and 100"}
		}
	case models.DiscountTypeFixed:
		if promo.DiscountValue.IsNegative() {
			return nil, &ValidationError{Fields: map[string]string{"discount_value": "gte"}, Message: "fixed discount must not be negative"}
		}
	}
	if promo.MaxUsage != nil && *promo.MaxUsage < 1 {
		return nil, &ValidationError{Fields: map[string]string{"max_usage": "gte"}, Message: "max usage must be at least 1"}
	}

	existing, err := ss.promoCodes.ListPromoCodes(ctx, vendorID, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check promo codes: %w", err)
	}
	for _, p := range existing {
		if strings.EqualFold(p.Code, promo.Code) {
			return nil, &ValidationError{Fields: map[string]string{"code": "unique"}, Message: "promo code already exists"}
		}
	}

	promo.UserID = vendorID
	promo.UsageCount = 0
	return ss.promoCodes.CreatePromoCode(ctx, promo, accessToken)
}

func (ss *StudioService) ListPromoCodes(ctx context.Context, vendorID uuid.UUID, accessToken string) ([]*models.PromoCode, error) {
	return ss.promoCodes.ListPromoCodes(ctx, vendorID, accessToken)
}

func (ss *StudioService) DeletePromoCode(ctx context.Context, id, vendorID uuid.UUID, accessToken string) error {
	return ss.promoCodes.DeletePromoCode(ctx, id, vendorID, accessToken)
}
