package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// BookingStores are the record tables a booking reads and writes.
type BookingStores struct {
	Packages     models.PackageRepo
	PromoCodes   models.PromoCodeRepo
	Clients      models.ClientRepo
	Projects     models.ProjectRepo
	Leads        models.LeadRepo
	Transactions models.TransactionRepo
	Profiles     models.ProfileRepo
}

type BookingService struct {
	stores   BookingStores
	ledger   models.BookingLedger
	notifier *Dispatcher
	logger   *slog.Logger
	now      func() time.Time
	inflight singleflight.Group
}

func NewBookingService(stores BookingStores, ledger models.BookingLedger, notifier *Dispatcher, logger *slog.Logger) *BookingService {
	if ledger == nil {
		ledger = models.NewMemoryBookingLedger(models.DefaultBookingLedgerTTL)
	}
	return &BookingService{
		stores:   stores,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

type BookingResult struct {
	Receipt  *models.BookingReceipt
	Replayed bool
}

type vendorCatalog struct {
	pkg        *models.Package
	addOns     []*models.AddOn
	promoCodes []*models.PromoCode
	settings   models.StudioSettings
}

func (s *BookingService) loadCatalog(ctx context.Context, vendorID, packageID uuid.UUID) (*vendorCatalog, error) {
	pkg, err := s.stores.Packages.GetPackage(ctx, packageID, vendorID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to load package: %w", err)
	}
	addOns, err := s.stores.Packages.ListAddOns(ctx, vendorID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load add-ons: %w", err)
	}
	promoCodes, err := s.stores.PromoCodes.ListActivePromoCodes(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load promo codes: %w", err)
	}

	var profile *models.Profile
	if s.stores.Profiles != nil {
		profile, err = s.stores.Profiles.GetProfile(ctx, vendorID, "")
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("failed to load vendor profile, using default settings", "vendor_id", vendorID, "error", err)
		}
	}

	return &vendorCatalog{
		pkg:        pkg,
		addOns:     addOns,
		promoCodes: promoCodes,
		settings:   profile.Settings(),
	}, nil
}

// Quote prices a selection the way SubmitBooking will.
func (s *BookingService) Quote(ctx context.Context, vendorID uuid.UUID, req *models.QuoteRequest) (*models.Quote, error) {
	if err := validateStruct(req, ErrInvalidBooking); err != nil {
		return nil, err
	}
	cat, err := s.loadCatalog(ctx, vendorID, req.PackageID)
	if err != nil {
		return nil, err
	}
	breakdown, promo := PriceBooking(cat.pkg, cat.addOns, req.SelectedAddOnIDs, cat.promoCodes, req.PromoCode, s.now(), cat.settings)
	return &models.Quote{
		Breakdown: breakdown,
		Promo:     promo,
		Display: map[string]string{
			"subtotal": helpers.FormatCurrency(breakdown.Subtotal, cat.settings.Locale, cat.settings.Currency),
			"discount": helpers.FormatCurrency(breakdown.Discount, cat.settings.Locale, cat.settings.Currency),
			"total":    helpers.FormatCurrency(breakdown.Total, cat.settings.Locale, cat.settings.Currency),
		},
	}, nil
}

// ValidateSubmission normalizes the contact fields in place and rejects bad
// input before any record is touched.
func ValidateSubmission(sub *models.BookingSubmission) error {
	if sub == nil {
		return &ValidationError{Kind: ErrInvalidBooking, Message: "empty submission"}
	}
	normalizeSubmission(sub)
	if err := validateStruct(sub, ErrInvalidBooking); err != nil {
		return err
	}
	if sub.Deposit.IsNegative() {
		return &ValidationError{Kind: ErrInvalidBooking, Fields: map[string]string{"dp": "gte"}, Message: "deposit must not be negative"}
	}
	if sub.Proof != nil {
		if _, err := helpers.DetectProofType(sub.Proof.Data); err != nil {
			msg := MsgProofType
			if errors.Is(err, helpers.ErrProofTooLarge) {
				msg = MsgProofTooLarge
			}
			return &ValidationError{Kind: ErrInvalidBooking, Fields: map[string]string{"dp_payment_proof": err.Error()}, Message: msg}
		}
	}
	return nil
}

func normalizeSubmission(sub *models.BookingSubmission) {
	sub.ClientName = helpers.StringTrim(sub.ClientName)
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	sub.Phone = strings.TrimSpace(sub.Phone)
	sub.Instagram = strings.TrimSpace(sub.Instagram)
	sub.ProjectType = strings.TrimSpace(sub.ProjectType)
	sub.Location = strings.TrimSpace(sub.Location)
	sub.Date = strings.TrimSpace(sub.Date)
	sub.DepositRef = strings.TrimSpace(sub.DepositRef)
}

// Fingerprint derives an idempotency key from the submission content, used
// when the caller did not send one.
func Fingerprint(vendorID uuid.UUID, sub *models.BookingSubmission) string {
	ids := make([]string, 0, len(sub.SelectedAddOnIDs))
	for _, id := range sub.SelectedAddOnIDs {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, part := range []string{
		vendorID.String(),
		sub.PackageID.String(),
		strings.ToLower(strings.TrimSpace(sub.Email)),
		strings.TrimSpace(sub.Phone),
		strings.TrimSpace(sub.ClientName),
		sub.Date,
		strings.TrimSpace(sub.Location),
		strings.Join(ids, ","),
		models.NormalizePromoCode(sub.PromoCode),
		sub.Deposit.String(),
		sub.DepositRef,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	if sub.Proof != nil {
		h.Write(sub.Proof.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SubmitBooking turns one submission into a client, project, converted lead
// and, when a deposit was paid, an income transaction. Submissions sharing an
// idempotency key produce one chain; later calls replay the first receipt.
func (s *BookingService) SubmitBooking(ctx context.Context, vendorID uuid.UUID, idempotencyKey string, sub *models.BookingSubmission) (*BookingResult, error) {
	if vendorID == uuid.Nil {
		return nil, &ValidationError{Kind: ErrInvalidBooking, Fields: map[string]string{"vendor_id": "required"}, Message: "unknown vendor"}
	}
	if err := ValidateSubmission(sub); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		key = Fingerprint(vendorID, sub)
	}

	// the write chain must not stop halfway because the caller went away
	writeCtx := context.WithoutCancel(ctx)

	// shared is true for the leader too once anyone joined, so track who ran
	ran := false
	v, err, _ := s.inflight.Do(vendorID.String()+":"+key, func() (interface{}, error) {
		ran = true
		return s.submitOnce(writeCtx, vendorID, key, sub)
	})
	if err != nil {
		return nil, err
	}
	res := v.(*BookingResult)
	if !ran {
		return &BookingResult{Receipt: res.Receipt, Replayed: true}, nil
	}
	return res, nil
}

func (s *BookingService) submitOnce(ctx context.Context, vendorID uuid.UUID, key string, sub *models.BookingSubmission) (*BookingResult, error) {
	ledgerOK := true
	receipt, err := s.ledger.Reserve(ctx, key)
	switch {
	case errors.Is(err, models.ErrBookingInProgress):
		return nil, ErrDuplicateBooking
	case err != nil:
		// fail open; the in-process guard still holds
		ledgerOK = false
		s.logger.Warn("booking ledger unavailable", "key", key, "error", err)
	case receipt != nil:
		s.logger.Info("replaying completed booking", "key", key, "project_id", receipt.Project.ID)
		return &BookingResult{Receipt: receipt, Replayed: true}, nil
	}

	receipt, err = s.runBooking(ctx, vendorID, key, sub)
	if err != nil {
		if ledgerOK {
			if relErr := s.ledger.Release(ctx, key); relErr != nil {
				s.logger.Warn("failed to release booking key", "key", key, "error", relErr)
			}
		}
		return nil, err
	}

	if ledgerOK {
		if err := s.ledger.Complete(ctx, key, receipt); err != nil {
			s.logger.Warn("failed to record booking receipt", "key", key, "error", err)
		}
	}
	return &BookingResult{Receipt: receipt}, nil
}

func (s *BookingService) runBooking(ctx context.Context, vendorID uuid.UUID, key string, sub *models.BookingSubmission) (*models.BookingReceipt, error) {
	cat, err := s.loadCatalog(ctx, vendorID, sub.PackageID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	breakdown, promo := PriceBooking(cat.pkg, cat.addOns, sub.SelectedAddOnIDs, cat.promoCodes, sub.PromoCode, now, cat.settings)
	status := ClassifyPayment(breakdown.Total, sub.Deposit)

	log := s.logger.With("vendor_id", vendorID, "key", key)

	var promoCodeID *uuid.UUID
	if promo.Applied && breakdown.Discount.IsPositive() {
		if err := s.stores.PromoCodes.UpdatePromoCodeUsage(ctx, *promo.PromoCodeID); err != nil {
			log.Error("promo code redemption failed", "promo_code_id", promo.PromoCodeID, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrPromoRedemption, err)
		}
		promoCodeID = promo.PromoCodeID
	}

	proofURI := ""
	if sub.Proof != nil {
		proofURI, err = helpers.ProofToDataURI(sub.Proof.Data)
		if err != nil {
			return nil, &ValidationError{Kind: ErrInvalidBooking, Fields: map[string]string{"dp_payment_proof": err.Error()}, Message: MsgProofType}
		}
	}

	var undo compensations
	fail := func(step string, err error) (*models.BookingReceipt, error) {
		log.Error("booking write failed", "step", step, "error", err)
		undo.run(ctx, log)
		return nil, fmt.Errorf("%w: %s: %v", ErrBookingWrite, step, err)
	}

	today := now.Format(time.DateOnly)

	client, err := s.stores.Clients.CreateClient(ctx, &models.Client{
		UserID:         vendorID,
		Name:           strings.TrimSpace(sub.ClientName),
		Email:          strings.TrimSpace(sub.Email),
		Phone:          strings.TrimSpace(sub.Phone),
		Whatsapp:       strings.TrimSpace(sub.Phone),
		Instagram:      strings.TrimSpace(sub.Instagram),
		ClientType:     models.ClientTypeDirect,
		Status:         models.ClientStatusActive,
		Since:          today,
		LastContact:    now,
		PortalAccessID: uuid.New(),
	}, "")
	if err != nil {
		return fail("create client", err)
	}
	undo.push("delete client", func(ctx context.Context) error {
		return s.stores.Clients.DeleteClient(ctx, client.ID, vendorID, "")
	})

	packageID := cat.pkg.ID
	project := &models.Project{
		UserID:        vendorID,
		ProjectName:   "Acara " + client.Name,
		ClientID:      client.ID,
		ClientName:    client.Name,
		ProjectType:   sub.ProjectType,
		PackageID:     &packageID,
		PackageName:   cat.pkg.Name,
		AddOns:        breakdown.AddOns,
		Date:          sub.Date,
		Location:      strings.TrimSpace(sub.Location),
		Progress:      0,
		Status:        models.ProjectStatusConfirmed,
		BookingStatus: models.BookingStatusNew,
		TotalCost:     breakdown.Total,
		AmountPaid:    sub.Deposit,
		PaymentStatus: status,
		Notes:         "Referensi Pembayaran DP: " + sub.DepositRef,
		PromoCodeID:   promoCodeID,
		DpProofURL:    proofURI,
	}
	if breakdown.Discount.IsPositive() {
		discount := breakdown.Discount
		project.DiscountAmount = &discount
	}
	project, err = s.stores.Projects.CreateProject(ctx, project, "")
	if err != nil {
		return fail("create project", err)
	}
	undo.push("delete project", func(ctx context.Context) error {
		return s.stores.Projects.DeleteProject(ctx, project.ID, vendorID, "")
	})

	lead, err := s.stores.Leads.CreateLead(ctx, &models.Lead{
		UserID:         vendorID,
		Name:           client.Name,
		ContactChannel: models.ContactChannelWebsite,
		Location:       project.Location,
		Status:         models.LeadStatusConverted,
		Date:           today,
		Notes:          "Dikonversi dari formulir booking. Klien ID: " + client.ID.String(),
		Whatsapp:       client.Whatsapp,
	}, "")
	if err != nil {
		return fail("create lead", err)
	}
	undo.push("delete lead", func(ctx context.Context) error {
		return s.stores.Leads.DeleteLead(ctx, lead.ID, vendorID, "")
	})

	var transactionID *uuid.UUID
	if sub.Deposit.IsPositive() {
		projectID := project.ID
		tx, err := s.stores.Transactions.CreateTransaction(ctx, &models.Transaction{
			UserID:      vendorID,
			Date:        today,
			Description: "DP Proyek " + project.ProjectName,
			Amount:      sub.Deposit,
			Type:        models.TransactionTypeIncome,
			ProjectID:   &projectID,
			Category:    models.TransactionCategoryDeposit,
			Method:      models.TransactionMethodTransfer,
		}, "")
		if err != nil {
			return fail("create transaction", err)
		}
		transactionID = &tx.ID
	}

	log.Info("booking created",
		"client_id", client.ID,
		"project_id", project.ID,
		"total", breakdown.Total.String(),
		"payment_status", status,
	)

	s.notifyBooked(ctx, cat.settings, vendorID, project, breakdown.Total)

	return &models.BookingReceipt{
		Key:           key,
		VendorID:      vendorID,
		Project:       project,
		ClientID:      client.ID,
		LeadID:        lead.ID,
		TransactionID: transactionID,
		CompletedAt:   now,
	}, nil
}

func (s *BookingService) notifyBooked(ctx context.Context, settings models.StudioSettings, vendorID uuid.UUID, project *models.Project, total decimal.Decimal) {
	if s.notifier == nil || !settings.NotificationSettings.NewProject {
		return
	}
	s.notifier.Notify(ctx, NotificationInput{
		UserID:    vendorID.String(),
		Title:     "Booking Baru",
		Message:   fmt.Sprintf("%s memesan %s (%s).", project.ClientName, project.PackageName, helpers.FormatCurrency(total, settings.Locale, settings.Currency)),
		Icon:      "booking",
		Link:      "/projects/" + project.ID.String(),
		Recipient: settings.NotificationEmail,
	})
}

type compensation struct {
	name string
	fn   func(ctx context.Context) error
}

// compensations undo completed writes, newest first.
type compensations []compensation

func (c *compensations) push(name string, fn func(ctx context.Context) error) {
	*c = append(*c, compensation{name: name, fn: fn})
}

func (c compensations) run(ctx context.Context, log *slog.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].fn(ctx); err != nil {
			log.Error("compensation failed", "step", c[i].name, "error", err)
			continue
		}
		log.Info("compensated", "step", c[i].name)
	}
}
