package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storesOf(store *models.MemoryStore) BookingStores {
	return BookingStores{
		Packages:     store,
		PromoCodes:   store,
		Clients:      store,
		Projects:     store,
		Leads:        store,
		Transactions: store,
		Profiles:     store,
	}
}

type bookingFixture struct {
	ctx      context.Context
	vendorID uuid.UUID
	store    *models.MemoryStore
	notes    *models.MemoryNotificationRepo
	svc      *BookingService
	pkg      *models.Package
	album    *models.AddOn
	disc10   *models.PromoCode
	expired  *models.PromoCode
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	ctx := context.Background()
	f := &bookingFixture{
		ctx:      ctx,
		vendorID: uuid.New(),
		store:    models.NewMemoryStore(),
		notes:    models.NewMemoryNotificationRepo(),
	}

	var err error
	f.pkg, err = f.store.CreatePackage(ctx, &models.Package{UserID: f.vendorID, Name: "Paket Gold", Price: idr(5_000_000)}, "")
	require.NoError(t, err)
	f.album, err = f.store.CreateAddOn(ctx, &models.AddOn{UserID: f.vendorID, Name: "Album Tambahan", Price: idr(500_000)}, "")
	require.NoError(t, err)
	f.disc10, err = f.store.CreatePromoCode(ctx, &models.PromoCode{
		UserID:        f.vendorID,
		Code:          "DISC10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: idr(10),
		IsActive:      true,
		UsageCount:    2,
		MaxUsage:      intPtr(10),
	}, "")
	require.NoError(t, err)
	yesterday := pricingNow.Add(-24 * time.Hour)
	f.expired, err = f.store.CreatePromoCode(ctx, &models.PromoCode{
		UserID:        f.vendorID,
		Code:          "EXPIRED5",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: idr(5),
		IsActive:      true,
		ExpiryDate:    &yesterday,
	}, "")
	require.NoError(t, err)

	f.svc = f.newService(models.NewMemoryBookingLedger(time.Hour))
	return f
}

func (f *bookingFixture) newService(ledger models.BookingLedger) *BookingService {
	dispatcher := NewDispatcher(f.notes, LogMailer{Logger: testLogger()}, 8, testLogger())
	svc := NewBookingService(storesOf(f.store), ledger, dispatcher, testLogger())
	svc.now = func() time.Time { return pricingNow }
	return svc
}

func (f *bookingFixture) submission(promo string) *models.BookingSubmission {
	return &models.BookingSubmission{
		PackageID:        f.pkg.ID,
		ClientName:       "Dewi Lestari",
		Email:            "dewi@example.com",
		Phone:            "081234567890",
		ProjectType:      "Pernikahan",
		Location:         "Bandung",
		Date:             "2026-05-20",
		SelectedAddOnIDs: []uuid.UUID{f.album.ID},
		PromoCode:        promo,
		Deposit:          idr(1_000_000),
		DepositRef:       "TRX-889",
	}
}

func (f *bookingFixture) counts(t *testing.T) (clients, projects, leads, txs int) {
	t.Helper()
	c, err := f.store.ListClients(f.ctx, f.vendorID, "")
	require.NoError(t, err)
	p, err := f.store.ListProjects(f.ctx, f.vendorID, "")
	require.NoError(t, err)
	l, err := f.store.ListLeads(f.ctx, f.vendorID, "")
	require.NoError(t, err)
	x, err := f.store.ListTransactions(f.ctx, f.vendorID, "")
	require.NoError(t, err)
	return len(c), len(p), len(l), len(x)
}

func (f *bookingFixture) usage(t *testing.T, id uuid.UUID) int {
	t.Helper()
	promos, err := f.store.ListPromoCodes(f.ctx, f.vendorID, "")
	require.NoError(t, err)
	for _, p := range promos {
		if p.ID == id {
			return p.UsageCount
		}
	}
	t.Fatalf("promo %s not found", id)
	return 0
}

func TestSubmitBooking_WithPercentagePromo(t *testing.T) {
	f := newBookingFixture(t)

	res, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", f.submission("disc10"))
	require.NoError(t, err)
	assert.False(t, res.Replayed)

	project := res.Receipt.Project
	require.NotNil(t, project)
	assert.True(t, project.TotalCost.Equal(idr(4_950_000)), project.TotalCost.String())
	require.NotNil(t, project.DiscountAmount)
	assert.True(t, project.DiscountAmount.Equal(idr(550_000)))
	assert.Equal(t, models.PaymentStatusDepositPaid, project.PaymentStatus)
	assert.Equal(t, "Acara Dewi Lestari", project.ProjectName)
	assert.Equal(t, "Referensi Pembayaran DP: TRX-889", project.Notes)
	assert.Equal(t, models.ProjectStatusConfirmed, project.Status)
	require.NotNil(t, project.PromoCodeID)
	assert.Equal(t, f.disc10.ID, *project.PromoCodeID)
	require.Len(t, project.AddOns, 1)

	assert.Equal(t, 3, f.usage(t, f.disc10.ID))

	clients, projects, leads, txs := f.counts(t)
	assert.Equal(t, [4]int{1, 1, 1, 1}, [4]int{clients, projects, leads, txs})

	leadRows, _ := f.store.ListLeads(f.ctx, f.vendorID, "")
	assert.Equal(t, models.LeadStatusConverted, leadRows[0].Status)
	assert.Equal(t, "Dikonversi dari formulir booking. Klien ID: "+res.Receipt.ClientID.String(), leadRows[0].Notes)

	txRows, _ := f.store.ListTransactions(f.ctx, f.vendorID, "")
	assert.True(t, txRows[0].Amount.Equal(idr(1_000_000)))
	assert.Equal(t, models.TransactionTypeIncome, txRows[0].Type)
	assert.Equal(t, "DP Proyek Acara Dewi Lestari", txRows[0].Description)

	notes, err := f.notes.ListNotifications(f.ctx, f.vendorID.String(), 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Booking Baru", notes[0].Title)
	assert.False(t, notes[0].IsRead)
}

func TestSubmitBooking_ExpiredPromoChargesSubtotal(t *testing.T) {
	f := newBookingFixture(t)

	res, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", f.submission("EXPIRED5"))
	require.NoError(t, err)

	project := res.Receipt.Project
	assert.True(t, project.TotalCost.Equal(idr(5_500_000)))
	assert.Nil(t, project.DiscountAmount)
	assert.Nil(t, project.PromoCodeID)
	assert.Equal(t, 0, f.usage(t, f.expired.ID))
}

func TestSubmitBooking_NoDepositSkipsTransaction(t *testing.T) {
	f := newBookingFixture(t)
	sub := f.submission("")
	sub.Deposit = idr(0)

	res, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", sub)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusUnpaid, res.Receipt.Project.PaymentStatus)
	assert.Nil(t, res.Receipt.TransactionID)
	_, _, _, txs := f.counts(t)
	assert.Equal(t, 0, txs)
}

func TestSubmitBooking_ValidationBeforeWrites(t *testing.T) {
	f := newBookingFixture(t)
	writes := 0
	f.store.OnWrite = func(op string) error {
		writes++
		return nil
	}

	tests := []struct {
		name   string
		mutate func(*models.BookingSubmission)
	}{
		{"missing name", func(s *models.BookingSubmission) { s.ClientName = "" }},
		{"bad email", func(s *models.BookingSubmission) { s.Email = "not-an-email" }},
		{"bad date", func(s *models.BookingSubmission) { s.Date = "20/05/2026" }},
		{"negative deposit", func(s *models.BookingSubmission) { s.Deposit = idr(-1) }},
		{"proof too large", func(s *models.BookingSubmission) {
			s.Proof = &models.ProofFile{Filename: "big.png", Data: make([]byte, 10<<20+1)}
		}},
		{"proof wrong type", func(s *models.BookingSubmission) {
			s.Proof = &models.ProofFile{Filename: "notes.txt", Data: []byte("plain text, not an image")}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := f.submission("DISC10")
			tt.mutate(sub)
			_, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", sub)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidBooking)
		})
	}

	assert.Equal(t, 0, writes)
	assert.Equal(t, 2, f.usage(t, f.disc10.ID))
}

func TestSubmitBooking_ProofTooLargeMessage(t *testing.T) {
	f := newBookingFixture(t)
	sub := f.submission("")
	sub.Proof = &models.ProofFile{Filename: "big.png", Data: make([]byte, 10<<20+1)}

	_, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", sub)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, MsgProofTooLarge, verr.Message)
}

func TestSubmitBooking_UnknownPackage(t *testing.T) {
	f := newBookingFixture(t)
	sub := f.submission("")
	sub.PackageID = uuid.New()

	_, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", sub)
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestSubmitBooking_PromoFailureAbortsBeforeWrites(t *testing.T) {
	f := newBookingFixture(t)
	f.store.OnWrite = func(op string) error {
		if op == "update_promo_code_usage" {
			return errors.New("connection reset")
		}
		return nil
	}

	_, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", f.submission("DISC10"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPromoRedemption)

	clients, projects, leads, txs := f.counts(t)
	assert.Zero(t, clients+projects+leads+txs)
}

func TestSubmitBooking_ExhaustedDuringSubmit(t *testing.T) {
	f := newBookingFixture(t)
	f.store.OnWrite = func(op string) error {
		if op == "update_promo_code_usage" {
			return models.ErrPromoCodeExhausted
		}
		return nil
	}

	_, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", f.submission("DISC10"))
	assert.ErrorIs(t, err, ErrPromoRedemption)
	assert.ErrorContains(t, err, "usage limit")
}

func TestSubmitBooking_WriteFailureCompensates(t *testing.T) {
	f := newBookingFixture(t)
	f.store.OnWrite = func(op string) error {
		if op == "create_transaction" {
			return errors.New("insert timeout")
		}
		return nil
	}

	_, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", f.submission("DISC10"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookingWrite)

	clients, projects, leads, txs := f.counts(t)
	assert.Zero(t, clients+projects+leads+txs)
	// redeemed usage is kept; the promo is not refunded
	assert.Equal(t, 3, f.usage(t, f.disc10.ID))

	notes, _ := f.notes.ListNotifications(f.ctx, f.vendorID.String(), 0)
	assert.Empty(t, notes)
}

func TestSubmitBooking_FailedKeyCanRetry(t *testing.T) {
	f := newBookingFixture(t)
	fail := true
	f.store.OnWrite = func(op string) error {
		if op == "create_project" && fail {
			return errors.New("insert timeout")
		}
		return nil
	}

	_, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "retry-key", f.submission(""))
	require.ErrorIs(t, err, ErrBookingWrite)

	fail = false
	res, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "retry-key", f.submission(""))
	require.NoError(t, err)
	assert.False(t, res.Replayed)

	clients, projects, _, _ := f.counts(t)
	assert.Equal(t, 1, clients)
	assert.Equal(t, 1, projects)
}

func TestSubmitBooking_ReplaysCompletedKey(t *testing.T) {
	f := newBookingFixture(t)

	first, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "key-1", f.submission("DISC10"))
	require.NoError(t, err)
	second, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "key-1", f.submission("DISC10"))
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Receipt.Project.ID, second.Receipt.Project.ID)
	assert.Equal(t, 3, f.usage(t, f.disc10.ID))

	clients, projects, _, _ := f.counts(t)
	assert.Equal(t, 1, clients)
	assert.Equal(t, 1, projects)
}

func TestSubmitBooking_FingerprintWithoutKey(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", f.submission(""))
	require.NoError(t, err)
	again, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", f.submission(""))
	require.NoError(t, err)
	assert.True(t, again.Replayed)

	other := f.submission("")
	other.Email = "rina@example.com"
	res, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", other)
	require.NoError(t, err)
	assert.False(t, res.Replayed)

	clients, _, _, _ := f.counts(t)
	assert.Equal(t, 2, clients)
}

func TestSubmitBooking_ConcurrentDuplicatesCreateOneChain(t *testing.T) {
	f := newBookingFixture(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.store.OnWrite = func(op string) error {
		if op == "create_client" {
			once.Do(func() { close(started) })
			<-release
		}
		return nil
	}

	const n = 5
	results := make([]*BookingResult, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.SubmitBooking(f.ctx, f.vendorID, "double-click", f.submission("DISC10"))
		}(i)
	}

	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	fresh := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Receipt.Project.ID, results[i].Receipt.Project.ID)
		if !results[i].Replayed {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh, "only the caller that created the booking reports it as new")
	clients, projects, leads, txs := f.counts(t)
	assert.Equal(t, [4]int{1, 1, 1, 1}, [4]int{clients, projects, leads, txs})
	assert.Equal(t, 3, f.usage(t, f.disc10.ID))
}

func TestSubmitBooking_SharedLedgerRejectsInFlightDuplicate(t *testing.T) {
	f := newBookingFixture(t)
	ledger := models.NewMemoryBookingLedger(time.Hour)
	a := f.newService(ledger)
	b := f.newService(ledger)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.store.OnWrite = func(op string) error {
		if op == "create_client" {
			once.Do(func() { close(started) })
			<-release
		}
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := a.SubmitBooking(f.ctx, f.vendorID, "shared", f.submission(""))
		done <- err
	}()

	<-started
	_, err := b.SubmitBooking(f.ctx, f.vendorID, "shared", f.submission(""))
	assert.ErrorIs(t, err, ErrDuplicateBooking)

	close(release)
	require.NoError(t, <-done)

	replay, err := b.SubmitBooking(f.ctx, f.vendorID, "shared", f.submission(""))
	require.NoError(t, err)
	assert.True(t, replay.Replayed)
}

type brokenLedger struct{}

func (brokenLedger) Reserve(ctx context.Context, key string) (*models.BookingReceipt, error) {
	return nil, errors.New("redis: connection refused")
}
func (brokenLedger) Complete(ctx context.Context, key string, receipt *models.BookingReceipt) error {
	return errors.New("redis: connection refused")
}
func (brokenLedger) Release(ctx context.Context, key string) error {
	return errors.New("redis: connection refused")
}

func TestSubmitBooking_LedgerOutageFailsOpen(t *testing.T) {
	f := newBookingFixture(t)
	svc := f.newService(brokenLedger{})

	res, err := svc.SubmitBooking(f.ctx, f.vendorID, "k", f.submission(""))
	require.NoError(t, err)
	assert.NotNil(t, res.Receipt.Project)
}

func TestQuote(t *testing.T) {
	f := newBookingFixture(t)

	quote, err := f.svc.Quote(f.ctx, f.vendorID, &models.QuoteRequest{
		PackageID:        f.pkg.ID,
		SelectedAddOnIDs: []uuid.UUID{f.album.ID},
		PromoCode:        "DISC10",
	})
	require.NoError(t, err)

	assert.True(t, quote.Breakdown.Total.Equal(idr(4_950_000)))
	assert.Equal(t, models.FeedbackSuccess, quote.Promo.FeedbackKind)
	assert.Equal(t, "Rp 4.950.000", quote.Display["total"])
	assert.Equal(t, "Rp 550.000", quote.Display["discount"])
	// quoting never redeems
	assert.Equal(t, 2, f.usage(t, f.disc10.ID))
}

func TestFingerprint_IgnoresAddOnOrderAndCase(t *testing.T) {
	f := newBookingFixture(t)
	other := uuid.New()

	a := f.submission("disc10")
	a.SelectedAddOnIDs = []uuid.UUID{f.album.ID, other}
	b := f.submission("DISC10")
	b.SelectedAddOnIDs = []uuid.UUID{other, f.album.ID}
	b.Email = "DEWI@example.com"

	assert.Equal(t, Fingerprint(f.vendorID, a), Fingerprint(f.vendorID, b))

	b.Deposit = idr(2_000_000)
	assert.NotEqual(t, Fingerprint(f.vendorID, a), Fingerprint(f.vendorID, b))
}

func TestSubmitBooking_TrimsContactFieldsBeforeValidation(t *testing.T) {
	f := newBookingFixture(t)
	sub := f.submission("")
	sub.Email = "  Dewi@Example.com "
	sub.ClientName = " Dewi   Lestari "
	sub.Phone = " 081234567890 "

	res, err := f.svc.SubmitBooking(f.ctx, f.vendorID, "", sub)
	require.NoError(t, err)
	assert.False(t, res.Replayed)

	clients, err := f.store.ListClients(f.ctx, f.vendorID, "")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "dewi@example.com", clients[0].Email)
	assert.Equal(t, "Dewi Lestari", clients[0].Name)
	assert.Equal(t, "081234567890", clients[0].Phone)
	assert.Equal(t, "Acara Dewi Lestari", res.Receipt.Project.ProjectName)
}
