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
)

type LeadService struct {
	leadRepo models.LeadRepo
	notifier *Dispatcher
	profiles models.ProfileRepo
	logger   *slog.Logger
	now      func() time.Time
}

func NewLeadService(leadRepo models.LeadRepo, profiles models.ProfileRepo, notifier *Dispatcher, logger *slog.Logger) *LeadService {
	return &LeadService{
		leadRepo: leadRepo,
		profiles: profiles,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

var editableLeadFields = map[string]string{
	"name":            "required,min=2,max=120",
	"contact_channel": "oneof=Website WhatsApp Instagram Referensi Lainnya",
	"location":        "max=200",
	"status":          "oneof='Sedang Diskusi' 'Menunggu Follow Up' Dikonversi Ditolak",
	"date":            "datetime=2006-01-02",
	"notes":           "max=4000",
	"whatsapp":        "max=20",
}

// leadNotes formats the event details the way the studio reads them.
func leadNotes(form *models.LeadForm) string {
	date := form.EventDate
	if t, err := time.Parse(time.DateOnly, form.EventDate); err == nil {
		date = fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
	}
	return fmt.Sprintf("Jenis Acara: %s\nTanggal Acara: %s\nLokasi Acara: %s", form.EventType, date, form.EventLocation)
}

// SubmitLeadForm records a public enquiry for the vendor.
func (ls *LeadService) SubmitLeadForm(ctx context.Context, vendorID uuid.UUID, form *models.LeadForm) (*models.Lead, error) {
	if vendorID == uuid.Nil {
		return nil, &ValidationError{Fields: map[string]string{"vendor_id": "required"}, Message: "unknown vendor"}
	}
	if err := validateStruct(form, nil); err != nil {
		return nil, err
	}

	lead, err := ls.leadRepo.CreateLead(context.WithoutCancel(ctx), &models.Lead{
		UserID:         vendorID,
		Name:           helpers.StringTrim(form.Name),
		Whatsapp:       strings.TrimSpace(form.Whatsapp),
		ContactChannel: models.ContactChannelWebsite,
		Location:       strings.TrimSpace(form.EventLocation),
		Status:         models.LeadStatusDiscussion,
		Date:           ls.now().Format(time.DateOnly),
		Notes:          leadNotes(form),
	}, "")
	if err != nil {
		ls.logger.Error("failed to create lead", "vendor_id", vendorID, "error", err)
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	if ls.notifier != nil {
		var profile *models.Profile
		if ls.profiles != nil {
			profile, _ = ls.profiles.GetProfile(ctx, vendorID, "")
		}
		ls.notifier.Notify(ctx, NotificationInput{
			UserID:    vendorID.String(),
			Title:     "Prospek Baru",
			Message:   fmt.Sprintf("%s mengirim formulir untuk %s.", lead.Name, form.EventType),
			Icon:      "lead",
			Link:      "/leads/" + lead.ID.String(),
			Recipient: profile.Settings().NotificationEmail,
		})
	}
	return lead, nil
}

func (ls *LeadService) CreateLead(ctx context.Context, vendorID uuid.UUID, lead *models.Lead, accessToken string) (*models.Lead, error) {
	if err := validateStruct(lead, nil); err != nil {
		return nil, err
	}
	lead.UserID = vendorID
	if lead.Status == "" {
		lead.Status = models.LeadStatusDiscussion
	}
	if lead.Date == "" {
		lead.Date = ls.now().Format(time.DateOnly)
	}
	return ls.leadRepo.CreateLead(ctx, lead, accessToken)
}

func (ls *LeadService) ListLeads(ctx context.Context, vendorID uuid.UUID, accessToken string) ([]*models.Lead, error) {
	return ls.leadRepo.ListLeads(ctx, vendorID, accessToken)
}

func (ls *LeadService) UpdateLead(ctx context.Context, id, vendorID uuid.UUID, fields map[string]interface{}, accessToken string) (*models.Lead, error) {
	update, err := filterFields(fields, editableLeadFields)
	if err != nil {
		return nil, err
	}
	return ls.leadRepo.UpdateLead(ctx, id, vendorID, update, accessToken)
}

func (ls *LeadService) DeleteLead(ctx context.Context, id, vendorID uuid.UUID, accessToken string) error {
	return ls.leadRepo.DeleteLead(ctx, id, vendorID, accessToken)
}
