package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBrandColor = "#3b82f6"
	DefaultLocale     = "id-ID"
	DefaultCurrency   = "IDR"
)

type Profile struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	FullName         string    `json:"full_name" validate:"required,min=2,max=120"`
	Email            string    `json:"email" validate:"omitempty,email"`
	Phone            string    `json:"phone"`
	CompanyName      string    `json:"company_name"`
	Website          string    `json:"website"`
	Address          string    `json:"address"`
	BankAccount      string    `json:"bank_account"`
	AuthorizedSigner string    `json:"authorized_signer"`
	IDNumber         string    `json:"id_number"`
	Bio              string    `json:"bio"`
	BrandColor       string    `json:"brand_color" validate:"omitempty,hexcolor"`
	LogoBase64       string    `json:"logo_base64,omitempty"`
	// NotificationEmail receives booking alerts; empty disables delivery.
	NotificationEmail string    `json:"notification_email,omitempty" validate:"omitempty,email"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ProjectStatus struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	SubStatuses []string `json:"sub_statuses"`
	Note        string   `json:"note"`
}

type NotificationSettings struct {
	NewProject          bool `json:"new_project"`
	PaymentConfirmation bool `json:"payment_confirmation"`
	DeadlineReminder    bool `json:"deadline_reminder"`
}

type PublicPageConfig struct {
	Template     string `json:"template"`
	Title        string `json:"title"`
	Introduction string `json:"introduction"`
}

// StudioSettings is the per-vendor configuration the rest of the system
// reads instead of reaching into the profile directly.
type StudioSettings struct {
	Locale               string               `json:"locale"`
	Currency             string               `json:"currency"`
	BrandColor           string               `json:"brand_color"`
	CompanyName          string               `json:"company_name"`
	NotificationEmail    string               `json:"notification_email,omitempty"`
	IncomeCategories     []string             `json:"income_categories"`
	ExpenseCategories    []string             `json:"expense_categories"`
	ProjectTypes         []string             `json:"project_types"`
	EventTypes           []string             `json:"event_types"`
	AssetCategories      []string             `json:"asset_categories"`
	SOPCategories        []string             `json:"sop_categories"`
	ProjectStatuses      []ProjectStatus      `json:"project_statuses"`
	NotificationSettings NotificationSettings `json:"notification_settings"`
	PublicPage           PublicPageConfig     `json:"public_page"`
}

func DefaultStudioSettings() StudioSettings {
	return StudioSettings{
		Locale:            DefaultLocale,
		Currency:          DefaultCurrency,
		BrandColor:        DefaultBrandColor,
		IncomeCategories:  []string{TransactionCategoryDeposit, "Pelunasan", "Add-On", "Lainnya"},
		ExpenseCategories: []string{"Transportasi", "Akomodasi", "Peralatan", "Operasional", "Lainnya"},
		ProjectTypes:      []string{"Pernikahan", "Prewedding", "Engagement", "Birthday", "Corporate", "Lainnya"},
		EventTypes:        []string{"Meeting Klien", "Survey Lokasi", "Libur", "Workshop", "Lainnya"},
		AssetCategories:   []string{"Kamera", "Lensa", "Lighting", "Audio", "Aksesoris", "Lainnya"},
		SOPCategories:     []string{"Fotografi", "Videografi", "Editing", "Administrasi", "Umum"},
		ProjectStatuses: []ProjectStatus{
			{ID: "1", Name: ProjectStatusConfirmed, Color: DefaultBrandColor, SubStatuses: []string{}},
			{ID: "2", Name: "Dalam Proses", Color: "#8b5cf6", SubStatuses: []string{}},
			{ID: "3", Name: "Selesai", Color: "#10b981", SubStatuses: []string{}},
		},
		NotificationSettings: NotificationSettings{
			NewProject:          true,
			PaymentConfirmation: true,
			DeadlineReminder:    true,
		},
		PublicPage: PublicPageConfig{
			Template:     "classic",
			Title:        "Paket Layanan Kami",
			Introduction: "Pilih paket yang paling sesuai untuk acara Anda.",
		},
	}
}

// Settings derives the studio configuration for this vendor. A nil profile
// yields the defaults.
func (p *Profile) Settings() StudioSettings {
	s := DefaultStudioSettings()
	if p == nil {
		return s
	}
	if p.BrandColor != "" {
		s.BrandColor = p.BrandColor
	}
	s.CompanyName = p.CompanyName
	s.NotificationEmail = p.NotificationEmail
	return s
}

type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"required,min=2,max=120"`
	CompanyName string `json:"company_name" validate:"required,max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
