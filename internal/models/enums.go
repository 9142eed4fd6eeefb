package models

type PaymentStatus string

const (
	PaymentStatusUnpaid      PaymentStatus = "Belum Bayar"
	PaymentStatusDepositPaid PaymentStatus = "DP Terbayar"
	PaymentStatusPaid        PaymentStatus = "Lunas"
)

type ClientType string

const (
	ClientTypeDirect   ClientType = "Langsung"
	ClientTypeVendor   ClientType = "Vendor"
	ClientTypeReferral ClientType = "Referensi"
)

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "Aktif"
	ClientStatusInactive ClientStatus = "Tidak Aktif"
	ClientStatusLead     ClientStatus = "Prospek"
)

type LeadStatus string

const (
	LeadStatusDiscussion LeadStatus = "Sedang Diskusi"
	LeadStatusFollowUp   LeadStatus = "Menunggu Follow Up"
	LeadStatusConverted  LeadStatus = "Dikonversi"
	LeadStatusRejected   LeadStatus = "Ditolak"
)

type ContactChannel string

const (
	ContactChannelWebsite   ContactChannel = "Website"
	ContactChannelWhatsapp  ContactChannel = "WhatsApp"
	ContactChannelInstagram ContactChannel = "Instagram"
	ContactChannelReferral  ContactChannel = "Referensi"
	ContactChannelOther     ContactChannel = "Lainnya"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "Pemasukan"
	TransactionTypeExpense TransactionType = "Pengeluaran"
)

type BookingStatus string

const (
	BookingStatusNew       BookingStatus = "Baru"
	BookingStatusConfirmed BookingStatus = "Terkonfirmasi"
	BookingStatusRejected  BookingStatus = "Ditolak"
)

type SatisfactionLevel string

const (
	SatisfactionVerySatisfied SatisfactionLevel = "Sangat Puas"
	SatisfactionSatisfied     SatisfactionLevel = "Puas"
	SatisfactionNeutral       SatisfactionLevel = "Biasa Saja"
	SatisfactionUnsatisfied   SatisfactionLevel = "Tidak Puas"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// ProjectStatusConfirmed is the workflow status given to projects created from the public booking form.
const ProjectStatusConfirmed = "Dikonfirmasi"
