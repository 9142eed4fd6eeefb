package services

import (
	"errors"
	"strings"
)

var (
	ErrInvalidBooking   = errors.New("invalid booking submission")
	ErrPromoRedemption  = errors.New("promo code could not be redeemed")
	ErrBookingWrite     = errors.New("booking could not be saved")
	ErrPackageNotFound  = errors.New("package not found")
	ErrDuplicateBooking = errors.New("booking is already being processed")
	ErrInvalidInput     = errors.New("invalid input")
)

// User-facing messages for the public forms.
const (
	MsgBookingFailed = "Terjadi kesalahan saat mengirim booking. Silakan coba lagi."
	MsgFormFailed    = "Terjadi kesalahan saat mengirim formulir. Silakan coba lagi."
	MsgProofTooLarge = "Ukuran file tidak boleh melebihi 10MB."
	MsgProofType     = "File bukti pembayaran harus berupa PNG, JPG, atau PDF."
	MsgBookingBusy   = "Booking Anda sedang diproses. Mohon tunggu sebentar."
)

// ValidationError lists the fields that failed validation. It matches Kind
// under errors.Is, or ErrInvalidInput when Kind is nil.
type ValidationError struct {
	Kind    error
	Fields  map[string]string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, problem := range e.Fields {
		parts = append(parts, field+" "+problem)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	if e.Kind != nil {
		return e.Kind
	}
	return ErrInvalidInput
}
