package helpers

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// MaxProofBytes caps an uploaded proof of payment at 10 MiB.
const MaxProofBytes = 10 << 20

var (
	ErrProofTooLarge    = errors.New("proof file exceeds 10MB")
	ErrProofEmpty       = errors.New("proof file is empty")
	ErrProofUnsupported = errors.New("proof file must be png, jpeg or pdf")
)

var allowedProofTypes = []string{"image/png", "image/jpeg", "application/pdf"}

// DetectProofType sniffs the content and returns its MIME type when accepted.
func DetectProofType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrProofEmpty
	}
	if len(data) > MaxProofBytes {
		return "", ErrProofTooLarge
	}
	detected := mimetype.Detect(data)
	for _, allowed := range allowedProofTypes {
		if detected.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w: got %s", ErrProofUnsupported, detected.String())
}

// ProofToDataURI inlines a proof file as a base64 data URI.
func ProofToDataURI(data []byte) (string, error) {
	mime, err := DetectProofType(data)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
