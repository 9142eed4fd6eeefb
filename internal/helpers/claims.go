package helpers

import "github.com/google/uuid"

// EnhancedClaims is the authenticated vendor as seen by handlers.
type EnhancedClaims struct {
	*CustomClaims
	UserID      string `json:"id"`
	Email       string `json:"email,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	AccessToken string `json:"-"`
}

func (ec *EnhancedClaims) VendorID() (uuid.UUID, error) {
	return uuid.Parse(ec.UserID)
}
