package helpers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

type TokenValidator interface {
	ValidateToken(tokenStr string) (*CustomClaims, error)
}

// JWTValidator checks Supabase access tokens against the project's JWKS, or
// against the shared HS256 secret for projects that still sign that way.
type JWTValidator struct {
	jwks   *keyfunc.JWKS
	secret []byte
}

// NewJWTValidator fetches the JWKS once and refreshes it in the background.
// A JWKS failure is tolerated when a secret is configured.
func NewJWTValidator(supabaseURL, jwtSecret string, logger *slog.Logger) (*JWTValidator, error) {
	v := &JWTValidator{}
	if jwtSecret != "" {
		v.secret = []byte(jwtSecret)
	}
	if supabaseURL == "" {
		if v.secret == nil {
			return nil, errors.New("SUPABASE_URL not set")
		}
		return v, nil
	}

	jwksURL := fmt.Sprintf("%s/auth/v1/.well-known/jwks.json", strings.TrimRight(supabaseURL, "/"))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("JWKS refresh failed", "error", err)
		},
	})
	if err != nil {
		if v.secret == nil {
			return nil, fmt.Errorf("failed to load JWKS: %v", err)
		}
		logger.Warn("JWKS unavailable, using shared secret only", "error", err)
		return v, nil
	}
	v.jwks = jwks
	return v, nil
}

func (v *JWTValidator) keyfunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		if v.secret == nil {
			return nil, errors.New("unexpected HMAC-signed token")
		}
		return v.secret, nil
	}
	if v.jwks == nil {
		return nil, errors.New("no JWKS loaded")
	}
	return v.jwks.Keyfunc(token)
}

func (v *JWTValidator) ValidateToken(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, v.keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func (v *JWTValidator) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	return hasLower && hasUpper && hasNumber
}

// StringTrim collapses internal whitespace and trims the ends.
func StringTrim(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func RemoveDuplicates(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
