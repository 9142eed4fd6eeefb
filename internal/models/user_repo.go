package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
)

const profileColumns = "id,user_id,full_name,email,phone,company_name,website,address,bank_account,authorized_signer,id_number,bio,brand_color,logo_base64,notification_email,created_at,updated_at"

type UserRepo interface {
	CreateUser(ctx context.Context, req *SignupRequest) (*types.SignupResponse, error)
	AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

type ProfileRepo interface {
	CreateProfile(ctx context.Context, profile *Profile, accessToken string) (*Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID, accessToken string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Profile, error)
}

// SignupUserID returns the new account id whether or not autoconfirm issued a session.
func SignupUserID(res *types.SignupResponse) uuid.UUID {
	if res == nil {
		return uuid.Nil
	}
	if res.User.ID != uuid.Nil {
		return res.User.ID
	}
	return res.Session.User.ID
}

func (su *SupabaseRepo) CreateUser(ctx context.Context, req *SignupRequest) (*types.SignupResponse, error) {
	res, err := su.supabaseClient.Auth.Signup(types.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Data: map[string]interface{}{
			"full_name":    req.FullName,
			"company_name": req.CompanyName,
		},
	})
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(strings.ToLower(errMsg), "already registered") {
			return nil, fmt.Errorf("email already in use")
		}
		if strings.Contains(errMsg, "unique constraint") {
			return nil, fmt.Errorf("user already exists")
		}
		if strings.Contains(errMsg, "invalid input syntax") {
			return nil, fmt.Errorf("invalid input format")
		}
		return nil, fmt.Errorf("failed to create user")
	}
	return res, nil
}

func (su *SupabaseRepo) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %v", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %v", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) Logout(ctx context.Context, accessToken string) error {
	if err := su.supabaseClient.Auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("failed to logout: %v", err)
	}
	return nil
}

func (su *SupabaseRepo) CreateProfile(ctx context.Context, p *Profile, accessToken string) (*Profile, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	brandColor := p.BrandColor
	if brandColor == "" {
		brandColor = DefaultBrandColor
	}
	return insertRow[Profile](client, ProfilesTable, map[string]interface{}{
		"user_id":            p.UserID,
		"full_name":          p.FullName,
		"email":              p.Email,
		"phone":              p.Phone,
		"company_name":       p.CompanyName,
		"brand_color":        brandColor,
		"notification_email": p.NotificationEmail,
	})
}

func (su *SupabaseRepo) GetProfile(ctx context.Context, userID uuid.UUID, accessToken string) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	raw, status, err := client.From(ProfilesTable).
		Select(profileColumns, "", false).
		Eq("user_id", userID.String()).
		Execute()
	if err != nil {
		if status != 0 {
			return nil, fmt.Errorf("postgrest error: status=%d body=%s err=%v", status, string(raw), err)
		}
		return nil, fmt.Errorf("failed to get profile: %v", err)
	}
	return decodeSingle[Profile](raw)
}

func (su *SupabaseRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	return updateRow[Profile](client, ProfilesTable, fields, map[string]string{"user_id": userID.String()})
}
