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
	"github.com/supabase-community/gotrue-go/types"
)

type UserService struct {
	userRepo    models.UserRepo
	profileRepo models.ProfileRepo
	logger      *slog.Logger
}

func NewUserService(userRepo models.UserRepo, profileRepo models.ProfileRepo, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// editableProfileFields are the profile columns a vendor may change.
var editableProfileFields = map[string]string{
	"full_name":          "required,min=2,max=120",
	"phone":              "max=30",
	"company_name":       "max=120",
	"website":            "omitempty,url",
	"address":            "max=300",
	"bank_account":       "max=120",
	"authorized_signer":  "max=120",
	"id_number":          "max=60",
	"bio":                "max=2000",
	"brand_color":        "omitempty,hexcolor",
	"logo_base64":        "",
	"notification_email": "omitempty,email",
}

// SignUp creates the auth account and its studio profile.
func (us *UserService) SignUp(ctx context.Context, req *models.SignupRequest) (*types.SignupResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = helpers.StringTrim(req.FullName)
	req.CompanyName = helpers.StringTrim(req.CompanyName)
	if err := validateStruct(req, nil); err != nil {
		return nil, err
	}
	if !helpers.IsPasswordStrong(req.Password) {
		return nil, fmt.Errorf("%w: password is not strong enough", ErrInvalidInput)
	}

	res, err := us.userRepo.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	userID := models.SignupUserID(res)
	if userID == uuid.Nil {
		return res, nil
	}
	_, err = us.profileRepo.CreateProfile(context.WithoutCancel(ctx), &models.Profile{
		UserID:            userID,
		FullName:          req.FullName,
		Email:             req.Email,
		CompanyName:       req.CompanyName,
		BrandColor:        models.DefaultBrandColor,
		NotificationEmail: req.Email,
	}, res.Session.AccessToken)
	if err != nil {
		// the account exists; the profile can be completed from the dashboard
		us.logger.Error("failed to create profile after signup", "user_id", userID, "error", err)
	}
	return res, nil
}

func (us *UserService) AuthenticateUser(ctx context.Context, req *models.LoginRequest) (*types.TokenResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req, nil); err != nil {
		return nil, err
	}
	response, err := us.userRepo.AuthenticateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %v", err)
	}
	return response, nil
}

func (us *UserService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	response, err := us.userRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return response, nil
}

func (us *UserService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return us.userRepo.Logout(ctx, accessToken)
}

type ProfileView struct {
	Profile  *models.Profile       `json:"profile"`
	Settings models.StudioSettings `json:"settings"`
}

func (us *UserService) GetProfile(ctx context.Context, userID uuid.UUID, accessToken string) (*ProfileView, error) {
	profile, err := us.profileRepo.GetProfile(ctx, userID, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &ProfileView{Profile: profile, Settings: profile.Settings()}, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*ProfileView, error) {
	update, err := filterFields(fields, editableProfileFields)
	if err != nil {
		return nil, err
	}
	update["updated_at"] = time.Now().UTC()

	profile, err := us.profileRepo.UpdateProfile(ctx, userID, update, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &ProfileView{Profile: profile, Settings: profile.Settings()}, nil
}

// filterFields keeps the allowed keys of a PATCH body and validates each value
// against its rule. Unknown keys are an error.
func filterFields(fields map[string]interface{}, allowed map[string]string) (map[string]interface{}, error) {
	if len(fields) == 0 {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	out := make(map[string]interface{}, len(fields))
	problems := map[string]string{}
	for key, value := range fields {
		rule, ok := allowed[key]
		if !ok {
			problems[key] = "not_editable"
			continue
		}
		if rule != "" {
			if err := models.Validate.Var(value, rule); err != nil {
				problems[key] = ruleOf(err)
				continue
			}
		}
		if s, ok := value.(string); ok {
			value = strings.TrimSpace(s)
		}
		out[key] = value
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Fields: problems, Message: "invalid fields"}
	}
	return out, nil
}

func ruleOf(err error) string {
	fields := validationFields(err)
	for _, rule := range fields {
		return rule
	}
	return "invalid"
}
