package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"
)

type fakeUserRepo struct {
	userID    uuid.UUID
	signups   []*models.SignupRequest
	loginErr  error
	loggedOut []string
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, req *models.SignupRequest) (*types.SignupResponse, error) {
	f.signups = append(f.signups, req)
	res := &types.SignupResponse{}
	res.User.ID = f.userID
	res.Session.AccessToken = "signup-token"
	return res, nil
}

func (f *fakeUserRepo) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	res := &types.TokenResponse{}
	res.AccessToken = "access-" + email
	return res, nil
}

func (f *fakeUserRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	res := &types.TokenResponse{}
	res.AccessToken = "refreshed"
	return res, nil
}

func (f *fakeUserRepo) Logout(ctx context.Context, accessToken string) error {
	f.loggedOut = append(f.loggedOut, accessToken)
	return nil
}

func newUsers(t *testing.T) (*UserService, *fakeUserRepo, *models.MemoryStore) {
	t.Helper()
	repo := &fakeUserRepo{userID: uuid.New()}
	store := models.NewMemoryStore()
	return NewUserService(repo, store, testLogger()), repo, store
}

func TestSignUp_CreatesProfileWithDefaults(t *testing.T) {
	us, repo, _ := newUsers(t)
	ctx := context.Background()

	_, err := us.SignUp(ctx, &models.SignupRequest{
		Email:       "  Studio@Example.com ",
		Password:    "Rahasia123",
		FullName:    "Rina   Putri",
		CompanyName: "Lensa Studio",
	})
	require.NoError(t, err)
	require.Len(t, repo.signups, 1)
	assert.Equal(t, "studio@example.com", repo.signups[0].Email)

	view, err := us.GetProfile(ctx, repo.userID, "")
	require.NoError(t, err)
	assert.Equal(t, "Rina Putri", view.Profile.FullName)
	assert.Equal(t, "studio@example.com", view.Settings.NotificationEmail)
	assert.Equal(t, models.DefaultBrandColor, view.Settings.BrandColor)
	assert.Equal(t, models.DefaultLocale, view.Settings.Locale)
}

func TestSignUp_RejectsWeakPassword(t *testing.T) {
	us, repo, _ := newUsers(t)

	_, err := us.SignUp(context.Background(), &models.SignupRequest{
		Email:       "studio@example.com",
		Password:    "password",
		FullName:    "Rina Putri",
		CompanyName: "Lensa Studio",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, repo.signups)
}

func TestAuthenticateUser(t *testing.T) {
	us, repo, _ := newUsers(t)
	ctx := context.Background()

	res, err := us.AuthenticateUser(ctx, &models.LoginRequest{Email: " Studio@Example.com ", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "access-studio@example.com", res.AccessToken)

	repo.loginErr = errors.New("invalid login credentials")
	_, err = us.AuthenticateUser(ctx, &models.LoginRequest{Email: "studio@example.com", Password: "x"})
	assert.Error(t, err)

	_, err = us.RefreshToken(ctx, "")
	assert.Error(t, err)

	require.NoError(t, us.Logout(ctx, ""))
	require.NoError(t, us.Logout(ctx, "tok"))
	assert.Equal(t, []string{"tok"}, repo.loggedOut)
}

func TestUpdateProfile(t *testing.T) {
	us, _, store := newUsers(t)
	ctx := context.Background()
	vendorID := uuid.New()
	_, err := store.CreateProfile(ctx, &models.Profile{UserID: vendorID, FullName: "Rina Putri"}, "")
	require.NoError(t, err)

	view, err := us.UpdateProfile(ctx, vendorID, map[string]interface{}{
		"company_name": "  Lensa Studio ",
		"brand_color":  "#10b981",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Lensa Studio", view.Profile.CompanyName)
	assert.Equal(t, "#10b981", view.Settings.BrandColor)

	_, err = us.UpdateProfile(ctx, vendorID, map[string]interface{}{"brand_color": "blue"}, "")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "hexcolor", verr.Fields["brand_color"])

	_, err = us.UpdateProfile(ctx, vendorID, map[string]interface{}{"user_id": uuid.NewString()}, "")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "not_editable", verr.Fields["user_id"])

	_, err = us.UpdateProfile(ctx, uuid.New(), map[string]interface{}{"bio": "halo"}, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
