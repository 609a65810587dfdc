package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyapps/poly-schedule-api/internal/dto"
	"github.com/easyapps/poly-schedule-api/internal/models"
	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
)

type userRepoStub struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	created []*models.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (r *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (r *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (r *userRepoStub) Create(ctx context.Context, user *models.User) error {
	r.created = append(r.created, user)
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *userRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func testAuthService(repo *userRepoStub) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "poly-schedule-api",
	})
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	repo := newUserRepoStub()
	svc := testAuthService(repo)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "student@calpoly.edu",
		Password: "hunter2hunter2",
		FullName: "Test Student",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	res, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "student@calpoly.edu",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "student@calpoly.edu", claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newUserRepoStub()
	svc := testAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "student@calpoly.edu",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "student@calpoly.edu",
		Password: "another-password",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newUserRepoStub()
	svc := testAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "student@calpoly.edu",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "student@calpoly.edu",
		Password: "wrong-password",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	svc := testAuthService(newUserRepoStub())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@calpoly.edu",
		Password: "whatever-password",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	repo := newUserRepoStub()
	svc := testAuthService(repo)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "student@calpoly.edu",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	res, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "student@calpoly.edu",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{Secret: "different-secret", Expiration: time.Hour})
	_, err = other.ValidateToken(res.AccessToken)
	require.Error(t, err)
}
