package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunride/ride-backend/internal/models"
	"github.com/tunride/ride-backend/pkg/jwt"
	phonevalidator "github.com/tunride/ride-backend/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type staticApproval bool

func (a staticApproval) DefaultDriverApproval(context.Context) bool { return bool(a) }

func setupAccountService(approval ApprovalPolicy) (*AccountService, *memAccounts, *memProfiles, *jwt.Service) {
	profiles := newMemProfiles()
	accounts := newMemAccounts(profiles)
	tokens := jwt.NewService("test-secret", time.Hour, 24*time.Hour)
	svc := NewAccountService(accounts, profiles, tokens, approval, phonevalidator.NewPhoneValidator(), bcrypt.MinCost, testLogger())
	return svc, accounts, profiles, tokens
}

func TestSignUp_ConfirmAndSignIn(t *testing.T) {
	svc, accounts, _, tokens := setupAccountService(staticApproval(true))
	ctx := context.Background()

	result, err := svc.SignUp(ctx, models.SignUpRequest{
		Email:    "  Amel@Example.TN ",
		Password: "s3cret-pass",
		FullName: "Amel Ben Salah",
		Phone:    "+216 22 123 456",
	})
	require.NoError(t, err)
	assert.Equal(t, "amel@example.tn", result.Profile.Email)
	assert.Equal(t, "22123456", result.Profile.Phone.String)
	assert.Equal(t, models.UserTypePassenger, result.Profile.UserType)
	assert.False(t, result.Profile.IsApproved)
	assert.NotEmpty(t, result.ConfirmToken)

	_, err = svc.SignIn(ctx, "amel@example.tn", "s3cret-pass")
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "email address not confirmed", authErr.Message)

	require.NoError(t, svc.ConfirmEmail(ctx, result.ConfirmToken))

	account, err := accounts.GetByEmail(ctx, "amel@example.tn")
	require.NoError(t, err)
	assert.True(t, account.Confirmed())

	signedIn, err := svc.SignIn(ctx, "AMEL@example.tn", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", signedIn.TokenType)
	assert.Equal(t, int64(3600), signedIn.ExpiresIn)
	require.NotNil(t, signedIn.Profile)
	assert.Equal(t, result.Profile.ID, signedIn.Profile.ID)

	claims, err := tokens.ValidateAccessToken(signedIn.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.Profile.ID, claims.UserID)
}

func TestSignUp_Validation(t *testing.T) {
	svc, _, _, _ := setupAccountService(nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   models.SignUpRequest
		field string
	}{
		{"bad email", models.SignUpRequest{Email: "nope", Password: "long-enough"}, "email"},
		{"short password", models.SignUpRequest{Email: "a@b.tn", Password: "short"}, "password"},
		{"bad phone", models.SignUpRequest{Email: "a@b.tn", Password: "long-enough", Phone: "0771234567"}, "phone"},
		{"bad user type", models.SignUpRequest{Email: "a@b.tn", Password: "long-enough", UserType: "pilot"}, "user_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := setupAccountService(nil)
	ctx := context.Background()
	req := models.SignUpRequest{Email: "karim@example.tn", Password: "long-enough"}

	_, err := svc.SignUp(ctx, req)
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, req)
	var cerr *ConflictError
	assert.ErrorAs(t, err, &cerr)
}

func TestSignUp_DriverApprovalDefault(t *testing.T) {
	ctx := context.Background()

	svc, _, _, _ := setupAccountService(nil)
	result, err := svc.SignUp(ctx, models.SignUpRequest{Email: "d1@example.tn", Password: "long-enough", UserType: "driver"})
	require.NoError(t, err)
	assert.True(t, result.Profile.IsApproved)

	svc, _, _, _ = setupAccountService(staticApproval(false))
	result, err = svc.SignUp(ctx, models.SignUpRequest{Email: "d2@example.tn", Password: "long-enough", UserType: "Driver"})
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeDriver, result.Profile.UserType)
	assert.False(t, result.Profile.IsApproved)
}

func TestSignIn_BadCredentials(t *testing.T) {
	svc, _, _, _ := setupAccountService(nil)
	ctx := context.Background()

	result, err := svc.SignUp(ctx, models.SignUpRequest{Email: "amel@example.tn", Password: "long-enough"})
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmEmail(ctx, result.ConfirmToken))

	var authErr *AuthenticationError
	_, err = svc.SignIn(ctx, "amel@example.tn", "wrong-password")
	assert.ErrorAs(t, err, &authErr)

	_, err = svc.SignIn(ctx, "ghost@example.tn", "long-enough")
	assert.ErrorAs(t, err, &authErr)
}

func TestConfirmEmail_RejectsAccessToken(t *testing.T) {
	svc, _, _, tokens := setupAccountService(nil)
	ctx := context.Background()

	result, err := svc.SignUp(ctx, models.SignUpRequest{Email: "amel@example.tn", Password: "long-enough"})
	require.NoError(t, err)

	access, err := tokens.GenerateAccessToken(result.Profile.ID, "amel@example.tn")
	require.NoError(t, err)

	var authErr *AuthenticationError
	assert.ErrorAs(t, svc.ConfirmEmail(ctx, access), &authErr)
	assert.ErrorAs(t, svc.ConfirmEmail(ctx, "garbage"), &authErr)
}
