package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/database"
	"github.com/tunride/ride-backend/internal/models"
	"github.com/tunride/ride-backend/pkg/jwt"
	phonevalidator "github.com/tunride/ride-backend/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AccountStore persists credentials
type AccountStore interface {
	CreateWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	MarkEmailConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ApprovalPolicy decides the initial approval of new drivers
type ApprovalPolicy interface {
	DefaultDriverApproval(ctx context.Context) bool
}

// SignUpResult carries the new profile and its confirmation token
type SignUpResult struct {
	Profile      *models.Profile `json:"profile"`
	ConfirmToken string          `json:"-"`
}

// SignInResult carries the access token and the caller's profile, if any
type SignInResult struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	Profile     *models.Profile `json:"profile"`
}

// AccountService handles registration and sign-in
type AccountService struct {
	accounts   AccountStore
	profiles   ProfileStore
	tokens     *jwt.Service
	approvals  ApprovalPolicy
	phones     *phonevalidator.PhoneValidator
	validate   *validator.Validate
	bcryptCost int
	logger     *logrus.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accounts AccountStore,
	profiles ProfileStore,
	tokens *jwt.Service,
	approvals ApprovalPolicy,
	phones *phonevalidator.PhoneValidator,
	bcryptCost int,
	logger *logrus.Logger,
) *AccountService {
	return &AccountService{
		accounts:   accounts,
		profiles:   profiles,
		tokens:     tokens,
		approvals:  approvals,
		phones:     phones,
		validate:   validator.New(),
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// SignUp registers an account with its profile and issues a confirmation token
func (s *AccountService) SignUp(ctx context.Context, req models.SignUpRequest) (*SignUpResult, error) {
	email := normalizeEmail(req.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, invalid("email", "invalid_email", "a valid email address is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalid("password", "too_short", "password must be at least %d characters", minPasswordLength)
	}

	userType, err := parseUserType(req.UserType)
	if err != nil {
		return nil, err
	}

	phone := models.NullString{}
	if strings.TrimSpace(req.Phone) != "" {
		sanitized, err := s.phones.Validate(req.Phone)
		if err != nil {
			return nil, invalid("phone", "invalid_phone", "%s", err.Error())
		}
		phone = models.NewNullString(sanitized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New()
	account := &models.Account{ID: id, Email: email, PasswordHash: string(hash)}
	profile := &models.Profile{
		ID:         id,
		Email:      email,
		FullName:   models.NewNullString(req.FullName),
		Phone:      phone,
		UserType:   userType,
		Role:       models.RoleUser,
		IsApproved: initialApproval(ctx, s.approvals, userType),
	}

	err = s.accounts.CreateWithProfile(ctx, account, profile)
	if errors.Is(err, database.ErrDuplicate) {
		return nil, &ConflictError{Message: "an account with this email already exists"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register account: %w", err)
	}

	token, err := s.tokens.GenerateConfirmToken(id, email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue confirmation token: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":   id,
		"email":     email,
		"user_type": userType,
	}).Info("Account registered, confirmation pending")
	s.logger.WithField("user_id", id).Debugf("Confirmation token: %s", token)

	return &SignUpResult{Profile: profile, ConfirmToken: token}, nil
}

// ConfirmEmail marks the token's account as confirmed
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateConfirmToken(token)
	if err != nil {
		return &AuthenticationError{Message: "invalid or expired confirmation token"}
	}

	err = s.accounts.MarkEmailConfirmed(ctx, claims.UserID, time.Now())
	if errors.Is(err, database.ErrNotFound) {
		return &NotFoundError{Entity: "account"}
	}
	if err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}

	s.logger.WithField("user_id", claims.UserID).Info("Email confirmed")
	return nil
}

// SignIn verifies credentials and issues an access token
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	badCredentials := &AuthenticationError{Message: "invalid email or password"}

	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, database.ErrNotFound) {
		return nil, badCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, badCredentials
	}
	if !account.Confirmed() {
		return nil, &AuthenticationError{Message: "email address not confirmed"}
	}

	profile, err := s.profiles.GetByID(ctx, account.ID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	s.logger.WithField("user_id", account.ID).Info("User signed in")

	return &SignInResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.AccessTokenExpiry().Seconds()),
		Profile:     profile,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseUserType(raw string) (models.UserType, error) {
	if strings.TrimSpace(raw) == "" {
		return models.UserTypePassenger, nil
	}
	userType := models.UserType(strings.ToLower(strings.TrimSpace(raw)))
	if !userType.Valid() {
		return "", invalid("user_type", "invalid_user_type", "user type must be passenger or driver")
	}
	return userType, nil
}

func initialApproval(ctx context.Context, policy ApprovalPolicy, userType models.UserType) bool {
	if userType != models.UserTypeDriver {
		return false
	}
	if policy == nil {
		return true
	}
	return policy.DefaultDriverApproval(ctx)
}
