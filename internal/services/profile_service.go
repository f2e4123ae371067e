package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/database"
	"github.com/tunride/ride-backend/internal/models"
	phonevalidator "github.com/tunride/ride-backend/pkg/validator"
)

const maxProfilePageSize = 100

// ProfileStore persists profiles
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	UpdateContact(ctx context.Context, profile *models.Profile) error
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)
	Count(ctx context.Context) (int, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) error
}

// ProfileService manages self-service and admin profile operations
type ProfileService struct {
	profiles  ProfileStore
	accounts  AccountStore
	approvals ApprovalPolicy
	phones    *phonevalidator.PhoneValidator
	logger    *logrus.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	profiles ProfileStore,
	accounts AccountStore,
	approvals ApprovalPolicy,
	phones *phonevalidator.PhoneValidator,
	logger *logrus.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		accounts:  accounts,
		approvals: approvals,
		phones:    phones,
		logger:    logger,
	}
}

// ResolveViewer loads the profile behind an authenticated account
func (s *ProfileService) ResolveViewer(ctx context.Context, accountID uuid.UUID) (Viewer, error) {
	profile, err := s.profiles.GetByID(ctx, accountID)
	if errors.Is(err, database.ErrNotFound) {
		return NewViewer(accountID, nil), nil
	}
	if err != nil {
		return Anonymous(), fmt.Errorf("failed to resolve viewer: %w", err)
	}
	return NewViewer(accountID, profile), nil
}

// CurrentUser returns the viewer's own profile
func (s *ProfileService) CurrentUser(viewer Viewer) (*models.Profile, error) {
	if viewer.Profile == nil {
		return nil, &NotFoundError{Entity: "profile"}
	}
	return viewer.Profile, nil
}

// CompleteProfile fills in the viewer's contact details, creating the
// profile first when the account has none
func (s *ProfileService) CompleteProfile(ctx context.Context, viewer Viewer, req models.CompleteProfileRequest) (*models.Profile, error) {
	if !viewer.Authenticated() {
		return nil, &AuthorizationError{Action: "complete a profile"}
	}

	fullName := models.NewNullString(req.FullName)
	if !fullName.Valid {
		return nil, invalid("full_name", "required", "full name is required")
	}
	sanitized, err := s.phones.Validate(req.Phone)
	if err != nil {
		return nil, invalid("phone", "invalid_phone", "%s", err.Error())
	}
	phone := models.NewNullString(sanitized)

	if viewer.Profile != nil {
		profile := *viewer.Profile
		profile.FullName = fullName
		profile.Phone = phone

		err := s.profiles.UpdateContact(ctx, &profile)
		if errors.Is(err, database.ErrNotFound) {
			return nil, &NotFoundError{Entity: "profile"}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}

		s.logger.WithField("user_id", profile.ID).Info("Profile updated")
		return &profile, nil
	}

	userType, err := parseUserType(req.UserType)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, viewer.AccountID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, &NotFoundError{Entity: "account"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	profile := &models.Profile{
		ID:         account.ID,
		Email:      account.Email,
		FullName:   fullName,
		Phone:      phone,
		UserType:   userType,
		Role:       models.RoleUser,
		IsApproved: initialApproval(ctx, s.approvals, userType),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":   profile.ID,
		"user_type": userType,
	}).Info("Profile created")

	return profile, nil
}

// ListProfiles returns a page of profiles. Admin only.
func (s *ProfileService) ListProfiles(ctx context.Context, viewer Viewer, limit, offset int) ([]models.Profile, error) {
	if err := viewer.requireAdmin("list users"); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > maxProfilePageSize {
		limit = maxProfilePageSize
	}
	if offset < 0 {
		offset = 0
	}

	profiles, err := s.profiles.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// CountProfiles returns the number of profiles. Admin only.
func (s *ProfileService) CountProfiles(ctx context.Context, viewer Viewer) (int, error) {
	if err := viewer.requireAdmin("count users"); err != nil {
		return 0, err
	}

	count, err := s.profiles.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// SetApproval toggles a profile's approval flag. Admin only.
func (s *ProfileService) SetApproval(ctx context.Context, viewer Viewer, id uuid.UUID, approved bool) (*models.Profile, error) {
	if err := viewer.requireAdmin("approve users"); err != nil {
		return nil, err
	}

	err := s.profiles.SetApproval(ctx, id, approved)
	if errors.Is(err, database.ErrNotFound) {
		return nil, &NotFoundError{Entity: "profile"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update approval: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  id,
		"approved": approved,
		"admin_id": viewer.ProfileID(),
	}).Info("User approval updated")

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	return profile, nil
}
