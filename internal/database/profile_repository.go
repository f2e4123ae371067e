package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tunride/ride-backend/internal/models"
)

const profileColumns = `
	id, email, full_name, phone, user_type, role, is_approved,
	is_subscribed, subscription_ends_at, created_at, updated_at
`

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID retrieves a profile by id
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, notFound(err, "get profile")
	}
	return &profile, nil
}

// Create inserts a profile for an existing account
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO profiles (
			id, email, full_name, phone, user_type, role, is_approved
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`,
		profile.ID,
		profile.Email,
		profile.FullName,
		profile.Phone,
		profile.UserType,
		profile.Role,
		profile.IsApproved,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// UpdateContact writes the caller-editable profile fields
func (r *ProfileRepository) UpdateContact(ctx context.Context, profile *models.Profile) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE profiles
		SET full_name = $2, phone = $3, user_type = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, profile.ID, profile.FullName, profile.Phone, profile.UserType).Scan(&profile.UpdatedAt)
	if err != nil {
		return notFound(err, "update profile")
	}
	return nil
}

// List returns profiles newest first
func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	profiles := []models.Profile{}
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &profiles, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Count returns the number of profiles
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM profiles`); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// SetApproval updates a profile's approval flag
func (r *ProfileRepository) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET is_approved = $2, updated_at = NOW() WHERE id = $1
	`, id, approved)
	if err != nil {
		return fmt.Errorf("failed to update approval: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update approval: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
