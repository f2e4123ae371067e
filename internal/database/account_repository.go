package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tunride/ride-backend/internal/models"
)

// AccountRepository handles credential records and their paired profiles
type AccountRepository struct {
	db DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateWithProfile inserts an account and its profile in one transaction
func (r *AccountRepository) CreateWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO accounts (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, account.ID, account.Email, account.PasswordHash).Scan(&account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	err = tx.QueryRowxContext(ctx, `
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
		return fmt.Errorf("failed to create profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sign-up: %w", err)
	}

	return nil
}

// GetByEmail retrieves an account by its (lower-cased) email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	query := `
		SELECT id, email, password_hash, email_confirmed_at, created_at
		FROM accounts
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, notFound(err, "get account by email")
	}
	return &account, nil
}

// GetByID retrieves an account by id
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	query := `
		SELECT id, email, password_hash, email_confirmed_at, created_at
		FROM accounts
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, notFound(err, "get account")
	}
	return &account, nil
}

// MarkEmailConfirmed stamps the confirmation time if not already set
func (r *AccountRepository) MarkEmailConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET email_confirmed_at = COALESCE(email_confirmed_at, $2)
		WHERE id = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
