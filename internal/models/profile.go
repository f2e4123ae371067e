package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType distinguishes passengers from drivers
type UserType string

const (
	UserTypePassenger UserType = "passenger"
	UserTypeDriver    UserType = "driver"
)

// Valid reports whether t is a known user type
func (t UserType) Valid() bool {
	return t == UserTypePassenger || t == UserTypeDriver
}

// Role grants platform-wide authority on top of the user type
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile is a registered user's identity record
type Profile struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Email              string     `json:"email" db:"email"`
	FullName           NullString `json:"full_name" db:"full_name"`
	Phone              NullString `json:"phone" db:"phone"`
	UserType           UserType   `json:"user_type" db:"user_type"`
	Role               Role       `json:"role" db:"role"`
	IsApproved         bool       `json:"is_approved" db:"is_approved"`
	IsSubscribed       bool       `json:"is_subscribed" db:"is_subscribed"`
	SubscriptionEndsAt NullTime   `json:"subscription_ends_at" db:"subscription_ends_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// MissingFields lists the contact fields required before posting a trip
func (p *Profile) MissingFields() []string {
	var missing []string
	if !p.FullName.Present() {
		missing = append(missing, "full_name")
	}
	if !p.Phone.Present() {
		missing = append(missing, "phone")
	}
	if p.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}

// IsAdmin reports whether the profile carries the admin role
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Account holds sign-in credentials. Its ID is shared with the profile.
type Account struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	EmailConfirmedAt NullTime  `json:"email_confirmed_at" db:"email_confirmed_at"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// Confirmed reports whether the account's email has been verified
func (a *Account) Confirmed() bool {
	return a.EmailConfirmedAt.Valid
}
