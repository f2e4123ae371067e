package services

import (
	"github.com/google/uuid"
	"github.com/tunride/ride-backend/internal/models"
)

// ViewerKind is the authorization class of the caller
type ViewerKind int

const (
	ViewerAnonymous ViewerKind = iota
	ViewerPassenger
	ViewerDriver
	ViewerAdmin
)

func (k ViewerKind) String() string {
	switch k {
	case ViewerPassenger:
		return "passenger"
	case ViewerDriver:
		return "driver"
	case ViewerAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// Viewer is the request-scoped identity every operation authorizes against.
// An authenticated account without a profile is anonymous but keeps its AccountID.
type Viewer struct {
	Kind      ViewerKind
	AccountID uuid.UUID
	Profile   *models.Profile
}

// Anonymous returns the unauthenticated viewer
func Anonymous() Viewer {
	return Viewer{Kind: ViewerAnonymous}
}

// NewViewer classifies an account and its profile. The admin role wins over user type.
func NewViewer(accountID uuid.UUID, profile *models.Profile) Viewer {
	v := Viewer{Kind: ViewerAnonymous, AccountID: accountID, Profile: profile}
	if profile == nil {
		return v
	}

	switch {
	case profile.IsAdmin():
		v.Kind = ViewerAdmin
	case profile.UserType == models.UserTypeDriver:
		v.Kind = ViewerDriver
	case profile.UserType == models.UserTypePassenger:
		v.Kind = ViewerPassenger
	}
	return v
}

// Authenticated reports whether a signed-in account backs the viewer
func (v Viewer) Authenticated() bool {
	return v.AccountID != uuid.Nil
}

// ProfileID returns the viewer's profile id, or uuid.Nil when there is none
func (v Viewer) ProfileID() uuid.UUID {
	if v.Profile == nil {
		return uuid.Nil
	}
	return v.Profile.ID
}

// TripVisibility derives the trip row filter for the viewer
func (v Viewer) TripVisibility() models.TripVisibility {
	switch v.Kind {
	case ViewerAdmin:
		return models.TripVisibility{Scope: models.TripScopeAll}
	case ViewerDriver:
		return models.TripVisibility{Scope: models.TripScopeDriver, ProfileID: v.ProfileID()}
	case ViewerPassenger:
		return models.TripVisibility{Scope: models.TripScopePassenger, ProfileID: v.ProfileID()}
	case ViewerAnonymous:
		return models.TripVisibility{Scope: models.TripScopePending}
	}
	return models.TripVisibility{Scope: models.TripScopePending}
}

// OwnTripVisibility scopes a listing to the viewer's own trips: posted ones
// for passengers, driven ones for drivers. Admins follow their user type.
func (v Viewer) OwnTripVisibility() (models.TripVisibility, error) {
	switch v.Kind {
	case ViewerPassenger:
		return models.TripVisibility{Scope: models.TripScopePassenger, ProfileID: v.ProfileID()}, nil
	case ViewerDriver:
		return models.TripVisibility{Scope: models.TripScopeDriven, ProfileID: v.ProfileID()}, nil
	case ViewerAdmin:
		if v.Profile.UserType == models.UserTypeDriver {
			return models.TripVisibility{Scope: models.TripScopeDriven, ProfileID: v.ProfileID()}, nil
		}
		return models.TripVisibility{Scope: models.TripScopePassenger, ProfileID: v.ProfileID()}, nil
	case ViewerAnonymous:
		return models.TripVisibility{}, &AuthorizationError{Action: "list own trips"}
	}
	return models.TripVisibility{}, &AuthorizationError{Action: "list own trips"}
}

func (v Viewer) requireAdmin(action string) error {
	if v.Kind != ViewerAdmin {
		return &AuthorizationError{Action: action}
	}
	return nil
}
