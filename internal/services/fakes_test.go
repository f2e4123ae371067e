package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/database"
	"github.com/tunride/ride-backend/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// memTripStore is an in-memory TripStore with the same conditional accept semantics as Postgres
type memTripStore struct {
	mu        sync.Mutex
	trips     map[uuid.UUID]*models.Trip
	lastQuery models.TripQuery
}

func newMemTripStore() *memTripStore {
	return &memTripStore{trips: make(map[uuid.UUID]*models.Trip)}
}

func (m *memTripStore) put(trip models.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now()
	}
	m.trips[trip.ID] = &trip
}

func (m *memTripStore) Create(_ context.Context, trip *models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	stored := *trip
	m.trips[trip.ID] = &stored
	return nil
}

func (m *memTripStore) GetByID(_ context.Context, id uuid.UUID) (*models.TripView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &models.TripView{Trip: *trip}, nil
}

func (m *memTripStore) List(_ context.Context, q models.TripQuery) ([]models.TripView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = q

	views := []models.TripView{}
	for _, trip := range m.trips {
		if q.Visibility.Allows(trip) && q.Filter.Matches(trip) {
			views = append(views, models.TripView{Trip: *trip})
		}
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	if q.Filter.Offset >= len(views) {
		return []models.TripView{}, nil
	}
	views = views[q.Filter.Offset:]
	if q.Filter.Limit > 0 && len(views) > q.Filter.Limit {
		views = views[:q.Filter.Limit]
	}
	return views, nil
}

func (m *memTripStore) AcceptPending(_ context.Context, id, driverID uuid.UUID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok || !trip.Status.CanTransitionTo(models.TripStatusAccepted) {
		return false, nil
	}
	trip.Status = models.TripStatusAccepted
	trip.DriverID = uuid.NullUUID{UUID: driverID, Valid: true}
	trip.UpdatedAt = at
	return true, nil
}

func (m *memTripStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

func (m *memTripStore) DeleteExpiredPending(_ context.Context, today models.Date) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, trip := range m.trips {
		if trip.Status == models.TripStatusPending && trip.DepartureDate.Before(today) {
			delete(m.trips, id)
			n++
		}
	}
	return n, nil
}

// memCities accepts a fixed set of city ids
type memCities map[int64]bool

func (c memCities) CityExists(_ context.Context, id int64) (bool, error) {
	return c[id], nil
}

// fixedLimits is a TripLimits with optional bounds
type fixedLimits struct {
	minFare *float64
	maxSeat *int
}

func (l fixedLimits) MinFare(context.Context) (float64, bool) {
	if l.minFare == nil {
		return 0, false
	}
	return *l.minFare, true
}

func (l fixedLimits) MaxPassengers(context.Context) (int, bool) {
	if l.maxSeat == nil {
		return 0, false
	}
	return *l.maxSeat, true
}

// recordingPublisher captures published trip events
type recordingPublisher struct {
	mu     sync.Mutex
	events []TripEvent
}

func (p *recordingPublisher) PublishTripEvent(_ context.Context, event TripEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// memSettingStore is an in-memory SettingStore
type memSettingStore struct {
	mu       sync.Mutex
	settings map[string]string
}

func newMemSettingStore(values map[string]string) *memSettingStore {
	return &memSettingStore{settings: values}
}

func (m *memSettingStore) GetAll(context.Context) ([]models.PlatformSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PlatformSetting{}
	for k, v := range m.settings {
		out = append(out, models.PlatformSetting{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memSettingStore) GetByKey(_ context.Context, key string) (*models.PlatformSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.settings[key]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &models.PlatformSetting{Key: key, Value: v}, nil
}

func (m *memSettingStore) Update(_ context.Context, key, value string) (*models.PlatformSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.settings[key]; !ok {
		return nil, database.ErrNotFound
	}
	m.settings[key] = value
	return &models.PlatformSetting{Key: key, Value: value}, nil
}

// memAccounts is an in-memory AccountStore that also owns a profile store
type memAccounts struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
	profiles *memProfiles
}

func newMemAccounts(profiles *memProfiles) *memAccounts {
	return &memAccounts{accounts: make(map[uuid.UUID]*models.Account), profiles: profiles}
}

func (m *memAccounts) CreateWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) error {
	m.mu.Lock()
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			m.mu.Unlock()
			return database.ErrDuplicate
		}
	}
	account.CreatedAt = time.Now()
	stored := *account
	m.accounts[account.ID] = &stored
	m.mu.Unlock()

	return m.profiles.Create(ctx, profile)
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memAccounts) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *memAccounts) MarkEmailConfirmed(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return database.ErrNotFound
	}
	if !account.EmailConfirmedAt.Valid {
		account.EmailConfirmedAt.Time = at
		account.EmailConfirmedAt.Valid = true
	}
	return nil
}

// memProfiles is an in-memory ProfileStore
type memProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (m *memProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

func (m *memProfiles) Create(_ context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[profile.ID]; ok {
		return database.ErrDuplicate
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	stored := *profile
	m.profiles[profile.ID] = &stored
	return nil
}

func (m *memProfiles) UpdateContact(_ context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.profiles[profile.ID]
	if !ok {
		return database.ErrNotFound
	}
	stored.FullName = profile.FullName
	stored.Phone = profile.Phone
	stored.UserType = profile.UserType
	stored.UpdatedAt = time.Now()
	profile.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *memProfiles) List(_ context.Context, limit, offset int) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Profile{}
	for _, p := range m.profiles {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []models.Profile{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memProfiles) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles), nil
}

func (m *memProfiles) SetApproval(_ context.Context, id uuid.UUID, approved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[id]
	if !ok {
		return database.ErrNotFound
	}
	profile.IsApproved = approved
	return nil
}

func passengerViewer(complete bool) Viewer {
	profile := &models.Profile{
		ID:       uuid.New(),
		Email:    "amel@example.tn",
		FullName: models.NewNullString("Amel Ben Salah"),
		UserType: models.UserTypePassenger,
		Role:     models.RoleUser,
	}
	if complete {
		profile.Phone = models.NewNullString("22123456")
	}
	return NewViewer(profile.ID, profile)
}

func driverViewer() Viewer {
	profile := &models.Profile{
		ID:         uuid.New(),
		Email:      "karim@example.tn",
		FullName:   models.NewNullString("Karim Trabelsi"),
		Phone:      models.NewNullString("55123456"),
		UserType:   models.UserTypeDriver,
		Role:       models.RoleUser,
		IsApproved: true,
	}
	return NewViewer(profile.ID, profile)
}

func adminViewer() Viewer {
	profile := &models.Profile{
		ID:       uuid.New(),
		Email:    "admin@example.tn",
		UserType: models.UserTypePassenger,
		Role:     models.RoleAdmin,
	}
	return NewViewer(profile.ID, profile)
}
