package models

import (
	"time"
)

// Known platform setting keys
const (
	SettingDefaultDriverApproval = "default_driver_approval"
	SettingMinFareTND            = "min_fare_tnd"
	SettingMaxPassengersPerTrip  = "max_passengers_per_trip"
	SettingContactEmail          = "contact_email"
)

// SettingKind is the value type a setting key accepts
type SettingKind string

const (
	SettingKindBool    SettingKind = "bool"
	SettingKindDecimal SettingKind = "decimal"
	SettingKindInt     SettingKind = "integer"
	SettingKindEmail   SettingKind = "email"
)

// SettingKinds enumerates the admin-editable keys and their value types
var SettingKinds = map[string]SettingKind{
	SettingDefaultDriverApproval: SettingKindBool,
	SettingMinFareTND:            SettingKindDecimal,
	SettingMaxPassengersPerTrip:  SettingKindInt,
	SettingContactEmail:          SettingKindEmail,
}

// PlatformSetting represents an admin-mutable key/value setting
type PlatformSetting struct {
	Key         string     `json:"key" db:"key"`
	Value       string     `json:"value" db:"value"`
	Description NullString `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// UpdatePlatformSettingRequest represents the request to update a setting
type UpdatePlatformSettingRequest struct {
	Value string `json:"value" binding:"required"`
}
