package models

// Governorate is a Tunisian administrative region
type Governorate struct {
	ID     int64  `json:"id" db:"id"`
	NameEN string `json:"name_en" db:"name_en"`
	NameAR string `json:"name_ar" db:"name_ar"`
	NameFR string `json:"name_fr" db:"name_fr"`
}

// City is a trip endpoint
type City struct {
	ID            int64  `json:"id" db:"id"`
	GovernorateID int64  `json:"governorate_id" db:"governorate_id"`
	NameEN        string `json:"name_en" db:"name_en"`
	NameAR        string `json:"name_ar" db:"name_ar"`
	NameFR        string `json:"name_fr" db:"name_fr"`
}

// FinanceOverview aggregates the admin finance dashboard figures
type FinanceOverview struct {
	TotalRevenue      float64 `json:"total_revenue" db:"total_revenue"`
	TotalPassengers   int     `json:"total_passengers" db:"total_passengers"`
	TotalDrivers      int     `json:"total_drivers" db:"total_drivers"`
	SubscribedDrivers int     `json:"subscribed_drivers" db:"subscribed_drivers"`
	TotalTrips        int     `json:"total_trips" db:"total_trips"`
	PendingTrips      int     `json:"pending_trips" db:"pending_trips"`
	AcceptedTrips     int     `json:"accepted_trips" db:"accepted_trips"`
	CompletedTrips    int     `json:"completed_trips" db:"completed_trips"`
	CancelledTrips    int     `json:"cancelled_trips" db:"cancelled_trips"`
}
