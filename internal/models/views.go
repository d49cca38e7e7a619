package models

// RiderBalance is one dashboard row: a rider on a trip with the derived
// collected and remaining amounts. Collected defaults to zero for riders with
// no payments; it is never absent.
type RiderBalance struct {
	RiderID          int64   `json:"rider_id" db:"rider_id"`
	FirstName        string  `json:"first_name" db:"first_name"`
	LastName         string  `json:"last_name" db:"last_name"`
	Seats            int     `json:"seats" db:"seats"`
	Balance          float64 `json:"balance" db:"balance"`
	Collected        float64 `json:"collected" db:"collected"`
	RemainingBalance float64 `json:"remaining_balance" db:"-"`
}

// TripTotals are the trip-level aggregates derived from rider balances.
type TripTotals struct {
	TotalCollected float64 `json:"total_collected"`
	RemainingFunds float64 `json:"remaining_funds"`
	ReservedSeats  int     `json:"reserved_seats"`
	RemainingSeats int     `json:"remaining_seats"`
}

// DashboardView is the read-only projection consumed by the admin dashboard.
// All amounts are recomputed on every read; none are stored.
type DashboardView struct {
	Trip   *Trip          `json:"trip"`
	Riders []RiderBalance `json:"riders"`
	Totals TripTotals     `json:"totals"`
}

// RosterEntry is one rider on a trip roster together with satellite records,
// for export and printing.
type RosterEntry struct {
	Rider             Rider              `json:"rider"`
	Seats             int                `json:"seats"`
	InstructionsSent  bool               `json:"instructions_sent"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts"`
	MedicalNote       *MedicalNote       `json:"medical_note,omitempty"`
}

// RosterView is the full roster of a trip.
type RosterView struct {
	Trip    *Trip         `json:"trip"`
	Entries []RosterEntry `json:"entries"`
}
