package database

import "fmt"

// schemaStatements creates the six core relations plus the admin credential
// store. Cascade deletion is owned by the lifecycle services, so foreign keys
// deliberately carry no ON DELETE CASCADE.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS trips (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		cost_of_rental NUMERIC(12,2) NOT NULL DEFAULT 0,
		cost_per_seat NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_seats INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS active_trip (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		trip_id BIGINT REFERENCES trips(id)
	)`,
	`CREATE TABLE IF NOT EXISTS riders (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		alt_phone TEXT,
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trip_riders (
		trip_id BIGINT NOT NULL REFERENCES trips(id),
		rider_id BIGINT NOT NULL REFERENCES riders(id),
		seats INTEGER NOT NULL CHECK (seats >= 1),
		balance NUMERIC(12,2) NOT NULL DEFAULT 0,
		instructions_sent BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (trip_id, rider_id)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		rider_id BIGINT NOT NULL REFERENCES riders(id),
		trip_id BIGINT NOT NULL REFERENCES trips(id),
		paid_on DATE NOT NULL,
		amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS emergency_contacts (
		id BIGSERIAL PRIMARY KEY,
		rider_id BIGINT NOT NULL REFERENCES riders(id),
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		relationship TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS medical_notes (
		id BIGSERIAL PRIMARY KEY,
		rider_id BIGINT NOT NULL UNIQUE REFERENCES riders(id),
		notes TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_rider_trip ON payments (rider_id, trip_id)`,
	`CREATE INDEX IF NOT EXISTS idx_emergency_contacts_rider ON emergency_contacts (rider_id)`,
}

// EnsureSchema creates all tables if they do not exist yet
func EnsureSchema(db DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
