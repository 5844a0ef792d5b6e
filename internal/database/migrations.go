package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createServicesTable,
		createReservationsTable,
		createPaymentsTable,
		createPaymentMethodsTable,
		createNotificationsTable,
		createDefaultMethodIndex,
		createNotificationRecipientIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    role VARCHAR(20) NOT NULL,
    booker_id INTEGER,
    artist_id INTEGER,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('booker', 'artist', 'admin'))
);`

const createServicesTable = `
CREATE TABLE IF NOT EXISTS services (
    id SERIAL PRIMARY KEY,
    artist_id INTEGER NOT NULL,
    title VARCHAR(500) NOT NULL,
    category VARCHAR(100) NOT NULL DEFAULT '',
    price BIGINT NOT NULL DEFAULT 0,
    duration_min INTEGER NOT NULL DEFAULT 60,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createReservationsTable = `
CREATE TABLE IF NOT EXISTS reservations (
    id SERIAL PRIMARY KEY,
    booker_id INTEGER NOT NULL,
    artist_id INTEGER NOT NULL,
    service_id INTEGER NOT NULL REFERENCES services(id),
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    previous_status VARCHAR(20),
    event_date DATE NOT NULL,
    start_time VARCHAR(10) NOT NULL DEFAULT '',
    end_time VARCHAR(10) NOT NULL DEFAULT '',
    location VARCHAR(500) NOT NULL DEFAULT '',
    amount BIGINT NOT NULL DEFAULT 0,
    service_fee BIGINT NOT NULL DEFAULT 0,
    total_amount BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled')),
    CHECK (payment_status IN ('pending', 'paid', 'failed', 'refunded', 'partial'))
);`

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
    id SERIAL PRIMARY KEY,
    reservation_id INTEGER NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
    payer_id INTEGER NOT NULL,
    payee_id INTEGER NOT NULL,
    amount BIGINT NOT NULL,
    service_fee BIGINT NOT NULL DEFAULT 0,
    total_amount BIGINT NOT NULL,
    payment_type VARCHAR(20) NOT NULL DEFAULT 'full',
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    method VARCHAR(50) NOT NULL DEFAULT '',
    details TEXT,
    reference VARCHAR(30) UNIQUE NOT NULL,
    transaction_id VARCHAR(255),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (payment_type IN ('full', 'advance', 'balance')),
    CHECK (status IN ('pending', 'processing', 'completed', 'failed', 'refunded'))
);`

const createPaymentMethodsTable = `
CREATE TABLE IF NOT EXISTS payment_methods (
    id SERIAL PRIMARY KEY,
    owner_id INTEGER NOT NULL,
    owner_type VARCHAR(20) NOT NULL,
    type VARCHAR(50) NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    is_default BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (owner_type IN ('booker', 'artist'))
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
    id SERIAL PRIMARY KEY,
    recipient_id INTEGER NOT NULL,
    recipient_type VARCHAR(20) NOT NULL,
    sender_id INTEGER,
    sender_type VARCHAR(20),
    reservation_id INTEGER,
    type VARCHAR(50) NOT NULL,
    title VARCHAR(255) NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    data JSONB,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (recipient_type IN ('booker', 'artist'))
);`

// The partial unique index backs the single-default invariant at the storage
// layer; the service keeps it inside one transaction on top of this.
const createDefaultMethodIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS payment_methods_default_idx
ON payment_methods (owner_id, owner_type)
WHERE is_default;`

const createNotificationRecipientIndex = `
CREATE INDEX IF NOT EXISTS notifications_recipient_idx
ON notifications (recipient_id, recipient_type, is_read);`
