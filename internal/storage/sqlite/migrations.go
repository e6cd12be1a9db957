package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are decimal strings because token amounts overflow INTEGER.
const schema = `
CREATE TABLE IF NOT EXISTS streams (
    id TEXT PRIMARY KEY,
    recipient TEXT NOT NULL,
    total_amount TEXT NOT NULL,
    claimed_amount TEXT NOT NULL DEFAULT '0',
    start_time_ns INTEGER NOT NULL,
    duration_seconds INTEGER NOT NULL CHECK (duration_seconds > 0),
    cliff_seconds INTEGER NOT NULL CHECK (cliff_seconds >= 0 AND cliff_seconds <= duration_seconds),
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_streams_recipient ON streams(recipient);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
