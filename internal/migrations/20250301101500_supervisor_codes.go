package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250301101500",
		up:      mig_20250301101500_supervisor_codes_up,
		down:    mig_20250301101500_supervisor_codes_down,
	})
}

func mig_20250301101500_supervisor_codes_up(tx *sqlx.Tx) error {
	// description holds the supervisor's display name and is the lookup key
	// for name-to-code resolution. It is intentionally not unique; resolution
	// picks the lowest code on duplicates.
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS supervisor_codes (
            code VARCHAR(32) PRIMARY KEY,
            description VARCHAR(255) NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_supervisor_codes_description ON supervisor_codes(description);
    `)

	return err
}

func mig_20250301101500_supervisor_codes_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS supervisor_codes;`)
	return err
}
