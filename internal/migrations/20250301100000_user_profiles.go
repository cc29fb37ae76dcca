package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250301100000",
		up:      mig_20250301100000_user_profiles_up,
		down:    mig_20250301100000_user_profiles_down,
	})
}

func mig_20250301100000_user_profiles_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS user_profiles (
            id BIGSERIAL PRIMARY KEY,
            provider_sub VARCHAR(255) NOT NULL UNIQUE,
            email VARCHAR(255) NOT NULL,
            first_name VARCHAR(255),
            last_name VARCHAR(255),
            phone VARCHAR(64),
            role VARCHAR(20) NOT NULL DEFAULT 'USER' CHECK (role IN ('USER', 'ADMIN', 'GOD')),
            status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('active', 'pending', 'blocked')),
            supervisor_code VARCHAR(32),
            admin_comment TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_user_profiles_provider_sub ON user_profiles(provider_sub);
    `)

	return err
}

func mig_20250301100000_user_profiles_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS user_profiles;`)
	return err
}
