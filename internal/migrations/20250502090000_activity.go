package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250502090000",
		up:      mig_20250502090000_activity_up,
		down:    mig_20250502090000_activity_down,
	})
}

func mig_20250502090000_activity_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS activity_records (
            id BIGSERIAL PRIMARY KEY,
            actor_id VARCHAR(255) NOT NULL,
            supervisor_code VARCHAR(32),
            action VARCHAR(64) NOT NULL,
            subject VARCHAR(255),
            details TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_activity_records_actor_id ON activity_records(actor_id);
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_activity_records_supervisor_code ON activity_records(supervisor_code);
    `)
	if err != nil {
		return err
	}

	// Notify function so cached dashboards can be dropped when new
	// activity lands
	_, err = tx.Exec(`
		CREATE OR REPLACE FUNCTION notify_activity_change()
		RETURNS TRIGGER AS $$
		DECLARE
			payload TEXT;
		BEGIN
			payload := TG_TABLE_NAME || ':' || TG_OP;
			PERFORM pg_notify('partnerhub_activity', payload);
			RETURN COALESCE(NEW, OLD);
		END;
		$$ LANGUAGE plpgsql;
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE TRIGGER activity_records_notify
		AFTER INSERT OR UPDATE OR DELETE ON activity_records
		FOR EACH ROW EXECUTE FUNCTION notify_activity_change();
	`)

	return err
}

func mig_20250502090000_activity_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TRIGGER IF EXISTS activity_records_notify ON activity_records;`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DROP FUNCTION IF EXISTS notify_activity_change();`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DROP TABLE IF EXISTS activity_records;`)
	return err
}
