package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250310093000",
		up:      mig_20250310093000_pages_up,
		down:    mig_20250310093000_pages_down,
	})
}

func mig_20250310093000_pages_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS pages (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            owner_id VARCHAR(255) NOT NULL,
            supervisor_code VARCHAR(32),
            page_type VARCHAR(20) NOT NULL DEFAULT 'sales' CHECK (page_type IN ('sales', 'ebook')),
            title VARCHAR(255) NOT NULL,
            slug VARCHAR(255) NOT NULL UNIQUE,
            status VARCHAR(20) NOT NULL DEFAULT 'draft' CHECK (status IN ('active', 'pending', 'draft')),
            visitors BIGINT NOT NULL DEFAULT 0,
            leads BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_pages_owner_id ON pages(owner_id);
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_pages_supervisor_code ON pages(supervisor_code);
    `)

	return err
}

func mig_20250310093000_pages_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS pages;`)
	return err
}
