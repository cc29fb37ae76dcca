package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250415120000",
		up:      mig_20250415120000_ebooks_up,
		down:    mig_20250415120000_ebooks_down,
	})
}

func mig_20250415120000_ebooks_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS ebooks (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            owner_id VARCHAR(255) NOT NULL,
            title VARCHAR(255) NOT NULL,
            description TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	// UNIQUE(ebook_id, position) is load-bearing for chapter reordering:
	// swaps go through a -1 parking position so the constraint never sees
	// two rows at the same slot. Position -1 must stay free for that.
	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS ebook_chapters (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            ebook_id UUID NOT NULL REFERENCES ebooks(id) ON DELETE CASCADE,
            title VARCHAR(255) NOT NULL,
            content TEXT,
            position INTEGER NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE (ebook_id, position)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_ebook_chapters_ebook_id ON ebook_chapters(ebook_id);
    `)

	return err
}

func mig_20250415120000_ebooks_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS ebook_chapters;`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DROP TABLE IF EXISTS ebooks;`)
	return err
}
