package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250310094500",
		up:      mig_20250310094500_leads_up,
		down:    mig_20250310094500_leads_down,
	})
}

func mig_20250310094500_leads_up(tx *sqlx.Tx) error {
	// lead_date and lead_time are split columns stamped in the configured
	// stats timezone; daily reports group directly on lead_date.
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS leads (
            lead_id UUID PRIMARY KEY,
            page_id UUID REFERENCES pages(id) ON DELETE SET NULL,
            owner_id VARCHAR(255) NOT NULL,
            supervisor_code VARCHAR(32),
            lead_type VARCHAR(20) NOT NULL DEFAULT 'sales' CHECK (lead_type IN ('sales', 'ebook')),
            name VARCHAR(255),
            email VARCHAR(255) NOT NULL,
            phone VARCHAR(64),
            status VARCHAR(20) NOT NULL DEFAULT 'b_contact' CHECK (status IN ('b_contact', 'a_contact', 'archive')),
            lead_date DATE NOT NULL,
            lead_time TIME NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_leads_owner_id ON leads(owner_id);
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_leads_lead_date ON leads(lead_date);
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_leads_supervisor_code ON leads(supervisor_code);
    `)

	return err
}

func mig_20250310094500_leads_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS leads;`)
	return err
}
