package supervisor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrCodeNotFound = errors.New("supervisor code not found")

// SupervisorRepo handles database operations for the supervisor directory
type SupervisorRepo struct {
	db *sqlx.DB
}

// NewSupervisorRepo creates a new supervisor repository
func NewSupervisorRepo(db *sqlx.DB) *SupervisorRepo {
	return &SupervisorRepo{db: db}
}

// GetByDescription finds the active code whose description exactly equals
// name. Lowest code wins on duplicate descriptions.
func (r *SupervisorRepo) GetByDescription(ctx context.Context, name string) (*SupervisorCode, error) {
	query := `
        SELECT code, description, is_active, created_at, updated_at
        FROM supervisor_codes
        WHERE description = $1 AND is_active = TRUE
        ORDER BY code
        LIMIT 1
    `

	var sc SupervisorCode
	err := r.db.GetContext(ctx, &sc, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to get supervisor code by description: %w", err)
	}

	return &sc, nil
}

// GetByCode retrieves a supervisor directory entry by its code
func (r *SupervisorRepo) GetByCode(ctx context.Context, code string) (*SupervisorCode, error) {
	query := `
        SELECT code, description, is_active, created_at, updated_at
        FROM supervisor_codes
        WHERE code = $1
    `

	var sc SupervisorCode
	err := r.db.GetContext(ctx, &sc, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to get supervisor code: %w", err)
	}

	return &sc, nil
}

// Insert adds a new active supervisor code within the given transaction.
// Used by partner promotion so the code lands atomically with the role change.
func (r *SupervisorRepo) Insert(ctx context.Context, tx *sqlx.Tx, code, description string) error {
	query := `
        INSERT INTO supervisor_codes (code, description, is_active)
        VALUES ($1, $2, TRUE)
    `

	if _, err := tx.ExecContext(ctx, query, code, description); err != nil {
		return fmt.Errorf("failed to insert supervisor code: %w", err)
	}

	return nil
}

// UpdateDescription renames a supervisor directory entry within the given
// transaction. Keeps the directory in sync when a partner is renamed.
func (r *SupervisorRepo) UpdateDescription(ctx context.Context, tx *sqlx.Tx, code, description string) error {
	query := `
        UPDATE supervisor_codes
        SET description = $1, updated_at = NOW()
        WHERE code = $2
    `

	if _, err := tx.ExecContext(ctx, query, description, code); err != nil {
		return fmt.Errorf("failed to update supervisor description: %w", err)
	}

	return nil
}
