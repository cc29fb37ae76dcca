package scope

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrProfileNotFound  = errors.New("user profile not found")
	ErrNoSupervisorCode = errors.New("no supervisor code for user")
)

// ScopeRepo resolves supervisor codes from user profiles
type ScopeRepo struct {
	db *sqlx.DB
}

// NewScopeRepo creates a new scope repository
func NewScopeRepo(db *sqlx.DB) *ScopeRepo {
	return &ScopeRepo{db: db}
}

// GetDisplayName returns the profile's display name, which doubles as the
// supervisor directory lookup key.
func (r *ScopeRepo) GetDisplayName(ctx context.Context, userID string) (string, error) {
	query := `
        SELECT TRIM(COALESCE(first_name, '') || ' ' || COALESCE(last_name, ''))
        FROM user_profiles
        WHERE id = $1
    `

	var name string
	err := r.db.GetContext(ctx, &name, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to get display name: %w", err)
	}

	return name, nil
}

// FindCodeByDescription resolves a supervisor code whose description equals
// the given display name. Descriptions are not unique; on duplicates the
// lowest code wins so resolution stays deterministic.
func (r *ScopeRepo) FindCodeByDescription(ctx context.Context, name string) (string, error) {
	query := `
        SELECT code
        FROM supervisor_codes
        WHERE description = $1 AND is_active = TRUE
        ORDER BY code
        LIMIT 1
    `

	var code string
	err := r.db.GetContext(ctx, &code, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNoSupervisorCode
		}
		return "", fmt.Errorf("failed to find supervisor code: %w", err)
	}

	return code, nil
}
