package activity

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/partnerhub/partnerhub/internal/services/scope"
)

// Columns maps the activity table onto the scope builder.
var Columns = scope.Columns{Owner: "actor_id", Supervisor: "supervisor_code"}

// ActivityRepo handles database operations for the activity feed
type ActivityRepo struct {
	db *sqlx.DB
}

// NewActivityRepo creates a new activity repository
func NewActivityRepo(db *sqlx.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// List returns a scoped page of the feed, newest first
func (r *ActivityRepo) List(ctx context.Context, sc scope.RowScope, limit, offset int) ([]*Entry, error) {
	conds := []string{}
	args := []any{}

	if pred, pargs := sc.Predicate(1); pred != "" {
		conds = append(conds, pred)
		args = append(args, pargs...)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	args = append(args, limit, offset)

	query := fmt.Sprintf(`
        SELECT id, actor_id, supervisor_code, action, subject, details, created_at
        FROM activity_records
        %s
        ORDER BY created_at DESC
        LIMIT $%d OFFSET $%d
    `, where, len(args)-1, len(args))

	var entries []*Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	return entries, nil
}

// Count returns the scoped feed size
func (r *ActivityRepo) Count(ctx context.Context, sc scope.RowScope) (int64, error) {
	conds := []string{}
	args := []any{}

	if pred, pargs := sc.Predicate(1); pred != "" {
		conds = append(conds, pred)
		args = append(args, pargs...)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM activity_records %s`, where)

	var total int64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}

	return total, nil
}

// Insert appends a feed entry. The table trigger notifies listeners.
func (r *ActivityRepo) Insert(ctx context.Context, actorID string, supervisorCode *string, action, subject string) error {
	query := `
        INSERT INTO activity_records (actor_id, supervisor_code, action, subject)
        VALUES ($1, $2, $3, $4)
    `

	if _, err := r.db.ExecContext(ctx, query, actorID, supervisorCode, action, subject); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	return nil
}
