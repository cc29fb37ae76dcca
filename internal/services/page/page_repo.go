package page

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/partnerhub/partnerhub/internal/services/scope"
)

// PageRepo handles database operations for pages
type PageRepo struct {
	db *sqlx.DB
}

// NewPageRepo creates a new page repository
func NewPageRepo(db *sqlx.DB) *PageRepo {
	return &PageRepo{db: db}
}

// List returns scoped pages with filters applied, newest first
func (r *PageRepo) List(ctx context.Context, sc scope.RowScope, filter *ListFilter) ([]*Page, error) {
	conds := []string{}
	args := []any{}

	if pred, pargs := sc.Predicate(1); pred != "" {
		conds = append(conds, pred)
		args = append(args, pargs...)
	}

	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if filter.Type != "" {
		conds = append(conds, fmt.Sprintf("page_type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}

	if filter.Search != "" {
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR slug ILIKE $%d)", len(args)+1, len(args)+2))
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`
        SELECT id, owner_id, supervisor_code, page_type, title, slug, status,
               visitors, leads, created_at, updated_at
        FROM pages
        %s
        ORDER BY created_at DESC
    `, where)

	var pages []*Page
	if err := r.db.SelectContext(ctx, &pages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	return pages, nil
}
