package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/partnerhub/partnerhub/internal/services/scope"
)

// profileColumns maps user_profiles onto the scope builder. The numeric id
// is compared as text, matching how owner ids are stored elsewhere.
var profileColumns = scope.Columns{Owner: "id::text", Supervisor: "supervisor_code"}

// DashboardRepo runs the scoped counters behind the home dashboard
type DashboardRepo struct {
	db *sqlx.DB
}

// NewDashboardRepo creates a new dashboard repository
func NewDashboardRepo(db *sqlx.DB) *DashboardRepo {
	return &DashboardRepo{db: db}
}

func scopedWhere(sc scope.RowScope, conds []string, args []any) (string, []any) {
	if pred, pargs := sc.Predicate(len(args) + 1); pred != "" {
		conds = append(conds, pred)
		args = append(args, pargs...)
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// PartnersByStatus counts scoped partner profiles per status, optionally
// leaving one profile out of the counts
func (r *DashboardRepo) PartnersByStatus(ctx context.Context, sc scope.RowScope, excludeUserID string) ([]StatusCount, error) {
	conds := []string{"role <> 'GOD'"}
	args := []any{}

	if excludeUserID != "" {
		conds = append(conds, fmt.Sprintf("id::text <> $%d", len(args)+1))
		args = append(args, excludeUserID)
	}

	where, args := scopedWhere(sc, conds, args)

	query := fmt.Sprintf(`
        SELECT status, COUNT(*) AS count
        FROM user_profiles
        %s
        GROUP BY status
    `, where)

	var counts []StatusCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count partners by status: %w", err)
	}

	return counts, nil
}

// PagesByType counts scoped pages per subtype
func (r *DashboardRepo) PagesByType(ctx context.Context, sc scope.RowScope) ([]TypeCount, error) {
	where, args := scopedWhere(sc, nil, nil)

	query := fmt.Sprintf(`
        SELECT page_type, COUNT(*) AS count
        FROM pages
        %s
        GROUP BY page_type
    `, where)

	var counts []TypeCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count pages by type: %w", err)
	}

	return counts, nil
}

// VisitsByType sums scoped page visits per subtype
func (r *DashboardRepo) VisitsByType(ctx context.Context, sc scope.RowScope) ([]TypeCount, error) {
	where, args := scopedWhere(sc, nil, nil)

	query := fmt.Sprintf(`
        SELECT page_type, COALESCE(SUM(visitors), 0) AS count
        FROM pages
        %s
        GROUP BY page_type
    `, where)

	var counts []TypeCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to sum visits by type: %w", err)
	}

	return counts, nil
}

// LeadsByType counts scoped leads per subtype
func (r *DashboardRepo) LeadsByType(ctx context.Context, sc scope.RowScope) ([]TypeCount, error) {
	where, args := scopedWhere(sc, nil, nil)

	query := fmt.Sprintf(`
        SELECT lead_type AS page_type, COUNT(*) AS count
        FROM leads
        %s
        GROUP BY lead_type
    `, where)

	var counts []TypeCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count leads by type: %w", err)
	}

	return counts, nil
}

// RecentNews returns the latest announcements
func (r *DashboardRepo) RecentNews(ctx context.Context, limit int) ([]*NewsItem, error) {
	query := `
        SELECT id, title, body, published_at
        FROM news
        ORDER BY published_at DESC
        LIMIT $1
    `

	var items []*NewsItem
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}

	return items, nil
}
