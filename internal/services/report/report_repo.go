package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/partnerhub/partnerhub/internal/services/scope"
)

// ReportRepo runs the scoped aggregate queries behind statistics reports
type ReportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *sqlx.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// withScope appends the scope predicate to the conjunct list. Placeholders
// continue from the args already bound.
func withScope(sc scope.RowScope, conds []string, args []any) ([]string, []any) {
	pred, pargs := sc.Predicate(len(args) + 1)
	if pred != "" {
		conds = append(conds, pred)
		args = append(args, pargs...)
	}
	return conds, args
}

// Totals sums visits and leads over scoped pages created since start.
func (r *ReportRepo) Totals(ctx context.Context, sc scope.RowScope, start time.Time) (*Summary, error) {
	conds := []string{"created_at >= $1"}
	args := []any{start}
	conds, args = withScope(sc, conds, args)

	query := fmt.Sprintf(`
        SELECT COALESCE(SUM(visitors), 0) AS total_visits,
               COALESCE(SUM(leads), 0) AS total_leads
        FROM pages
        WHERE %s
    `, strings.Join(conds, " AND "))

	var row struct {
		TotalVisits int64 `db:"total_visits"`
		TotalLeads  int64 `db:"total_leads"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}

	return &Summary{TotalVisits: row.TotalVisits, TotalLeads: row.TotalLeads}, nil
}

// SubtypeBreakdown sums visits and leads per page subtype.
func (r *ReportRepo) SubtypeBreakdown(ctx context.Context, sc scope.RowScope, start time.Time) ([]SubtypeSummary, error) {
	conds := []string{"created_at >= $1"}
	args := []any{start}
	conds, args = withScope(sc, conds, args)

	query := fmt.Sprintf(`
        SELECT page_type,
               COALESCE(SUM(visitors), 0) AS visits,
               COALESCE(SUM(leads), 0) AS leads
        FROM pages
        WHERE %s
        GROUP BY page_type
    `, strings.Join(conds, " AND "))

	var rows []SubtypeSummary
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query subtype breakdown: %w", err)
	}

	return rows, nil
}

// TopPages returns scoped pages ranked by lead/visit ratio. Pages without
// visits rank at the bottom; the percentage itself is derived by the caller.
func (r *ReportRepo) TopPages(ctx context.Context, sc scope.RowScope, start time.Time, limit int) ([]PageRank, error) {
	conds := []string{"created_at >= $1"}
	args := []any{start}
	conds, args = withScope(sc, conds, args)

	args = append(args, limit)

	query := fmt.Sprintf(`
        SELECT id, title, page_type, visitors, leads
        FROM pages
        WHERE %s
        ORDER BY CASE WHEN visitors = 0 THEN 0 ELSE leads::float / visitors END DESC, leads DESC
        LIMIT $%d
    `, strings.Join(conds, " AND "), len(args))

	var rows []PageRank
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query top pages: %w", err)
	}

	return rows, nil
}

// PagesPerDay counts scoped pages created per calendar day and subtype.
// created_at is stored in UTC, so days are cut in the report timezone.
func (r *ReportRepo) PagesPerDay(ctx context.Context, sc scope.RowScope, start time.Time, tz string) ([]dailyRow, error) {
	conds := []string{"created_at >= $1"}
	args := []any{start, tz}
	conds, args = withScope(sc, conds, args)

	query := fmt.Sprintf(`
        SELECT to_char(created_at AT TIME ZONE $2, 'YYYY-MM-DD') AS day,
               page_type,
               COUNT(*) AS count
        FROM pages
        WHERE %s
        GROUP BY day, page_type
    `, strings.Join(conds, " AND "))

	var rows []dailyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query pages per day: %w", err)
	}

	return rows, nil
}

// LeadsPerDay counts scoped leads per calendar day and subtype. lead_date is
// already stamped in the report timezone at capture time, so no conversion.
func (r *ReportRepo) LeadsPerDay(ctx context.Context, sc scope.RowScope, startDay string) ([]dailyRow, error) {
	conds := []string{"lead_date >= $1"}
	args := []any{startDay}
	conds, args = withScope(sc, conds, args)

	query := fmt.Sprintf(`
        SELECT to_char(lead_date, 'YYYY-MM-DD') AS day,
               lead_type AS page_type,
               COUNT(*) AS count
        FROM leads
        WHERE %s
        GROUP BY day, page_type
    `, strings.Join(conds, " AND "))

	var rows []dailyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query leads per day: %w", err)
	}

	return rows, nil
}

// PagesOnDay counts scoped pages created on a single calendar day.
func (r *ReportRepo) PagesOnDay(ctx context.Context, sc scope.RowScope, day, tz string) ([]subtypeCount, error) {
	conds := []string{"to_char(created_at AT TIME ZONE $2, 'YYYY-MM-DD') = $1"}
	args := []any{day, tz}
	conds, args = withScope(sc, conds, args)

	query := fmt.Sprintf(`
        SELECT page_type, COUNT(*) AS count
        FROM pages
        WHERE %s
        GROUP BY page_type
    `, strings.Join(conds, " AND "))

	var rows []subtypeCount
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query pages on day: %w", err)
	}

	return rows, nil
}

// LeadsOnDay counts scoped leads captured on a single calendar day.
func (r *ReportRepo) LeadsOnDay(ctx context.Context, sc scope.RowScope, day string) ([]subtypeCount, error) {
	conds := []string{"lead_date = $1"}
	args := []any{day}
	conds, args = withScope(sc, conds, args)

	query := fmt.Sprintf(`
        SELECT lead_type AS page_type, COUNT(*) AS count
        FROM leads
        WHERE %s
        GROUP BY lead_type
    `, strings.Join(conds, " AND "))

	var rows []subtypeCount
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query leads on day: %w", err)
	}

	return rows, nil
}
