package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/partnerhub/partnerhub/internal/services/scope"
)

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrPageNotFound = errors.New("page not found")
)

// LeadRepo handles database operations for leads
type LeadRepo struct {
	db *sqlx.DB
}

// NewLeadRepo creates a new lead repository
func NewLeadRepo(db *sqlx.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

const leadColumns = `lead_id, page_id, owner_id, supervisor_code, lead_type, name, email, phone,
               status, lead_date, lead_time, created_at, updated_at`

// List returns scoped leads with the caller's filters applied, newest first.
func (r *LeadRepo) List(ctx context.Context, sc scope.RowScope, filter *ListFilter) ([]*Lead, error) {
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

	if filter.Source != "" {
		conds = append(conds, fmt.Sprintf("lead_type = $%d", len(args)+1))
		args = append(args, filter.Source)
	}

	if filter.Creator != "" {
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)+1))
		args = append(args, filter.Creator)
	}

	if filter.SupervisorCode != "" {
		conds = append(conds, fmt.Sprintf("supervisor_code = $%d", len(args)+1))
		args = append(args, filter.SupervisorCode)
	}

	if filter.Search != "" {
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+2))
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM leads
        %s
        ORDER BY lead_date DESC, lead_time DESC
    `, leadColumns, where)

	var leads []*Lead
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, nil
}

// pageMeta is the slice of a page a new lead inherits.
type pageMeta struct {
	OwnerID        string  `db:"owner_id"`
	SupervisorCode *string `db:"supervisor_code"`
	PageType       string  `db:"page_type"`
}

// GetPageMeta fetches the owning page's metadata for lead capture
func (r *LeadRepo) GetPageMeta(ctx context.Context, pageID string) (*pageMeta, error) {
	query := `
        SELECT owner_id, supervisor_code, page_type
        FROM pages
        WHERE id = $1
    `

	var meta pageMeta
	err := r.db.GetContext(ctx, &meta, query, pageID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get page metadata: %w", err)
	}

	return &meta, nil
}

// Create inserts a captured lead
func (r *LeadRepo) Create(ctx context.Context, lead *Lead) (*Lead, error) {
	query := fmt.Sprintf(`
        INSERT INTO leads (lead_id, page_id, owner_id, supervisor_code, lead_type, name, email, phone,
                           status, lead_date, lead_time)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING %s
    `, leadColumns)

	var created Lead
	err := r.db.GetContext(ctx, &created, query,
		lead.LeadID, lead.PageID, lead.OwnerID, lead.SupervisorCode, lead.LeadType,
		lead.Name, lead.Email, lead.Phone, lead.Status,
		lead.LeadDate.Format("2006-01-02"), lead.LeadTime)
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return &created, nil
}

// IncrementPageLeads bumps the owning page's lead counter
func (r *LeadRepo) IncrementPageLeads(ctx context.Context, pageID string) error {
	query := `
        UPDATE pages
        SET leads = leads + 1, updated_at = NOW()
        WHERE id = $1
    `

	if _, err := r.db.ExecContext(ctx, query, pageID); err != nil {
		return fmt.Errorf("failed to increment page lead counter: %w", err)
	}

	return nil
}

// GetOwner returns the owner id of a lead
func (r *LeadRepo) GetOwner(ctx context.Context, leadID uuid.UUID) (string, error) {
	query := `SELECT owner_id FROM leads WHERE lead_id = $1`

	var owner string
	err := r.db.GetContext(ctx, &owner, query, leadID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrLeadNotFound
		}
		return "", fmt.Errorf("failed to get lead owner: %w", err)
	}

	return owner, nil
}

// UpdateStatus persists a new lifecycle status
func (r *LeadRepo) UpdateStatus(ctx context.Context, leadID uuid.UUID, status string) error {
	query := `
        UPDATE leads
        SET status = $1, updated_at = NOW()
        WHERE lead_id = $2
    `

	result, err := r.db.ExecContext(ctx, query, status, leadID)
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrLeadNotFound
	}

	return nil
}

// Delete removes a lead by id
func (r *LeadRepo) Delete(ctx context.Context, leadID uuid.UUID) error {
	query := `DELETE FROM leads WHERE lead_id = $1`

	result, err := r.db.ExecContext(ctx, query, leadID)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrLeadNotFound
	}

	return nil
}
