package partner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/partnerhub/partnerhub/internal/services/supervisor"
)

var ErrPartnerNotFound = errors.New("partner not found")

const partnerColumns = `id, provider_sub, email, first_name, last_name, phone, role, status,
               supervisor_code, admin_comment, created_at, updated_at`

// restriction bounds which profiles a query may touch. The zero value is
// unrestricted (GOD); admins get OnlyUsers plus their code.
type restriction struct {
	OnlyUsers      bool
	SupervisorCode string
}

// PartnerRepo handles database operations for partner profiles. Writes that
// touch the supervisor directory go through the supervisor repo inside the
// same transaction.
type PartnerRepo struct {
	db          *sqlx.DB
	supervisors *supervisor.SupervisorRepo
}

// NewPartnerRepo creates a new partner repository
func NewPartnerRepo(db *sqlx.DB) *PartnerRepo {
	return &PartnerRepo{db: db, supervisors: supervisor.NewSupervisorRepo(db)}
}

// baseConds renders the restriction plus the rules every listing shares:
// GOD accounts and the caller never appear.
func baseConds(res restriction, callerID string) ([]string, []any) {
	conds := []string{"role <> 'GOD'"}
	args := []any{}

	if callerID != "" {
		conds = append(conds, fmt.Sprintf("id::text <> $%d", len(args)+1))
		args = append(args, callerID)
	}

	if res.OnlyUsers {
		conds = append(conds, "role = 'USER'")
	}

	if res.SupervisorCode != "" {
		conds = append(conds, fmt.Sprintf("supervisor_code = $%d", len(args)+1))
		args = append(args, res.SupervisorCode)
	}

	return conds, args
}

// List returns partner profiles with the restriction and filters applied
func (r *PartnerRepo) List(ctx context.Context, res restriction, callerID string, filter *ListFilter) ([]*Partner, error) {
	conds, args := baseConds(res, callerID)

	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if filter.Role != "" {
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, filter.Role)
	}

	if filter.SupervisorCode != "" {
		conds = append(conds, fmt.Sprintf("supervisor_code = $%d", len(args)+1))
		args = append(args, filter.SupervisorCode)
	}

	if filter.ExcludeUserID != "" {
		conds = append(conds, fmt.Sprintf("id::text <> $%d", len(args)+1))
		args = append(args, filter.ExcludeUserID)
	}

	if filter.Search != "" {
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)",
			len(args)+1, len(args)+2, len(args)+3))
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM user_profiles
        WHERE %s
        ORDER BY created_at DESC
    `, partnerColumns, strings.Join(conds, " AND "))

	var partners []*Partner
	if err := r.db.SelectContext(ctx, &partners, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}

	return partners, nil
}

// StatusCounts returns per-status counts under the restriction
func (r *PartnerRepo) StatusCounts(ctx context.Context, res restriction, callerID string) ([]StatusCount, error) {
	conds, args := baseConds(res, callerID)

	query := fmt.Sprintf(`
        SELECT status, COUNT(*) AS count
        FROM user_profiles
        WHERE %s
        GROUP BY status
    `, strings.Join(conds, " AND "))

	var counts []StatusCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count partners by status: %w", err)
	}

	return counts, nil
}

// VisibleSupervisors lists the directory entries the caller may reference.
// An empty code means the whole active directory.
func (r *PartnerRepo) VisibleSupervisors(ctx context.Context, code string) ([]SupervisorRef, error) {
	conds := []string{"is_active = TRUE"}
	args := []any{}

	if code != "" {
		conds = append(conds, fmt.Sprintf("code = $%d", len(args)+1))
		args = append(args, code)
	}

	query := fmt.Sprintf(`
        SELECT code, description
        FROM supervisor_codes
        WHERE %s
        ORDER BY description
    `, strings.Join(conds, " AND "))

	var refs []SupervisorRef
	if err := r.db.SelectContext(ctx, &refs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list supervisors: %w", err)
	}

	return refs, nil
}

// GetByID retrieves a partner profile by id
func (r *PartnerRepo) GetByID(ctx context.Context, id int64) (*Partner, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM user_profiles
        WHERE id = $1
    `, partnerColumns)

	var p Partner
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	return &p, nil
}

// GetByProviderSub retrieves a profile by its identity provider subject
func (r *PartnerRepo) GetByProviderSub(ctx context.Context, sub string) (*Partner, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM user_profiles
        WHERE provider_sub = $1
    `, partnerColumns)

	var p Partner
	err := r.db.GetContext(ctx, &p, query, sub)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// Update applies administrative changes inside one transaction. When the
// partner is an ADMIN and their name changes, the supervisor directory
// description is renamed in the same transaction so name-based resolution
// keeps working.
func (r *PartnerRepo) Update(ctx context.Context, id int64, req *UpdatePartnerRequest) (*Partner, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin update transaction: %w", err)
	}
	defer tx.Rollback()

	setParts := []string{}
	args := []any{}

	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *req.Status)
	}

	if req.AdminComment != nil {
		setParts = append(setParts, fmt.Sprintf("admin_comment = $%d", len(args)+1))
		args = append(args, *req.AdminComment)
	}

	if req.FirstName != nil {
		setParts = append(setParts, fmt.Sprintf("first_name = $%d", len(args)+1))
		args = append(args, *req.FirstName)
	}

	if req.LastName != nil {
		setParts = append(setParts, fmt.Sprintf("last_name = $%d", len(args)+1))
		args = append(args, *req.LastName)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE user_profiles
        SET %s
        WHERE id = $%d
        RETURNING %s
    `, strings.Join(setParts, ", "), len(args), partnerColumns)

	var updated Partner
	err = tx.GetContext(ctx, &updated, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to update partner: %w", err)
	}

	nameChanged := req.FirstName != nil || req.LastName != nil
	if nameChanged && updated.Role == "ADMIN" && updated.SupervisorCode != nil {
		if err := r.supervisors.UpdateDescription(ctx, tx, *updated.SupervisorCode, updated.DisplayName()); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update transaction: %w", err)
	}

	return &updated, nil
}

// Promote turns a USER into an ADMIN in one transaction: role change,
// supervisor directory insert, and code assignment land together or not at
// all.
func (r *PartnerRepo) Promote(ctx context.Context, id int64, code, description string) (*Partner, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin promote transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.supervisors.Insert(ctx, tx, code, description); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
        UPDATE user_profiles
        SET role = 'ADMIN', supervisor_code = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING %s
    `, partnerColumns)

	var promoted Partner
	err = tx.GetContext(ctx, &promoted, query, code, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to promote partner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit promote transaction: %w", err)
	}

	return &promoted, nil
}

// UpdateProfile applies the self-service profile fields by provider subject
func (r *PartnerRepo) UpdateProfile(ctx context.Context, sub string, req *UpdateProfileRequest) (*Partner, error) {
	setParts := []string{}
	args := []any{}

	if req.FirstName != nil {
		setParts = append(setParts, fmt.Sprintf("first_name = $%d", len(args)+1))
		args = append(args, *req.FirstName)
	}

	if req.LastName != nil {
		setParts = append(setParts, fmt.Sprintf("last_name = $%d", len(args)+1))
		args = append(args, *req.LastName)
	}

	if req.Phone != nil {
		setParts = append(setParts, fmt.Sprintf("phone = $%d", len(args)+1))
		args = append(args, *req.Phone)
	}

	if len(setParts) == 0 {
		return r.GetByProviderSub(ctx, sub)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, sub)

	query := fmt.Sprintf(`
        UPDATE user_profiles
        SET %s
        WHERE provider_sub = $%d
        RETURNING %s
    `, strings.Join(setParts, ", "), len(args), partnerColumns)

	var updated Partner
	err := r.db.GetContext(ctx, &updated, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &updated, nil
}
