package scope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/partnerhub/partnerhub/internal/cache"
	"github.com/partnerhub/partnerhub/internal/identity"
)

const codeCacheTTL = 5 * time.Minute

// ScopeService builds row-level scopes from the caller's identity
type ScopeService struct {
	repo  *ScopeRepo
	cache *cache.Cache
}

// NewScopeService constructs a new ScopeService
func NewScopeService(repo *ScopeRepo, c *cache.Cache) *ScopeService {
	return &ScopeService{repo: repo, cache: c}
}

// ScopeFor builds the row scope the caller is entitled to on a table with
// the given columns.
//
// GOD sees everything. USER sees rows they own. ADMIN sees rows carrying
// their supervisor code; an ADMIN whose code cannot be resolved gets a scope
// that matches nothing.
func (s *ScopeService) ScopeFor(ctx context.Context, caller *identity.Caller, cols Columns) (RowScope, error) {
	switch caller.Role {
	case identity.RoleGod:
		return Unrestricted(), nil

	case identity.RoleUser:
		return OwnerScope(cols.Owner, caller.UserID), nil

	case identity.RoleAdmin:
		code, err := s.ResolveSupervisorCode(ctx, caller.UserID)
		if err != nil {
			// An admin with a profile but no matching code sees nothing,
			// never everything. A missing profile stays a hard not-found.
			if errors.Is(err, ErrNoSupervisorCode) {
				slog.WarnContext(ctx, "Admin has no resolvable supervisor code, denying all rows",
					slog.String("user_id", caller.UserID))
				return DenyAll(), nil
			}
			if errors.Is(err, ErrProfileNotFound) {
				return DenyAll(), err
			}
			return DenyAll(), fmt.Errorf("failed to resolve supervisor code: %w", err)
		}
		return OwnerOrSupervisorScope(cols, caller.UserID, code), nil

	default:
		return DenyAll(), fmt.Errorf("unsupported role: %s", caller.Role)
	}
}

// ResolveSupervisorCode maps an admin's profile to their supervisor code.
// The code is the supervisor_codes row whose description equals the admin's
// display name. Resolutions are cached per user.
func (s *ScopeService) ResolveSupervisorCode(ctx context.Context, userID string) (string, error) {
	cacheKey := "scope:supervisor_code:" + userID

	var cached string
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	name, err := s.repo.GetDisplayName(ctx, userID)
	if err != nil {
		return "", err
	}

	if name == "" {
		return "", ErrNoSupervisorCode
	}

	code, err := s.repo.FindCodeByDescription(ctx, name)
	if err != nil {
		return "", err
	}

	s.cache.Set(ctx, cacheKey, code, codeCacheTTL)

	return code, nil
}

// InvalidateUser drops any cached resolution for the user. Called after
// profile updates and partner promotions.
func (s *ScopeService) InvalidateUser(ctx context.Context, userID string) {
	s.cache.DeleteByPrefix(ctx, "scope:supervisor_code:"+userID)
}
