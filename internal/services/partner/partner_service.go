package partner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/partnerhub/partnerhub/internal/identity"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

var (
	ErrForbidden            = errors.New("insufficient role for partner administration")
	ErrInvalidPartnerStatus = errors.New("invalid partner status")
	ErrBlocked              = errors.New("blocked users cannot update their profile")
	ErrNotPromotable        = errors.New("only USER accounts can be promoted")
)

// PartnerService contains business logic for partner administration
type PartnerService struct {
	repo   *PartnerRepo
	scopes *scope.ScopeService
}

// NewPartnerService constructs a new PartnerService
func NewPartnerService(repo *PartnerRepo, scopes *scope.ScopeService) *PartnerService {
	return &PartnerService{repo: repo, scopes: scopes}
}

// restrictionFor maps the caller onto a listing restriction. ok=false means
// the caller may not see any partners at all (fail-closed admin).
func (s *PartnerService) restrictionFor(ctx context.Context, caller *identity.Caller) (restriction, bool, error) {
	switch caller.Role {
	case identity.RoleGod:
		return restriction{}, true, nil

	case identity.RoleAdmin:
		code, err := s.scopes.ResolveSupervisorCode(ctx, caller.UserID)
		if err != nil {
			if errors.Is(err, scope.ErrNoSupervisorCode) || errors.Is(err, scope.ErrProfileNotFound) {
				slog.WarnContext(ctx, "Admin has no resolvable supervisor code, hiding all partners",
					slog.String("user_id", caller.UserID))
				return restriction{}, false, nil
			}
			return restriction{}, false, err
		}
		return restriction{OnlyUsers: true, SupervisorCode: code}, true, nil

	default:
		return restriction{}, false, ErrForbidden
	}
}

// List returns the partners visible to the caller with per-status stats and
// the supervisor directory slice they may reference.
func (s *PartnerService) List(ctx context.Context, caller *identity.Caller, filter *ListFilter) (*PartnerList, error) {
	res, ok, err := s.restrictionFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &PartnerList{Partners: []*Partner{}, Stats: []StatusCount{}, Supervisors: []SupervisorRef{}}, nil
	}

	partners, err := s.repo.List(ctx, res, caller.UserID, filter)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.StatusCounts(ctx, res, caller.UserID)
	if err != nil {
		return nil, err
	}

	supervisors, err := s.repo.VisibleSupervisors(ctx, res.SupervisorCode)
	if err != nil {
		return nil, err
	}

	return &PartnerList{Partners: partners, Stats: stats, Supervisors: supervisors}, nil
}

// Get fetches one partner under the caller's restriction. Out-of-scope
// partners read as not found rather than forbidden so existence never leaks.
func (s *PartnerService) Get(ctx context.Context, caller *identity.Caller, id int64) (*Partner, error) {
	target, err := s.authorizeTarget(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	return target, nil
}

// Update applies administrative changes to a partner
func (s *PartnerService) Update(ctx context.Context, caller *identity.Caller, id int64, req *UpdatePartnerRequest) (*Partner, error) {
	if req.Status != nil && !ValidStatus(*req.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPartnerStatus, *req.Status)
	}

	if _, err := s.authorizeTarget(ctx, caller, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	// A rename may change which supervisor code the partner resolves to.
	s.scopes.InvalidateUser(ctx, strconv.FormatInt(id, 10))

	return updated, nil
}

// Promote turns a USER into an ADMIN with a freshly generated supervisor
// code. GOD only.
func (s *PartnerService) Promote(ctx context.Context, caller *identity.Caller, id int64) (*Partner, error) {
	if caller.Role != identity.RoleGod {
		return nil, ErrForbidden
	}

	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if target.Role != "USER" {
		return nil, ErrNotPromotable
	}

	description := target.DisplayName()
	if description == "" {
		description = target.Email
	}

	promoted, err := s.repo.Promote(ctx, id, generateSupervisorCode(), description)
	if err != nil {
		return nil, err
	}

	s.scopes.InvalidateUser(ctx, strconv.FormatInt(id, 10))

	return promoted, nil
}

// GetProfile fetches the caller's own profile by verified provider subject
func (s *PartnerService) GetProfile(ctx context.Context, providerSub string) (*Partner, error) {
	return s.repo.GetByProviderSub(ctx, providerSub)
}

// UpdateProfile applies self-service profile changes. Blocked accounts are
// read-only.
func (s *PartnerService) UpdateProfile(ctx context.Context, providerSub string, req *UpdateProfileRequest) (*Partner, error) {
	existing, err := s.repo.GetByProviderSub(ctx, providerSub)
	if err != nil {
		return nil, err
	}

	if existing.Status == StatusBlocked {
		return nil, ErrBlocked
	}

	updated, err := s.repo.UpdateProfile(ctx, providerSub, req)
	if err != nil {
		return nil, err
	}

	s.scopes.InvalidateUser(ctx, strconv.FormatInt(existing.ID, 10))

	return updated, nil
}

// authorizeTarget loads a partner and checks the caller may act on it
func (s *PartnerService) authorizeTarget(ctx context.Context, caller *identity.Caller, id int64) (*Partner, error) {
	res, ok, err := s.restrictionFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPartnerNotFound
	}

	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if target.Role == "GOD" {
		return nil, ErrPartnerNotFound
	}

	if res.OnlyUsers {
		if target.Role != "USER" {
			return nil, ErrPartnerNotFound
		}
		if target.SupervisorCode == nil ||
			strings.TrimSpace(*target.SupervisorCode) != strings.TrimSpace(res.SupervisorCode) {
			return nil, ErrPartnerNotFound
		}
	}

	return target, nil
}

// generateSupervisorCode mints a short opaque uppercase code
func generateSupervisorCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
}
