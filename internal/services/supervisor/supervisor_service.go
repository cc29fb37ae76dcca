package supervisor

import (
	"context"
	"errors"
	"fmt"

	"github.com/partnerhub/partnerhub/internal/identity"
)

var ErrLookupForbidden = errors.New("supervisor lookup requires ADMIN or GOD role")

// SupervisorService contains business logic for the supervisor directory
type SupervisorService struct {
	repo *SupervisorRepo
}

// NewSupervisorService constructs a new SupervisorService
func NewSupervisorService(repo *SupervisorRepo) *SupervisorService {
	return &SupervisorService{repo: repo}
}

// CodeByName resolves a supervisor code from an exact display name. Plain
// users have no business enumerating the directory, so the lookup is
// restricted to ADMIN and GOD.
func (s *SupervisorService) CodeByName(ctx context.Context, caller *identity.Caller, name string) (*SupervisorCode, error) {
	if caller.Role != identity.RoleAdmin && caller.Role != identity.RoleGod {
		return nil, ErrLookupForbidden
	}

	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	sc, err := s.repo.GetByDescription(ctx, name)
	if err != nil {
		return nil, err
	}

	return sc, nil
}

// DescriptionByCode returns the display name behind a supervisor code.
// Unknown codes resolve to a placeholder instead of an error so lists that
// carry stale codes still render.
func (s *SupervisorService) DescriptionByCode(ctx context.Context, code string) (string, error) {
	sc, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return fmt.Sprintf("Unknown supervisor (%s)", code), nil
		}
		return "", err
	}

	return sc.Description, nil
}
