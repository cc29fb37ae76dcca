package activity

import (
	"context"
	"fmt"

	"github.com/partnerhub/partnerhub/internal/identity"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ActivityService contains business logic for the activity feed
type ActivityService struct {
	repo   *ActivityRepo
	scopes *scope.ScopeService
}

// NewActivityService constructs a new ActivityService
func NewActivityService(repo *ActivityRepo, scopes *scope.ScopeService) *ActivityService {
	return &ActivityService{repo: repo, scopes: scopes}
}

// List returns the slice of the feed visible to the caller
func (s *ActivityService) List(ctx context.Context, caller *identity.Caller, limit, offset int) (*Feed, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	sc, err := s.scopes.ScopeFor(ctx, caller, Columns)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.List(ctx, sc, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	total, err := s.repo.Count(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity: %w", err)
	}

	return &Feed{Entries: entries, Total: total, Limit: limit, Offset: offset}, nil
}

// Record appends a feed entry on behalf of an actor
func (s *ActivityService) Record(ctx context.Context, actorID string, supervisorCode *string, action, subject string) error {
	if actorID == "" || action == "" {
		return fmt.Errorf("actor and action are required")
	}

	return s.repo.Insert(ctx, actorID, supervisorCode, action, subject)
}
