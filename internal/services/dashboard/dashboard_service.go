package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/partnerhub/partnerhub/internal/cache"
	"github.com/partnerhub/partnerhub/internal/identity"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

const (
	newsLimit   = 5
	snapshotTTL = time.Minute
	CachePrefix = "dashboard:"
)

// DashboardService assembles the scoped home dashboard snapshot
type DashboardService struct {
	repo   *DashboardRepo
	scopes *scope.ScopeService
	cache  *cache.Cache
}

// NewDashboardService constructs a new DashboardService
func NewDashboardService(repo *DashboardRepo, scopes *scope.ScopeService, c *cache.Cache) *DashboardService {
	return &DashboardService{repo: repo, scopes: scopes, cache: c}
}

// Stats returns the caller's dashboard counters. Snapshots are cached per
// caller and dropped when activity notifications arrive.
func (s *DashboardService) Stats(ctx context.Context, caller *identity.Caller, excludeUserID string) (*Stats, error) {
	cacheKey := fmt.Sprintf("%s%s:%s:%s", CachePrefix, caller.Role, caller.UserID, excludeUserID)

	var cached Stats
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	profileScope, err := s.scopes.ScopeFor(ctx, caller, profileColumns)
	if err != nil {
		return nil, err
	}

	rowScope, err := s.scopes.ScopeFor(ctx, caller, scope.DefaultColumns)
	if err != nil {
		return nil, err
	}

	var stats Stats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Partners, err = s.repo.PartnersByStatus(gctx, profileScope, excludeUserID)
		return err
	})
	g.Go(func() (err error) {
		stats.PagesByType, err = s.repo.PagesByType(gctx, rowScope)
		return err
	})
	g.Go(func() (err error) {
		stats.VisitsByType, err = s.repo.VisitsByType(gctx, rowScope)
		return err
	})
	g.Go(func() (err error) {
		stats.LeadsByType, err = s.repo.LeadsByType(gctx, rowScope)
		return err
	})
	g.Go(func() (err error) {
		stats.News, err = s.repo.RecentNews(gctx, newsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	s.cache.Set(ctx, cacheKey, &stats, snapshotTTL)

	return &stats, nil
}

// InvalidateSnapshots drops every cached dashboard. Wired to activity
// notifications so fresh leads show up promptly.
func (s *DashboardService) InvalidateSnapshots(ctx context.Context) {
	s.cache.DeleteByPrefix(ctx, CachePrefix)
}
