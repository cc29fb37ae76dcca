package page

import (
	"context"
	"fmt"
	"strings"

	"github.com/partnerhub/partnerhub/internal/identity"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

// PageService contains business logic for page listings
type PageService struct {
	repo   *PageRepo
	scopes *scope.ScopeService
}

// NewPageService constructs a new PageService
func NewPageService(repo *PageRepo, scopes *scope.ScopeService) *PageService {
	return &PageService{repo: repo, scopes: scopes}
}

// List returns the pages visible to the caller, each decorated with its
// display status and ownership flag, plus summary counters over the list.
func (s *PageService) List(ctx context.Context, caller *identity.Caller, filter *ListFilter) (*PageList, error) {
	sc, err := s.scopes.ScopeFor(ctx, caller, scope.DefaultColumns)
	if err != nil {
		return nil, err
	}

	pages, err := s.repo.List(ctx, sc, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	list := &PageList{Pages: make([]PageView, 0, len(pages))}
	for _, p := range pages {
		view := PageView{
			Page:          *p,
			DisplayStatus: p.DisplayStatus(),
			IsOwnedByUser: strings.TrimSpace(p.OwnerID) == strings.TrimSpace(caller.UserID),
		}
		list.Pages = append(list.Pages, view)

		list.Summary.Total++
		switch view.DisplayStatus {
		case "published":
			list.Summary.Published++
		case "pending":
			list.Summary.Pending++
		default:
			list.Summary.Draft++
		}
		switch p.PageType {
		case TypeEbook:
			list.Summary.Ebook++
		case TypeSales:
			list.Summary.Sales++
		}
	}

	return list, nil
}
