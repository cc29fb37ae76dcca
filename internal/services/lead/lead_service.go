package lead

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/partnerhub/partnerhub/internal/identity"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

var (
	ErrInvalidStatus = errors.New("invalid lead status")
	ErrNotOwner      = errors.New("caller does not own this lead")
)

// ActivityRecorder receives feed entries for lead events. Recording is
// best-effort; a failed entry never fails the capture.
type ActivityRecorder interface {
	Record(ctx context.Context, actorID string, supervisorCode *string, action, subject string) error
}

// LeadService contains business logic for lead capture and lifecycle
type LeadService struct {
	repo     *LeadRepo
	scopes   *scope.ScopeService
	activity ActivityRecorder
	loc      *time.Location
}

// NewLeadService constructs a new LeadService. The timezone is the zone lead
// dates are stamped in; reports bucket on the same zone.
func NewLeadService(repo *LeadRepo, scopes *scope.ScopeService, activity ActivityRecorder, timezone string) *LeadService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Error("Unknown stats timezone, falling back to UTC", slog.String("timezone", timezone), slog.Any("error", err))
		loc = time.UTC
	}

	return &LeadService{repo: repo, scopes: scopes, activity: activity, loc: loc}
}

// List returns the leads visible to the caller with filters applied
func (s *LeadService) List(ctx context.Context, caller *identity.Caller, filter *ListFilter) ([]*Lead, error) {
	sc, err := s.scopes.ScopeFor(ctx, caller, scope.DefaultColumns)
	if err != nil {
		return nil, err
	}

	leads, err := s.repo.List(ctx, sc, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, nil
}

// Create captures a lead against a page. The lead inherits the page's owner,
// supervisor code and subtype, and is stamped with the capture date and time
// in the configured timezone.
func (s *LeadService) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if req.PageID == "" {
		return nil, fmt.Errorf("page_id is required")
	}
	if req.Email == "" {
		return nil, fmt.Errorf("email is required")
	}

	meta, err := s.repo.GetPageMeta(ctx, req.PageID)
	if err != nil {
		return nil, err
	}

	pageID, err := uuid.Parse(req.PageID)
	if err != nil {
		return nil, fmt.Errorf("invalid page_id: %w", err)
	}

	now := time.Now().In(s.loc)

	lead := &Lead{
		LeadID:         uuid.New(),
		PageID:         &pageID,
		OwnerID:        meta.OwnerID,
		SupervisorCode: meta.SupervisorCode,
		LeadType:       meta.PageType,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Status:         StatusBeforeContact,
		LeadDate:       now,
		LeadTime:       now.Format("15:04:05"),
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	if err := s.repo.IncrementPageLeads(ctx, req.PageID); err != nil {
		slog.WarnContext(ctx, "Unable to increment page lead counter",
			slog.String("page_id", req.PageID), slog.Any("error", err))
	}

	if s.activity != nil {
		if err := s.activity.Record(ctx, meta.OwnerID, meta.SupervisorCode, "lead_captured", created.Email); err != nil {
			slog.WarnContext(ctx, "Unable to record lead capture activity", slog.Any("error", err))
		}
	}

	return created, nil
}

// ChangeStatus moves a lead through its lifecycle. Only the owner may change
// status; a non-owner attempt comes back as Authorized=false with nothing
// written, since stale client state makes that a routine case.
func (s *LeadService) ChangeStatus(ctx context.Context, caller *identity.Caller, leadID uuid.UUID, newStatus string) (*StatusChangeResult, error) {
	owner, err := s.repo.GetOwner(ctx, leadID)
	if err != nil {
		return nil, err
	}

	// Ids have historically arrived as both numbers and strings; compare on
	// the trimmed string form only. The ownership check comes before status
	// validation, so a non-owner never sees a validation error.
	if strings.TrimSpace(owner) != strings.TrimSpace(caller.UserID) {
		return &StatusChangeResult{Authorized: false}, nil
	}

	if !ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, leadID, newStatus); err != nil {
		return nil, err
	}

	return &StatusChangeResult{
		Authorized: true,
		LeadID:     leadID.String(),
		Status:     newStatus,
	}, nil
}

// Delete removes a lead. The owner and GOD may delete; anyone else is
// rejected hard, unlike the soft status guard.
func (s *LeadService) Delete(ctx context.Context, caller *identity.Caller, leadID uuid.UUID) error {
	if caller.Role != identity.RoleGod {
		owner, err := s.repo.GetOwner(ctx, leadID)
		if err != nil {
			return err
		}

		if strings.TrimSpace(owner) != strings.TrimSpace(caller.UserID) {
			return ErrNotOwner
		}
	}

	if err := s.repo.Delete(ctx, leadID); err != nil {
		return err
	}

	return nil
}
