package services

import (
	"context"
	"log/slog"

	"github.com/partnerhub/partnerhub/internal/cache"
	"github.com/partnerhub/partnerhub/internal/config"
	"github.com/partnerhub/partnerhub/internal/db"
	"github.com/partnerhub/partnerhub/internal/pubsub"
	activity2 "github.com/partnerhub/partnerhub/internal/services/activity"
	chapter2 "github.com/partnerhub/partnerhub/internal/services/chapter"
	dashboard2 "github.com/partnerhub/partnerhub/internal/services/dashboard"
	lead2 "github.com/partnerhub/partnerhub/internal/services/lead"
	page2 "github.com/partnerhub/partnerhub/internal/services/page"
	partner2 "github.com/partnerhub/partnerhub/internal/services/partner"
	report2 "github.com/partnerhub/partnerhub/internal/services/report"
	scope2 "github.com/partnerhub/partnerhub/internal/services/scope"
	supervisor2 "github.com/partnerhub/partnerhub/internal/services/supervisor"
)

type Services struct {
	Scope      *scope2.ScopeService
	Report     *report2.ReportService
	Dashboard  *dashboard2.DashboardService
	Lead       *lead2.LeadService
	Page       *page2.PageService
	Partner    *partner2.PartnerService
	Supervisor *supervisor2.SupervisorService
	Chapter    *chapter2.ChapterService
	Activity   *activity2.ActivityService

	Cache  *cache.Cache
	PubSub *pubsub.PubSub
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)
	c := cache.New(conf)

	scopeSvc := scope2.NewScopeService(scope2.NewScopeRepo(dbconn), c)
	activitySvc := activity2.NewActivityService(activity2.NewActivityRepo(dbconn), scopeSvc)

	svc := &Services{
		Scope:      scopeSvc,
		Report:     report2.NewReportService(report2.NewReportRepo(dbconn), scopeSvc, conf.STATS_TIMEZONE),
		Dashboard:  dashboard2.NewDashboardService(dashboard2.NewDashboardRepo(dbconn), scopeSvc, c),
		Lead:       lead2.NewLeadService(lead2.NewLeadRepo(dbconn), scopeSvc, activitySvc, conf.STATS_TIMEZONE),
		Page:       page2.NewPageService(page2.NewPageRepo(dbconn), scopeSvc),
		Partner:    partner2.NewPartnerService(partner2.NewPartnerRepo(dbconn), scopeSvc),
		Supervisor: supervisor2.NewSupervisorService(supervisor2.NewSupervisorRepo(dbconn)),
		Chapter:    chapter2.NewChapterService(chapter2.NewChapterRepo(dbconn)),
		Activity:   activitySvc,
		Cache:      c,
	}

	// Activity notifications invalidate cached dashboards so fresh leads
	// show up without waiting for the snapshot TTL.
	ps := pubsub.NewPubSub(conf)
	ps.Subscribe(func(event pubsub.ActivityEvent) {
		svc.Dashboard.InvalidateSnapshots(context.Background())
	})
	if err := ps.Start(); err != nil {
		slog.Warn("Unable to start activity listener, dashboard cache will rely on TTL only", slog.Any("error", err))
	} else {
		svc.PubSub = ps
	}

	return svc
}

// Stop releases the background listener and cache connections
func (s *Services) Stop() {
	if s.PubSub != nil {
		s.PubSub.Stop()
	}
	s.Cache.Close()
}
