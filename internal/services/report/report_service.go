package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/partnerhub/partnerhub/internal/identity"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

const (
	dayKey       = "2006-01-02"
	topPageLimit = 5
)

// ReportService assembles role-scoped statistics reports
type ReportService struct {
	repo   *ReportRepo
	scopes *scope.ScopeService
	loc    *time.Location
}

// NewReportService constructs a new ReportService. The timezone is the one
// lead capture stamps dates in; bucketing in any other zone would shift day
// boundaries and corrupt daily counts near midnight.
func NewReportService(repo *ReportRepo, scopes *scope.ScopeService, timezone string) *ReportService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Error("Unknown stats timezone, falling back to UTC", slog.String("timezone", timezone), slog.Any("error", err))
		loc = time.UTC
	}

	return &ReportService{repo: repo, scopes: scopes, loc: loc}
}

// BuildReport runs the nine scoped aggregate queries concurrently and merges
// them into a dense report. Any sub-query failure fails the whole report;
// there is no partial degradation.
func (s *ReportService) BuildReport(ctx context.Context, caller *identity.Caller, rng Range) (*Report, error) {
	sc, err := s.scopes.ScopeFor(ctx, caller, scope.DefaultColumns)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.loc)
	start := now.AddDate(0, 0, -rng.Days())

	today := now.Format(dayKey)
	yesterday := now.AddDate(0, 0, -1).Format(dayKey)
	startDay := start.Format(dayKey)
	tz := s.loc.String()

	var (
		summary    *Summary
		subtypes   []SubtypeSummary
		topPages   []PageRank
		pageDays   []dailyRow
		leadDays   []dailyRow
		todayPages []subtypeCount
		ydayPages  []subtypeCount
		todayLeads []subtypeCount
		ydayLeads  []subtypeCount
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		summary, err = s.repo.Totals(gctx, sc, start)
		return err
	})
	g.Go(func() (err error) {
		subtypes, err = s.repo.SubtypeBreakdown(gctx, sc, start)
		return err
	})
	g.Go(func() (err error) {
		topPages, err = s.repo.TopPages(gctx, sc, start, topPageLimit)
		return err
	})
	g.Go(func() (err error) {
		pageDays, err = s.repo.PagesPerDay(gctx, sc, start, tz)
		return err
	})
	g.Go(func() (err error) {
		leadDays, err = s.repo.LeadsPerDay(gctx, sc, startDay)
		return err
	})
	g.Go(func() (err error) {
		todayPages, err = s.repo.PagesOnDay(gctx, sc, today, tz)
		return err
	})
	g.Go(func() (err error) {
		ydayPages, err = s.repo.PagesOnDay(gctx, sc, yesterday, tz)
		return err
	})
	g.Go(func() (err error) {
		todayLeads, err = s.repo.LeadsOnDay(gctx, sc, today)
		return err
	})
	g.Go(func() (err error) {
		ydayLeads, err = s.repo.LeadsOnDay(gctx, sc, yesterday)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	summary.ConversionPct = conversionPct(summary.TotalLeads, summary.TotalVisits)
	for i := range subtypes {
		subtypes[i].ConversionPct = conversionPct(subtypes[i].Leads, subtypes[i].Visits)
	}
	for i := range topPages {
		topPages[i].ConversionPct = conversionPct(topPages[i].Leads, topPages[i].Visits)
	}

	ebook, sales := mergeDailySeries(start, now, pageDays, leadDays)

	return &Report{
		Range:     rng,
		Summary:   *summary,
		Subtypes:  subtypes,
		TopPages:  topPages,
		Ebook:     ebook,
		Sales:     sales,
		Today:     snapshotFrom(todayPages, todayLeads),
		Yesterday: snapshotFrom(ydayPages, ydayLeads),
	}, nil
}

// conversionPct derives a lead/visit percentage rounded to one decimal.
// Zero visits is zero conversion, never NaN or Inf.
func conversionPct(leads, visits int64) float64 {
	if visits <= 0 {
		return 0
	}
	return math.Round(float64(leads)*1000/float64(visits)) / 10
}

// mergeDailySeries overlays sparse per-day rows onto dense zero-filled
// series covering every calendar day from start to end inclusive. Rows whose
// date key falls outside the range are dropped with a warning rather than
// failing the report; that tolerates formatting skew between producers.
func mergeDailySeries(start, end time.Time, pages, leads []dailyRow) (ebook, sales []DailyPoint) {
	endKey := end.Format(dayKey)

	index := map[string]int{}
	for d := start; ; d = d.AddDate(0, 0, 1) {
		key := d.Format(dayKey)
		index[key] = len(ebook)
		ebook = append(ebook, DailyPoint{Date: key})
		sales = append(sales, DailyPoint{Date: key})
		if key == endKey {
			break
		}
	}

	overlay := func(rows []dailyRow, setPages bool) {
		for _, row := range rows {
			i, ok := index[row.Day]
			if !ok {
				slog.Warn("Dropping daily row outside report range",
					slog.String("day", row.Day), slog.String("subtype", row.Subtype))
				continue
			}

			var series []DailyPoint
			switch row.Subtype {
			case SubtypeEbook:
				series = ebook
			case SubtypeSales:
				series = sales
			default:
				slog.Warn("Dropping daily row with unknown subtype",
					slog.String("day", row.Day), slog.String("subtype", row.Subtype))
				continue
			}

			if setPages {
				series[i].Pages += row.Count
			} else {
				series[i].Leads += row.Count
			}
		}
	}

	overlay(pages, true)
	overlay(leads, false)

	return ebook, sales
}

func snapshotFrom(pages, leads []subtypeCount) Snapshot {
	var snap Snapshot

	for _, row := range pages {
		switch row.Subtype {
		case SubtypeEbook:
			snap.EbookPages += row.Count
		case SubtypeSales:
			snap.SalesPages += row.Count
		}
	}

	for _, row := range leads {
		switch row.Subtype {
		case SubtypeEbook:
			snap.EbookLeads += row.Count
		case SubtypeSales:
			snap.SalesLeads += row.Count
		}
	}

	return snap
}
