package dashboard

import "time"

// StatusCount is a per-status partner counter
type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int64  `json:"count" db:"count"`
}

// TypeCount is a per-subtype counter or sum
type TypeCount struct {
	Type  string `json:"type" db:"page_type"`
	Count int64  `json:"count" db:"count"`
}

// NewsItem is one announcement shown on the home dashboard
type NewsItem struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
}

// Stats is the home dashboard snapshot. All counters are scope-filtered to
// the caller; news is global.
type Stats struct {
	Partners     []StatusCount `json:"partners"`
	PagesByType  []TypeCount   `json:"pages_by_type"`
	VisitsByType []TypeCount   `json:"visits_by_type"`
	LeadsByType  []TypeCount   `json:"leads_by_type"`
	News         []*NewsItem   `json:"news"`
}
