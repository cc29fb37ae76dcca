package report

import "fmt"

// Range is the lookback window of a statistics report.
type Range string

const (
	Range7Days  Range = "7days"
	Range14Days Range = "14days"
	Range30Days Range = "30days"
	RangeAll    Range = "all"
)

// ParseRange validates a raw range query value. Empty defaults to 7 days.
func ParseRange(raw string) (Range, error) {
	switch Range(raw) {
	case "":
		return Range7Days, nil
	case Range7Days, Range14Days, Range30Days, RangeAll:
		return Range(raw), nil
	default:
		return "", fmt.Errorf("invalid range: %q", raw)
	}
}

// Days returns the lookback length. "all" is approximated as a hundred
// years; the daily series is built over the full window.
func (r Range) Days() int {
	switch r {
	case Range14Days:
		return 14
	case Range30Days:
		return 30
	case RangeAll:
		return 36500
	default:
		return 7
	}
}

// Subtype classifies pages and their leads.
const (
	SubtypeEbook = "ebook"
	SubtypeSales = "sales"
)

// Summary carries the whole-range totals.
type Summary struct {
	TotalVisits   int64   `json:"total_visits"`
	TotalLeads    int64   `json:"total_leads"`
	ConversionPct float64 `json:"conversion_pct"`
}

// SubtypeSummary is a per-subtype slice of the summary.
type SubtypeSummary struct {
	Subtype       string  `json:"subtype" db:"page_type"`
	Visits        int64   `json:"visits" db:"visits"`
	Leads         int64   `json:"leads" db:"leads"`
	ConversionPct float64 `json:"conversion_pct" db:"-"`
}

// PageRank is one entry of the top-pages list, ranked by conversion.
type PageRank struct {
	ID            string  `json:"id" db:"id"`
	Title         string  `json:"title" db:"title"`
	Subtype       string  `json:"subtype" db:"page_type"`
	Visits        int64   `json:"visits" db:"visitors"`
	Leads         int64   `json:"leads" db:"leads"`
	ConversionPct float64 `json:"conversion_pct" db:"-"`
}

// DailyPoint is one day of a dense series. Date is a YYYY-MM-DD key in the
// report timezone; days with no data carry explicit zeros.
type DailyPoint struct {
	Date  string `json:"date"`
	Pages int64  `json:"pages"`
	Leads int64  `json:"leads"`
}

// Snapshot is a single-day breakdown by subtype.
type Snapshot struct {
	EbookPages int64 `json:"ebook_pages"`
	SalesPages int64 `json:"sales_pages"`
	EbookLeads int64 `json:"ebook_leads"`
	SalesLeads int64 `json:"sales_leads"`
}

// Report is the full statistics payload. Ebook and Sales are parallel dense
// daily series over the same date keys.
type Report struct {
	Range     Range            `json:"range"`
	Summary   Summary          `json:"summary"`
	Subtypes  []SubtypeSummary `json:"subtypes"`
	TopPages  []PageRank       `json:"top_pages"`
	Ebook     []DailyPoint     `json:"ebook"`
	Sales     []DailyPoint     `json:"sales"`
	Today     Snapshot         `json:"today"`
	Yesterday Snapshot         `json:"yesterday"`
}

// dailyRow is a sparse per-day count as it comes back from the database.
type dailyRow struct {
	Day     string `db:"day"`
	Subtype string `db:"page_type"`
	Count   int64  `db:"count"`
}

// subtypeCount is a per-subtype count for single-day snapshots.
type subtypeCount struct {
	Subtype string `db:"page_type"`
	Count   int64  `db:"count"`
}
