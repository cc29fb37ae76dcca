package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		raw     string
		want    Range
		wantErr bool
	}{
		{raw: "", want: Range7Days},
		{raw: "7days", want: Range7Days},
		{raw: "14days", want: Range14Days},
		{raw: "30days", want: Range30Days},
		{raw: "all", want: RangeAll},
		{raw: "90days", wantErr: true},
		{raw: "7", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseRange(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestRangeDays(t *testing.T) {
	assert.Equal(t, 7, Range7Days.Days())
	assert.Equal(t, 14, Range14Days.Days())
	assert.Equal(t, 30, Range30Days.Days())
	assert.Equal(t, 36500, RangeAll.Days())
}

func TestConversionPct(t *testing.T) {
	t.Run("zero visits is zero", func(t *testing.T) {
		assert.Equal(t, float64(0), conversionPct(10, 0))
		assert.Equal(t, float64(0), conversionPct(0, 0))
	})

	t.Run("rounded to one decimal", func(t *testing.T) {
		assert.Equal(t, 33.3, conversionPct(1, 3))
		assert.Equal(t, 66.7, conversionPct(2, 3))
		assert.Equal(t, 50.0, conversionPct(1, 2))
		assert.Equal(t, 100.0, conversionPct(3, 3))
	})
}

func TestMergeDailySeries(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	end := time.Date(2025, 3, 10, 15, 30, 0, 0, warsaw)
	start := end.AddDate(0, 0, -7)

	t.Run("dense coverage is N+1 days inclusive", func(t *testing.T) {
		ebook, sales := mergeDailySeries(start, end, nil, nil)

		require.Len(t, ebook, 8)
		require.Len(t, sales, 8)
		assert.Equal(t, "2025-03-03", ebook[0].Date)
		assert.Equal(t, "2025-03-10", ebook[7].Date)

		seen := map[string]bool{}
		for i, p := range ebook {
			assert.False(t, seen[p.Date], "duplicate key %s", p.Date)
			seen[p.Date] = true
			assert.Equal(t, sales[i].Date, p.Date)
			assert.Zero(t, p.Pages)
			assert.Zero(t, p.Leads)
		}
	})

	t.Run("sparse rows land on exact date keys", func(t *testing.T) {
		pages := []dailyRow{
			{Day: "2025-03-05", Subtype: SubtypeEbook, Count: 2},
			{Day: "2025-03-10", Subtype: SubtypeSales, Count: 1},
		}
		leads := []dailyRow{
			{Day: "2025-03-10", Subtype: SubtypeEbook, Count: 1},
		}

		ebook, sales := mergeDailySeries(start, end, pages, leads)

		assert.Equal(t, int64(2), ebook[2].Pages)
		assert.Equal(t, int64(1), sales[7].Pages)
		assert.Equal(t, int64(1), ebook[7].Leads)
		assert.Equal(t, int64(0), sales[7].Leads)
	})

	t.Run("rows outside the range are dropped", func(t *testing.T) {
		pages := []dailyRow{
			{Day: "2025-02-01", Subtype: SubtypeEbook, Count: 5},
			{Day: "not-a-date", Subtype: SubtypeSales, Count: 5},
		}

		ebook, sales := mergeDailySeries(start, end, pages, nil)

		for i := range ebook {
			assert.Zero(t, ebook[i].Pages)
			assert.Zero(t, sales[i].Pages)
		}
	})

	t.Run("unknown subtype is dropped", func(t *testing.T) {
		pages := []dailyRow{{Day: "2025-03-05", Subtype: "webinar", Count: 3}}

		ebook, sales := mergeDailySeries(start, end, pages, nil)

		assert.Zero(t, ebook[2].Pages)
		assert.Zero(t, sales[2].Pages)
	})
}

func TestSnapshotFrom(t *testing.T) {
	snap := snapshotFrom(
		[]subtypeCount{{Subtype: SubtypeEbook, Count: 2}, {Subtype: SubtypeSales, Count: 1}},
		[]subtypeCount{{Subtype: SubtypeSales, Count: 4}},
	)

	assert.Equal(t, Snapshot{EbookPages: 2, SalesPages: 1, SalesLeads: 4}, snap)
}
