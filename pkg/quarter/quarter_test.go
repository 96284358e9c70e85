package quarter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds_2024(t *testing.T) {
	tests := []struct {
		quarter     int
		startMillis int64
		endMillis   int64
	}{
		{1, 1704067200000, 1711929599999},
		{2, 1711929600000, 1719791999999},
		{3, 1719792000000, 1727740799999},
		{4, 1727740800000, 1735689599999},
	}

	for _, tt := range tests {
		r, err := Bounds(2024, tt.quarter)
		require.NoError(t, err)
		assert.Equal(t, tt.startMillis, r.StartMillis(), "Q%d start", tt.quarter)
		assert.Equal(t, tt.endMillis, r.EndMillis(), "Q%d end", tt.quarter)
	}
}

func TestBounds_StartsOnFirstDayOfQuarterMonth(t *testing.T) {
	for year := 2022; year <= 2026; year++ {
		for q := 1; q <= 4; q++ {
			r, err := Bounds(year, q)
			require.NoError(t, err)

			assert.Equal(t, year, r.Start.Year())
			assert.Equal(t, year, r.End.Year())
			assert.Equal(t, time.Month((q-1)*3+1), r.Start.Month())
			assert.Equal(t, 1, r.Start.Day())
			assert.Equal(t, time.Month((q-1)*3+3), r.End.Month())
			assert.True(t, r.End.After(r.Start))
		}
	}
}

func TestBounds_QuartersPartitionTheYear(t *testing.T) {
	for year := 2023; year <= 2025; year++ {
		for q := 1; q <= 3; q++ {
			cur, err := Bounds(year, q)
			require.NoError(t, err)
			next, err := Bounds(year, q+1)
			require.NoError(t, err)

			// Next quarter starts exactly one millisecond after this one ends.
			assert.Equal(t, cur.EndMillis()+1, next.StartMillis())
		}

		q4, err := Bounds(year, 4)
		require.NoError(t, err)
		nextYear, err := Bounds(year+1, 1)
		require.NoError(t, err)
		assert.Equal(t, q4.EndMillis()+1, nextYear.StartMillis())
	}
}

func TestBounds_RejectsOutOfRangeQuarter(t *testing.T) {
	for _, q := range []int{-1, 0, 5, 12} {
		_, err := Bounds(2024, q)
		assert.Error(t, err, "quarter %d", q)
	}
}

func TestBounds_DefaultsToCurrentYear(t *testing.T) {
	r, err := Bounds(0, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Year(), r.Start.Year())
}

func TestOf(t *testing.T) {
	tests := []struct {
		millis  int64
		quarter int
	}{
		{1708615590000, 1}, // 2024-02-22
		{1713799590000, 2}, // 2024-04-22
		{1727018790000, 3}, // 2024-09-22
		{1732289190000, 4}, // 2024-11-22
	}

	for _, tt := range tests {
		assert.Equal(t, tt.quarter, Of(time.UnixMilli(tt.millis)), "millis %d", tt.millis)
	}
}

func TestOf_UsesMadridCalendar(t *testing.T) {
	// 2024-03-31T22:30:00Z is still March in UTC but already April 1st
	// (00:30 CEST) in Madrid, so it belongs to Q2.
	instant := time.Date(2024, time.March, 31, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, 2, Of(instant))
}

func TestRange_ContainsIsInclusive(t *testing.T) {
	r, err := Bounds(2024, 2)
	require.NoError(t, err)

	assert.True(t, r.Contains(r.Start))
	assert.True(t, r.Contains(r.End))
	assert.False(t, r.Contains(r.Start.Add(-time.Millisecond)))
	assert.False(t, r.Contains(r.End.Add(time.Millisecond)))
}
