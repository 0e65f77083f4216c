package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	ts := time.Date(2024, 3, 1, 8, 15, 59, 123456789, loc)
	assert.Equal(t, "2024-03-01T01:15:59.123Z", FormatTimestamp(ts))
	assert.Nil(t, FormatTimestampPtr(nil))
}

func TestCalendarDate(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	// 23:30 UTC on Feb 29 is already Mar 1 in ICT.
	ts := time.Date(2024, 2, 29, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), CalendarDate(ts, loc))

	start := StartOfDay(ts, loc)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), start)
	assert.True(t, !ts.Before(start))
}

func TestFormatDatePtr(t *testing.T) {
	d := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	got := FormatDatePtr(&d)
	require.NotNil(t, got)
	assert.Equal(t, "1990-05-17", *got)
}
