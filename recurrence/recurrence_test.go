package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, y int, m time.Month, d int) time.Time {
	t.Helper()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandNone(t *testing.T) {
	dates, err := Expand(mustDate(t, 2024, time.March, 15), None)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-15"}, dates)
}

func TestExpandWeekly(t *testing.T) {
	dates, err := Expand(mustDate(t, 2024, time.January, 1), Weekly)
	require.NoError(t, err)

	require.NotEmpty(t, dates)
	assert.Equal(t, "2024-01-01", dates[0])
	assert.Equal(t, "2024-01-08", dates[1])
	assert.Equal(t, "2024-01-15", dates[2])

	// 2024-01-01 through 2026-12-31 is 1096 days; weekly steps give
	// 1 + floor(1095/7) = 157 occurrences, the last on 2026-12-28.
	assert.Len(t, dates, 157)
	assert.Equal(t, "2026-12-28", dates[len(dates)-1])

	// Nothing may cross the two-year horizon.
	for _, d := range dates {
		assert.LessOrEqual(t, d, "2026-12-31")
	}
}

func TestExpandHorizonInclusive(t *testing.T) {
	// A step landing exactly on December 31 is kept.
	dates, err := Expand(mustDate(t, 2024, time.December, 17), Weekly)
	require.NoError(t, err)
	assert.Contains(t, dates, "2024-12-31")
	last := dates[len(dates)-1]
	assert.LessOrEqual(t, last, "2026-12-31")
}

func TestExpandIntervals(t *testing.T) {
	start := mustDate(t, 2024, time.January, 1)

	tests := []struct {
		rule   Rule
		second string
	}{
		{Weekly, "2024-01-08"},
		{Biweekly, "2024-01-15"},
		{Monthly, "2024-01-31"},   // fixed 30-day step, not calendar months
		{SemiAnnual, "2024-07-01"}, // 182 days
		{Yearly, "2024-12-31"},     // 365 days across a leap year
	}

	for _, tt := range tests {
		t.Run(tt.rule.String(), func(t *testing.T) {
			dates, err := Expand(start, tt.rule)
			require.NoError(t, err)
			require.Greater(t, len(dates), 1)
			assert.Equal(t, "2024-01-01", dates[0])
			assert.Equal(t, tt.second, dates[1])
		})
	}
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		input string
		want  Rule
	}{
		{"", None},
		{"None", None},
		{"weekly", Weekly},
		{"Biweekly", Biweekly},
		{"Monthly", Monthly},
		{"6 Months", SemiAnnual},
		{"semiannual", SemiAnnual},
		{"YEARLY", Yearly},
	}
	for _, tt := range tests {
		got, err := ParseRule(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseRule("fortnightly")
	assert.Error(t, err)
}
