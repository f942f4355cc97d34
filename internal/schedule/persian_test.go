package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ptime "github.com/yaa110/go-persian-calendar"
)

// fixedToday returns 1404-05-01 (1st of Mordad) at noon, a stable
// reference point for the workday math below.
func fixedToday() ptime.Time {
	return ptime.Date(1404, ptime.Month(5), 1, 12, 0, 0, 0, ptime.Iran())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1404-05-15")
	require.NoError(t, err)

	assert.Equal(t, 1404, d.Year())
	assert.Equal(t, 5, int(d.Month()))
	assert.Equal(t, 15, d.Day())
}

func TestParseDate_Invalid(t *testing.T) {
	cases := []string{"", "1404-05", "1404/05/15", "abcd-05-15", "1404-13-01", "1404-05-40"}
	for _, s := range cases {
		_, err := ParseDate(s)
		assert.Error(t, err, "input %q should not parse", s)
	}
}

// TestParseDate_DayBeyondMonthEnd verifies days past the end of a short
// month are rejected instead of silently rolling into the next month.
// Esfand 1404 has 29 days; Esfand 1403 (a leap year) has 30.
func TestParseDate_DayBeyondMonthEnd(t *testing.T) {
	_, err := ParseDate("1404-12-30")
	assert.Error(t, err)

	d, err := ParseDate("1403-12-30")
	require.NoError(t, err)
	assert.Equal(t, "1403-12-30", FormatDate(d))
}

// TestRemainingWorkdays_RolloverDeadline verifies a deadline on a
// nonexistent day gets the end-of-month fallback, like any other
// unreadable deadline, rather than being treated as next month.
func TestRemainingWorkdays_RolloverDeadline(t *testing.T) {
	// From 1404-12-10, end of Esfand 1404 (29 days) is 20 inclusive
	// days away.
	today := ptime.Date(1404, ptime.Month(12), 10, 12, 0, 0, 0, ptime.Iran())
	assert.Equal(t, 20, remainingWorkdaysFrom(today, "1404-12-30", 7))
}

func TestFormatDate_RoundTrip(t *testing.T) {
	d, err := ParseDate("1404-01-09")
	require.NoError(t, err)
	assert.Equal(t, "1404-01-09", FormatDate(d))
}

// TestRemainingWorkdays_EveryDay verifies that weekly counts of 0 and 7
// both mean "all calendar days", counted inclusively.
func TestRemainingWorkdays_EveryDay(t *testing.T) {
	// 1404-05-01 through 1404-05-10 is 10 calendar days inclusive.
	assert.Equal(t, 10, remainingWorkdaysFrom(fixedToday(), "1404-05-10", 7))
	assert.Equal(t, 10, remainingWorkdaysFrom(fixedToday(), "1404-05-10", 0))
}

// TestRemainingWorkdays_PartialWeek verifies the full-weeks-plus-partial
// formula: 10 days at 5 days/week = 1 full week (5) + min(3, 5) = 8.
func TestRemainingWorkdays_PartialWeek(t *testing.T) {
	assert.Equal(t, 8, remainingWorkdaysFrom(fixedToday(), "1404-05-10", 5))
}

// TestRemainingWorkdays_PartialCapped verifies the partial week is
// capped at the weekly count: 10 days at 2 days/week = 2 + min(3, 2) = 4.
func TestRemainingWorkdays_PartialCapped(t *testing.T) {
	assert.Equal(t, 4, remainingWorkdaysFrom(fixedToday(), "1404-05-10", 2))
}

// TestRemainingWorkdays_PastDeadline verifies a deadline before today
// yields zero workable days.
func TestRemainingWorkdays_PastDeadline(t *testing.T) {
	assert.Equal(t, 0, remainingWorkdaysFrom(fixedToday(), "1404-04-29", 7))
}

// TestRemainingWorkdays_SameDay verifies today counts as one workable
// day when it is also the deadline.
func TestRemainingWorkdays_SameDay(t *testing.T) {
	assert.Equal(t, 1, remainingWorkdaysFrom(fixedToday(), "1404-05-01", 7))
}

// TestRemainingWorkdays_EmptyDeadline verifies the fallback to the last
// day of the current month. Mordad has 31 days, so from the 1st there
// are 31 inclusive days left.
func TestRemainingWorkdays_EmptyDeadline(t *testing.T) {
	assert.Equal(t, 31, remainingWorkdaysFrom(fixedToday(), "", 7))
}

// TestRemainingWorkdays_MalformedDeadline verifies garbage deadlines get
// the same end-of-month fallback instead of an error. The tracker treats
// an unreadable deadline like an unset one.
func TestRemainingWorkdays_MalformedDeadline(t *testing.T) {
	assert.Equal(t, 31, remainingWorkdaysFrom(fixedToday(), "soon", 7))
}

// TestEndOfMonth_ShortMonth verifies month-length handling at the short
// end of the Persian calendar: Esfand 1403 (a leap year) has 30 days.
func TestEndOfMonth_ShortMonth(t *testing.T) {
	esfand := ptime.Date(1403, ptime.Month(12), 10, 12, 0, 0, 0, ptime.Iran())
	assert.Equal(t, "1403-12-30", FormatDate(endOfMonth(esfand)))
}

// TestEndOfMonth_LongMonth verifies the long months (1-6) report 31 days.
func TestEndOfMonth_LongMonth(t *testing.T) {
	tir := ptime.Date(1404, ptime.Month(4), 2, 12, 0, 0, 0, ptime.Iran())
	assert.Equal(t, "1404-04-31", FormatDate(endOfMonth(tir)))
}
