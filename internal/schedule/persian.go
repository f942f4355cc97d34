// Package schedule implements the deadline math for the tracker.
//
// All dates in the data file are Persian (Jalali) calendar dates in
// "YYYY-MM-DD" form, so the calculations here run on the Persian
// calendar via github.com/yaa110/go-persian-calendar. Day arithmetic is
// done by converting to Gregorian time.Time, where the standard library
// handles it, and converting back.
package schedule

import (
	"fmt"
	"strconv"
	"strings"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Today returns today's date in the Persian calendar as "YYYY-MM-DD".
func Today() string {
	return FormatDate(todayDate())
}

// todayDate returns the current Persian date normalized to noon.
// Noon avoids off-by-one day counts around midnight and any historical
// DST transition in the Iran location.
func todayDate() ptime.Time {
	now := ptime.Now()
	return ptime.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, ptime.Iran())
}

// FormatDate renders a Persian date as "YYYY-MM-DD".
func FormatDate(t ptime.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a "YYYY-MM-DD" Persian date string. The time of day
// is normalized to noon, matching todayDate, so subtracting two parsed
// dates always yields whole days.
func ParseDate(s string) (ptime.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return ptime.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return ptime.Time{}, fmt.Errorf("invalid year in date %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return ptime.Time{}, fmt.Errorf("invalid month in date %q", s)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return ptime.Time{}, fmt.Errorf("invalid day in date %q", s)
	}

	d := ptime.Date(year, ptime.Month(month), day, 12, 0, 0, 0, ptime.Iran())

	// ptime.Date normalizes out-of-range days into the next month
	// (e.g. the 30th of a 29-day Esfand becomes the 1st of Farvardin).
	// Such inputs are invalid dates, not dates one month later, so the
	// normalization must surface as an error.
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return ptime.Time{}, fmt.Errorf("invalid day in date %q: month has no day %d", s, day)
	}

	return d, nil
}

// RemainingWorkdays returns the number of workable days from today
// through the deadline, given how many days per week are worked.
//
// An empty or unparsable deadline falls back to the last day of the
// current Persian month. A deadline in the past yields 0. A weekly
// count of 0 or 7 counts every calendar day.
func RemainingWorkdays(deadline string, workdaysCount int) int {
	return remainingWorkdaysFrom(todayDate(), deadline, workdaysCount)
}

// remainingWorkdaysFrom is the testable core of RemainingWorkdays with
// an injected "today".
func remainingWorkdaysFrom(today ptime.Time, deadline string, workdaysCount int) int {
	due, err := ParseDate(deadline)
	if err != nil {
		due = endOfMonth(today)
	}

	totalDays := daysBetween(today, due)
	if totalDays <= 0 {
		return 0
	}

	// 0 and 7 both mean "work every day".
	if workdaysCount == 0 || workdaysCount == 7 {
		return totalDays
	}

	fullWeeks := totalDays / 7
	partialDays := totalDays % 7

	workdays := fullWeeks * workdaysCount
	if partialDays > 0 {
		workdays += min(partialDays, workdaysCount)
	}
	return workdays
}

// daysBetween counts calendar days from `from` through `to`, inclusive
// of both endpoints. Returns <= 0 when `to` is before `from`.
func daysBetween(from, to ptime.Time) int {
	diff := to.Time().Sub(from.Time())
	return int(diff.Hours()/24) + 1
}

// endOfMonth returns the last day of t's Persian month.
// Persian month lengths vary (29-31 days), so the last day is found by
// stepping from the first of the month past the month boundary and
// backing up one day from the first of the next month.
func endOfMonth(t ptime.Time) ptime.Time {
	firstOfMonth := ptime.Date(t.Year(), t.Month(), 1, 12, 0, 0, 0, ptime.Iran())

	// 32 days forward from the 1st always lands in the next month.
	inNextMonth := ptime.New(firstOfMonth.Time().AddDate(0, 0, 32))

	firstOfNext := ptime.Date(inNextMonth.Year(), inNextMonth.Month(), 1, 12, 0, 0, 0, ptime.Iran())
	return ptime.New(firstOfNext.Time().AddDate(0, 0, -1))
}
