// Package businessclock defines the fixed civil calendar every report is
// computed in. The business operates in UTC+3 with no daylight saving, while
// timestamps are stored as UTC instants; all "day" and "month" boundaries must
// be derived in the civil calendar, never in UTC.
package businessclock

import (
	"fmt"
	"strings"
	"time"
)

// Location is the fixed business timezone. It is an offset, not an IANA zone:
// the business calendar never observes DST.
var Location = time.FixedZone("UTC+3", 3*60*60)

// offsetLiteral is appended to civil date strings when expanding explicit
// date filters. See WindowForDates.
const offsetLiteral = "+03:00"

// InvalidKey is the sentinel day key for unparsable or zero timestamps.
// Records bucketed under it are skipped by per-day aggregates instead of
// failing the whole report.
const InvalidKey = "Invalid"

// Window is a half-open instant range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayKey returns the civil calendar day ("YYYY-MM-DD") containing the instant.
func DayKey(t time.Time) string {
	if t.IsZero() {
		return InvalidKey
	}
	return t.In(Location).Format(time.DateOnly)
}

// HourOfDay returns the civil hour (0..23) of the instant.
func HourOfDay(t time.Time) int {
	return t.In(Location).Hour()
}

// WindowForDates expands explicit civil start/end dates ("YYYY-MM-DD") into
// the corresponding instant range. The end date is inclusive as a calendar day,
// so the returned End is the first instant of the following day.
//
// Boundaries are built by appending the fixed offset literal to the date
// string rather than converting instants. Legacy timestamps were stored
// without an offset, and this face-value expansion keeps the human-entered
// date intact instead of silently shifting it across midnight.
func WindowForDates(startDate, endDate string) (Window, error) {
	start, err := time.Parse(time.RFC3339, fmt.Sprintf("%sT00:00:00%s", strings.TrimSpace(startDate), offsetLiteral))
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}

	end, err := time.Parse(time.RFC3339, fmt.Sprintf("%sT00:00:00%s", strings.TrimSpace(endDate), offsetLiteral))
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}

	if end.Before(start) {
		return Window{}, fmt.Errorf("end date %s precedes start date %s", endDate, startDate)
	}

	return Window{Start: start, End: end.AddDate(0, 0, 1)}, nil
}

// DayWindow returns the civil day containing the reference instant.
func DayWindow(ref time.Time) Window {
	local := ref.In(Location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// MonthWindow returns the civil month containing the reference instant.
func MonthWindow(ref time.Time) Window {
	start := StartOfMonth(ref)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// StartOfMonth returns the first civil instant of the month containing ref.
func StartOfMonth(ref time.Time) time.Time {
	local := ref.In(Location)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, Location)
}

// flexibleLayouts are the timestamp shapes observed in legacy columns,
// ordered from most to least specific. Layouts without an offset are parsed
// in the business timezone, per the same face-value policy as WindowForDates.
var flexibleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
	"02.01.2006",
	"02/01/2006",
}

// ParseFlexible parses an inconsistently formatted date or timestamp string.
// It returns false instead of an error so callers can skip the single dirty
// record.
func ParseFlexible(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, layout := range flexibleLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, trimmed, Location); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FlexibleDayKey returns the civil day key of a raw date string, or InvalidKey
// when it cannot be parsed.
func FlexibleDayKey(raw string) string {
	t, ok := ParseFlexible(raw)
	if !ok {
		return InvalidKey
	}
	return DayKey(t)
}
