package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical calendar date form used everywhere in the
// booking core.
const DateLayout = "2006-01-02"

// ErrUnresolvedDate is returned when a phrase cannot be resolved to a
// calendar date. Callers must leave the target slot untouched.
var ErrUnresolvedDate = errors.New("unresolved date phrase")

var (
	relOffsetRe = regexp.MustCompile(`^(?:in\s+)?([a-z]+|\d+)\s+(day|week|month)s?(?:\s+from\s+(?:now|today))?$`)
	articleRe   = regexp.MustCompile(`^(?:a|an)\s+(week|month)\s+from\s+now$`)
	nextDayRe   = regexp.MustCompile(`^next\s+([a-z]+)$`)
	thisDayRe   = regexp.MustCompile(`^(?:this|on)\s+([a-z]+)$`)
	numericRe   = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)
	monthDayRe  = regexp.MustCompile(`^(?:on\s+)?([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?$`)
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// ResolveDate resolves a free-form date phrase against a reference
// instant in the given timezone and returns the calendar date at
// midnight in that timezone. Recognized forms, first match wins:
//
//  1. "today", "tomorrow" (and informal spellings)
//  2. "[in] N days/weeks/months" with N a digit or spelled zero-twelve
//  3. "a week from now", "a month from now"
//  4. "next <weekday>" (strictly after the reference date)
//  5. "this <weekday>" / "on <weekday>" (on or after the reference date)
//  6. bare weekday name (same as "next <weekday>")
//  7. canonical YYYY-MM-DD, with stale-year repair
//  8. slash/dash numeric dates, month-day-year then day-month-year
//  9. best-effort free-form parse ("september 3", "Sep 3, 2025", ...)
//
// Anything else returns ErrUnresolvedDate.
func ResolveDate(phrase string, ref time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	ref = ref.In(loc)
	refDate := dateOf(ref, loc)

	s := strings.ToLower(strings.TrimSpace(phrase))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, ErrUnresolvedDate
	}

	// 1) Literal keywords
	switch s {
	case "today", "tonight":
		return refDate, nil
	case "tomorrow", "tommorow", "tommorrow", "tomorow", "tmrw", "tmr":
		return refDate.AddDate(0, 0, 1), nil
	}

	// 2) Relative offsets
	if m := relOffsetRe.FindStringSubmatch(s); m != nil {
		if n, ok := ParseCount(m[1]); ok {
			switch m[2] {
			case "day":
				return refDate.AddDate(0, 0, n), nil
			case "week":
				return refDate.AddDate(0, 0, 7*n), nil
			case "month":
				return addMonthsClamped(refDate, n), nil
			}
		}
	}

	// 3) "a week from now" / "a month from now"
	if m := articleRe.FindStringSubmatch(s); m != nil {
		if m[1] == "week" {
			return refDate.AddDate(0, 0, 7), nil
		}
		return addMonthsClamped(refDate, 1), nil
	}

	// 4) "next <weekday>"
	if m := nextDayRe.FindStringSubmatch(s); m != nil {
		if wd, ok := weekdays[m[1]]; ok {
			return nextWeekday(refDate, wd, true), nil
		}
	}

	// 5) "this <weekday>" / "on <weekday>"
	if m := thisDayRe.FindStringSubmatch(s); m != nil {
		if wd, ok := weekdays[m[1]]; ok {
			return nextWeekday(refDate, wd, false), nil
		}
	}

	// 6) Bare weekday is always strictly future, never today
	if wd, ok := weekdays[s]; ok {
		return nextWeekday(refDate, wd, true), nil
	}

	// 7) Canonical date string
	if d, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return repairStaleYear(d, refDate, loc), nil
	}

	// 8) Slash/dash numeric: month-day-year first, then day-month-year
	if m := numericRe.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if d, ok := calendarDate(year, a, b, loc); ok {
			return d, nil
		}
		if d, ok := calendarDate(year, b, a, loc); ok {
			return d, nil
		}
		return time.Time{}, ErrUnresolvedDate
	}

	// 9) Free-form fallback: "<month> <day>[, year]" resolved against the
	// reference instant, then a general natural-language parse.
	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[m[1]]; ok {
			day, _ := strconv.Atoi(m[2])
			year := refDate.Year()
			if m[3] != "" {
				year, _ = strconv.Atoi(m[3])
			}
			if d, ok := calendarDate(year, int(month), day, loc); ok {
				if m[3] == "" && d.Before(refDate) {
					d, _ = calendarDate(year+1, int(month), day, loc)
				}
				return d, nil
			}
		}
	}
	if d, err := dateparse.ParseIn(phrase, loc); err == nil {
		return dateOf(d, loc), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnresolvedDate, phrase)
}

// FormatDate renders a resolved date in the canonical form.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// DaysBetween returns the whole-day difference between two calendar
// dates. The count is taken on the Date components, not elapsed hours,
// so DST transitions (23- and 25-hour days) don't shift it.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// addMonthsClamped adds calendar months, preserving the day-of-month
// where valid and clamping to the last day of the target month
// otherwise (Jan 31 + 1 month = Feb 28/29, not Mar 2/3).
func addMonthsClamped(d time.Time, n int) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, d.Location()).AddDate(0, n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

// nextWeekday returns the next occurrence of wd relative to refDate.
// When strict, a reference date already on wd skips to the following
// week; otherwise it is returned as-is.
func nextWeekday(refDate time.Time, wd time.Weekday, strict bool) time.Time {
	delta := (int(wd) - int(refDate.Weekday()) + 7) % 7
	if delta == 0 && strict {
		delta = 7
	}
	return refDate.AddDate(0, 0, delta)
}

// repairStaleYear corrects years more than one year in the past
// relative to the reference year. Extraction occasionally hallucinates
// stale years; a user asking for "2019-09-01" in 2025 almost certainly
// means the upcoming September 1st.
func repairStaleYear(d, refDate time.Time, loc *time.Location) time.Time {
	if d.Year() >= refDate.Year()-1 {
		return dateOf(d, loc)
	}
	repaired := time.Date(refDate.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	if repaired.Before(refDate) {
		repaired = time.Date(refDate.Year()+1, d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}
	return repaired
}

// calendarDate builds a date only if the year/month/day combination is
// calendar-valid (no normalization like Feb 30 -> Mar 2).
func calendarDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if int(d.Month()) != month || d.Day() != day || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}
