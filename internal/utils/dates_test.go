package utils

import (
	"errors"
	"testing"
	"time"
)

// 2025-08-20 is a Wednesday.
var testRef = time.Date(2025, 8, 20, 15, 0, 0, 0, time.UTC)

func resolve(t *testing.T, phrase string, ref time.Time) string {
	t.Helper()
	d, err := ResolveDate(phrase, ref, time.UTC)
	if err != nil {
		t.Fatalf("ResolveDate(%q) returned error: %v", phrase, err)
	}
	return FormatDate(d)
}

func TestResolveDate_Literals(t *testing.T) {
	tests := []struct {
		phrase string
		want   string
	}{
		{"today", "2025-08-20"},
		{"Today", "2025-08-20"},
		{"tomorrow", "2025-08-21"},
		{"tommorow", "2025-08-21"},
		{"tmrw", "2025-08-21"},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			if got := resolve(t, tt.phrase, testRef); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveDate_RelativeOffsets(t *testing.T) {
	tests := []struct {
		phrase string
		want   string
	}{
		{"in 3 days", "2025-08-23"},
		{"3 days", "2025-08-23"},
		{"in three days", "2025-08-23"},
		{"in 1 day", "2025-08-21"},
		{"in zero days", "2025-08-20"},
		{"in 2 weeks", "2025-09-03"},
		{"in two weeks", "2025-09-03"},
		{"in 1 month", "2025-09-20"},
		{"in twelve months", "2026-08-20"},
		{"in 10 days from now", "2025-08-30"},
		{"a week from now", "2025-08-27"},
		{"a month from now", "2025-09-20"},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			if got := resolve(t, tt.phrase, testRef); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveDate_MonthOffsetClamps(t *testing.T) {
	ref := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)
	if got := resolve(t, "in 1 month", ref); got != "2025-02-28" {
		t.Errorf("Jan 31 + 1 month: got %s, want 2025-02-28", got)
	}
	leapRef := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	if got := resolve(t, "in 1 month", leapRef); got != "2024-02-29" {
		t.Errorf("Jan 31 + 1 month (leap): got %s, want 2024-02-29", got)
	}
}

func TestResolveDate_Weekdays(t *testing.T) {
	friday := time.Date(2025, 8, 22, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		phrase string
		ref    time.Time
		want   string
	}{
		{"next friday from wednesday", "next friday", testRef, "2025-08-22"},
		{"next friday on a friday skips a week", "next friday", friday, "2025-08-29"},
		{"bare weekday is strictly future", "friday", friday, "2025-08-29"},
		{"bare weekday from wednesday", "friday", testRef, "2025-08-22"},
		{"this friday on a friday is today", "this friday", friday, "2025-08-22"},
		{"on saturday", "on saturday", testRef, "2025-08-23"},
		{"next monday", "next monday", testRef, "2025-08-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(t, tt.phrase, tt.ref)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
			d, _ := ResolveDate(tt.phrase, tt.ref, time.UTC)
			if tt.phrase != "this friday" && !d.After(dateOf(tt.ref, time.UTC)) {
				t.Errorf("expected strictly future date, got %s", got)
			}
		})
	}
}

func TestResolveDate_CanonicalAndStaleYearRepair(t *testing.T) {
	tests := []struct {
		phrase string
		want   string
	}{
		{"2025-09-01", "2025-09-01"},
		{"2024-06-01", "2024-06-01"},    // one year back is kept as-is
		{"2019-09-01", "2025-09-01"},    // stale year moved to reference year
		{"2019-03-01", "2026-03-01"},    // still in the past, bumped a year
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			if got := resolve(t, tt.phrase, testRef); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveDate_NumericFormats(t *testing.T) {
	tests := []struct {
		phrase string
		want   string
	}{
		{"05/13/2025", "2025-05-13"}, // month-day-year
		{"13/05/2025", "2025-05-13"}, // invalid as MDY, retried as DMY
		{"13-05-25", "2025-05-13"},   // two-digit year is 2000s
		{"9/3/2025", "2025-09-03"},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			if got := resolve(t, tt.phrase, testRef); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveDate_FreeFormFallback(t *testing.T) {
	tests := []struct {
		phrase string
		want   string
	}{
		{"september 3", "2025-09-03"},
		{"Sep 3, 2025", "2025-09-03"},
		{"march 3", "2026-03-03"}, // already passed this year
		{"december 1st", "2025-12-01"},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			if got := resolve(t, tt.phrase, testRef); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveDate_Unresolvable(t *testing.T) {
	for _, phrase := range []string{"", "whenever works", "next blursday", "in many days"} {
		t.Run(phrase, func(t *testing.T) {
			_, err := ResolveDate(phrase, testRef, time.UTC)
			if !errors.Is(err, ErrUnresolvedDate) {
				t.Errorf("expected ErrUnresolvedDate, got %v", err)
			}
		})
	}
}

func TestResolveDate_TimezoneMidnight(t *testing.T) {
	// 03:00 UTC on Aug 21 is still Aug 20 in Montreal.
	montreal := time.FixedZone("EDT", -4*3600)
	ref := time.Date(2025, 8, 21, 3, 0, 0, 0, time.UTC)

	d, err := ResolveDate("today", ref, montreal)
	if err != nil {
		t.Fatalf("ResolveDate: %v", err)
	}
	if got := FormatDate(d); got != "2025-08-20" {
		t.Errorf("today in Montreal: got %s, want 2025-08-20", got)
	}

	d, err = ResolveDate("tomorrow", ref, montreal)
	if err != nil {
		t.Fatalf("ResolveDate: %v", err)
	}
	if got := FormatDate(d); got != "2025-08-21" {
		t.Errorf("tomorrow in Montreal: got %s, want 2025-08-21", got)
	}
}

func TestDaysBetween(t *testing.T) {
	montreal, err := time.LoadLocation("America/Montreal")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	day := func(loc *time.Location, y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"plain two nights", day(time.UTC, 2025, 9, 3), day(time.UTC, 2025, 9, 5), 2},
		{"same day", day(time.UTC, 2025, 9, 3), day(time.UTC, 2025, 9, 3), 0},
		{"reversed is negative", day(time.UTC, 2025, 9, 5), day(time.UTC, 2025, 9, 3), -2},
		// 2025-03-09 is a 23-hour day in Montreal (spring forward).
		{"across spring forward", day(montreal, 2025, 3, 8), day(montreal, 2025, 3, 10), 2},
		// 2025-11-02 is a 25-hour day (fall back).
		{"across fall back", day(montreal, 2025, 11, 1), day(montreal, 2025, 11, 3), 2},
		{"single night over spring forward", day(montreal, 2025, 3, 8), day(montreal, 2025, 3, 9), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween(%s, %s) = %d, want %d",
					FormatDate(tt.from), FormatDate(tt.to), got, tt.want)
			}
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"7", 7, true},
		{"zero", 0, true},
		{"twelve", 12, true},
		{"Four", 4, true},
		{"thirteen", 0, false},
		{"many", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCount(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseCount(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
