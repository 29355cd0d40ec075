package domain

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.Local)
}

func TestNextOccurrenceOneTimeLaterToday(t *testing.T) {
	t.Parallel()
	// 2026-09-02 is a Wednesday.
	now := date(2026, time.September, 2, 6, 30)
	base := date(2026, time.September, 2, 7, 0)

	next, fellBack := NextOccurrence(base, 0, now)
	if fellBack {
		t.Fatalf("unexpected fallback")
	}
	if !next.Equal(date(2026, time.September, 2, 7, 0)) {
		t.Fatalf("expected same-day 07:00, got %v", next)
	}
}

func TestNextOccurrenceOneTimeAlreadyPassed(t *testing.T) {
	t.Parallel()
	now := date(2026, time.September, 2, 8, 0)
	base := date(2026, time.September, 2, 7, 0)

	next, _ := NextOccurrence(base, 0, now)
	if !next.Equal(date(2026, time.September, 3, 7, 0)) {
		t.Fatalf("expected next-day 07:00, got %v", next)
	}
}

func TestNextOccurrenceExactNowAdvances(t *testing.T) {
	t.Parallel()
	now := date(2026, time.September, 2, 7, 0)
	base := date(2026, time.September, 2, 7, 0)

	next, _ := NextOccurrence(base, 0, now)
	if !next.After(now) {
		t.Fatalf("result must be strictly after now, got %v", next)
	}
	if !next.Equal(date(2026, time.September, 3, 7, 0)) {
		t.Fatalf("expected next-day 07:00, got %v", next)
	}
}

func TestNextOccurrenceDailyMatchesOneTimeSemantics(t *testing.T) {
	t.Parallel()
	base := date(2026, time.September, 2, 7, 0)
	nows := []time.Time{
		date(2026, time.September, 2, 6, 0),
		date(2026, time.September, 2, 8, 0),
		date(2026, time.September, 5, 23, 59),
	}
	for _, now := range nows {
		oneTime, _ := NextOccurrence(base, 0, now)
		daily, _ := NextOccurrence(base, Daily(), now)
		if !oneTime.Equal(daily) {
			t.Fatalf("daily and one-time diverge at now=%v: %v vs %v", now, oneTime, daily)
		}
	}
}

func TestNextOccurrencePartialSetScenario(t *testing.T) {
	t.Parallel()
	// Alarm at 07:00 on Mon/Wed/Fri, now Tuesday 08:00.
	// 2026-09-01 is a Tuesday.
	now := date(2026, time.September, 1, 8, 0)
	base := date(2026, time.September, 1, 7, 0)
	days := NewDaySet(time.Monday, time.Wednesday, time.Friday)

	next, fellBack := NextOccurrence(base, days, now)
	if fellBack {
		t.Fatalf("unexpected fallback")
	}
	want := date(2026, time.September, 2, 7, 0)
	if !next.Equal(want) {
		t.Fatalf("expected Wednesday 07:00 (%v), got %v", want, next)
	}
	if next.Weekday() != time.Wednesday {
		t.Fatalf("expected Wednesday, got %v", next.Weekday())
	}
}

func TestNextOccurrencePartialSetIsEarliestValid(t *testing.T) {
	t.Parallel()
	base := date(2026, time.September, 1, 7, 0)
	days := NewDaySet(time.Saturday)
	now := date(2026, time.September, 1, 8, 0)

	next, _ := NextOccurrence(base, days, now)
	if next.Weekday() != time.Saturday {
		t.Fatalf("expected Saturday, got %v", next.Weekday())
	}
	// No Saturday 07:00 exists between now and the result.
	for c := atTimeOfDay(now, base); c.Before(next); c = c.AddDate(0, 0, 1) {
		if c.After(now) && days.Has(c.Weekday()) {
			t.Fatalf("earlier valid instant exists: %v", c)
		}
	}
}

func TestNextOccurrencePartialSetSameDayLater(t *testing.T) {
	t.Parallel()
	// Tuesday alarm on a Tuesday morning before the target time.
	now := date(2026, time.September, 1, 6, 0)
	base := date(2026, time.September, 1, 7, 0)
	days := NewDaySet(time.Tuesday)

	next, _ := NextOccurrence(base, days, now)
	if !next.Equal(date(2026, time.September, 1, 7, 0)) {
		t.Fatalf("expected same-day 07:00, got %v", next)
	}
}

func TestNextOccurrenceBoundExceededFallsBack(t *testing.T) {
	t.Parallel()
	// A set with no representable day cannot be built through the public
	// constructors; force one to exercise the defensive fallback.
	now := date(2026, time.September, 2, 8, 0)
	base := date(2026, time.September, 2, 7, 0)
	impossible := DaySet(1 << 7)

	next, fellBack := NextOccurrence(base, impossible, now)
	if !fellBack {
		t.Fatalf("expected fallback to trigger")
	}
	if !next.Equal(date(2026, time.September, 3, 7, 0)) {
		t.Fatalf("expected unfiltered next-day fallback, got %v", next)
	}
}
