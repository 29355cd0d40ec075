package domain

import "time"

// scanLimitDays bounds the weekday scan. A non-empty set always matches
// within a week; exceeding the bound means corrupted input.
const scanLimitDays = 366

// NextOccurrence computes the earliest instant strictly after now that lands
// on base's time of day and, for a partial day set, on a selected weekday.
// An empty set and the full 7-day set behave identically: today at the
// target time, or tomorrow if that has already passed.
//
// The second return value reports that the scan bound was exceeded and the
// unfiltered next-day fallback was used; callers log it as anomalous.
func NextOccurrence(base time.Time, days DaySet, now time.Time) (time.Time, bool) {
	candidate := atTimeOfDay(now, base)

	if days.Empty() || days.Daily() {
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate, false
	}

	for i := 0; i < scanLimitDays; i++ {
		c := candidate.AddDate(0, 0, i)
		if c.After(now) && days.Has(c.Weekday()) {
			return c, false
		}
	}

	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, true
}

// atTimeOfDay projects base's wall-clock time onto day's calendar date.
func atTimeOfDay(day, base time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), base.Hour(), base.Minute(), base.Second(), 0, day.Location())
}
