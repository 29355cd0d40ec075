package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DaySet is a bitmask over time.Weekday. Empty means one-time; all seven
// days is the canonical representation of "daily".
type DaySet uint8

const allDays DaySet = 0x7f

func NewDaySet(days ...time.Weekday) DaySet {
	var s DaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s & allDays
}

func Daily() DaySet {
	return allDays
}

func (s DaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s DaySet) Count() int {
	n := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

func (s DaySet) Empty() bool {
	return s == 0
}

func (s DaySet) Daily() bool {
	return s == allDays
}

func (s DaySet) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Encode serializes the set as comma-joined weekday ordinals, the persisted
// wire format. Ordinals are Sunday=1 through Saturday=7. The empty set
// encodes as the empty string.
func (s DaySet) Encode() string {
	parts := make([]string, 0, 7)
	for _, d := range s.Weekdays() {
		parts = append(parts, strconv.Itoa(int(d)+1))
	}
	return strings.Join(parts, ",")
}

// ParseDaySet decodes a comma-joined ordinal list. Empty or unparseable
// segments are dropped rather than failing the whole record.
func ParseDaySet(raw string) DaySet {
	var s DaySet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > 7 {
			continue
		}
		s |= 1 << uint(n-1)
	}
	return s
}

var dayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseDayNames builds a set from human day names ("mon", "friday").
func ParseDayNames(names []string) (DaySet, error) {
	var s DaySet
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if key == "daily" {
			return Daily(), nil
		}
		d, ok := dayNames[key]
		if !ok {
			return 0, fmt.Errorf("unknown day name: %s", name)
		}
		s |= 1 << uint(d)
	}
	return s, nil
}

// String renders the set for display: "One-time", "Daily", or the short
// day names in Sunday-first order.
func (s DaySet) String() string {
	if s.Empty() {
		return "One-time"
	}
	if s.Daily() {
		return "Daily"
	}
	short := [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	parts := make([]string, 0, 6)
	for _, d := range s.Weekdays() {
		parts = append(parts, short[d])
	}
	return strings.Join(parts, ", ")
}
