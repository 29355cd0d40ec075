package domain

import (
	"testing"
	"time"
)

func TestDaySetEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	s := NewDaySet(time.Monday, time.Wednesday, time.Friday)
	encoded := s.Encode()
	if encoded != "2,4,6" {
		t.Fatalf("expected ordinal encoding 2,4,6, got %q", encoded)
	}
	if got := ParseDaySet(encoded); got != s {
		t.Fatalf("round trip mismatch: %v vs %v", got, s)
	}
	if got := Daily().Encode(); got != "1,2,3,4,5,6,7" {
		t.Fatalf("expected Sunday-first 1..7 ordinals, got %q", got)
	}
}

func TestParseDaySetDropsBadSegments(t *testing.T) {
	t.Parallel()
	got := ParseDaySet("2,,x,0,9,-2,6")
	want := NewDaySet(time.Monday, time.Friday)
	if got != want {
		t.Fatalf("expected bad segments dropped, got %v", got)
	}
	if ParseDaySet("") != 0 {
		t.Fatalf("empty string must decode to the empty set")
	}
}

func TestParseDayNames(t *testing.T) {
	t.Parallel()
	s, err := ParseDayNames([]string{"mon", "Wednesday", "FRI"})
	if err != nil {
		t.Fatalf("parse day names: %v", err)
	}
	if s != NewDaySet(time.Monday, time.Wednesday, time.Friday) {
		t.Fatalf("unexpected set: %v", s)
	}
	if _, err := ParseDayNames([]string{"blursday"}); err == nil {
		t.Fatalf("expected error for unknown day name")
	}
	daily, err := ParseDayNames([]string{"daily"})
	if err != nil || !daily.Daily() {
		t.Fatalf("expected daily set, got %v err=%v", daily, err)
	}
}

func TestDaySetString(t *testing.T) {
	t.Parallel()
	if got := DaySet(0).String(); got != "One-time" {
		t.Fatalf("empty set: %q", got)
	}
	if got := Daily().String(); got != "Daily" {
		t.Fatalf("daily set: %q", got)
	}
	if got := NewDaySet(time.Sunday, time.Wednesday).String(); got != "Sun, Wed" {
		t.Fatalf("partial set: %q", got)
	}
}

func TestNormalizeChallengeDefaultsToShake(t *testing.T) {
	t.Parallel()
	if NormalizeChallenge("MATH") != KindMath {
		t.Fatalf("MATH must normalize to itself")
	}
	if NormalizeChallenge("math") != KindMath {
		t.Fatalf("lowercase math must normalize to MATH")
	}
	if NormalizeChallenge("") != KindShake {
		t.Fatalf("missing kind must default to SHAKE")
	}
	if NormalizeChallenge("VIBRATE_ONLY") != KindShake {
		t.Fatalf("unrecognized kind must default to SHAKE")
	}
}
