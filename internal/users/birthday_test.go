package users

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpcomingBirthdayWindowWithinMonth(t *testing.T) {
	window := UpcomingBirthdayWindow(date(2025, time.June, 10), 7)
	if len(window) != 8 {
		t.Fatalf("expected 8 days, got %d", len(window))
	}
	if window[0] != (MonthDay{Month: time.June, Day: 10}) {
		t.Fatalf("unexpected first day %+v", window[0])
	}
	if window[7] != (MonthDay{Month: time.June, Day: 17}) {
		t.Fatalf("unexpected last day %+v", window[7])
	}
}

func TestUpcomingBirthdayWindowCrossesMonthBoundary(t *testing.T) {
	window := UpcomingBirthdayWindow(date(2025, time.June, 28), 7)

	// Born July 3rd in any year: inside the window.
	if !BirthdayInWindow(date(1990, time.July, 3), window) {
		t.Fatal("expected July 3 birthday inside window spanning June/July")
	}
	// Born June 27th: just before the window.
	if BirthdayInWindow(date(1990, time.June, 27), window) {
		t.Fatal("June 27 should be outside the window")
	}
	// Born July 6th: just past the window end (July 5).
	if BirthdayInWindow(date(1990, time.July, 6), window) {
		t.Fatal("July 6 should be outside the window")
	}
}

func TestUpcomingBirthdayWindowCrossesYearBoundary(t *testing.T) {
	window := UpcomingBirthdayWindow(date(2025, time.December, 29), 7)

	if !BirthdayInWindow(date(1985, time.January, 2), window) {
		t.Fatal("expected January 2 birthday inside window spanning the new year")
	}
	if !BirthdayInWindow(date(1985, time.December, 31), window) {
		t.Fatal("expected December 31 birthday inside window")
	}
	if BirthdayInWindow(date(1985, time.January, 6), window) {
		t.Fatal("January 6 should be outside the window")
	}
}

func TestUpcomingBirthdayWindowIncludesLeapDay(t *testing.T) {
	window := UpcomingBirthdayWindow(date(2024, time.February, 25), 7)
	if !BirthdayInWindow(date(2000, time.February, 29), window) {
		t.Fatal("expected leap-day birthday inside window in a leap year")
	}
}

func TestUpcomingBirthdayWindowNegativeDays(t *testing.T) {
	if window := UpcomingBirthdayWindow(date(2025, time.June, 1), -1); window != nil {
		t.Fatalf("expected nil window, got %v", window)
	}
}
