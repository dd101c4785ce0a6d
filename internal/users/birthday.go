package users

import "time"

// MonthDay is a calendar day independent of year, used to match birthdays.
type MonthDay struct {
	Month time.Month
	Day   int
}

// UpcomingBirthdayWindow expands the inclusive window [start, start+days]
// into the (month, day) pairs it covers. February 29 is included whenever
// the window passes over it in the year being walked, so stored leap-day
// birthdays match in leap years.
func UpcomingBirthdayWindow(start time.Time, days int) []MonthDay {
	if days < 0 {
		return nil
	}

	out := make([]MonthDay, 0, days+1)
	seen := make(map[MonthDay]bool, days+1)
	for i := 0; i <= days; i++ {
		d := start.AddDate(0, 0, i)
		md := MonthDay{Month: d.Month(), Day: d.Day()}
		if seen[md] {
			continue
		}
		seen[md] = true
		out = append(out, md)
	}
	return out
}

// BirthdayInWindow reports whether the given birth date falls inside the
// window, comparing month and day only.
func BirthdayInWindow(birthDate time.Time, window []MonthDay) bool {
	md := MonthDay{Month: birthDate.Month(), Day: birthDate.Day()}
	for _, w := range window {
		if w == md {
			return true
		}
	}
	return false
}
