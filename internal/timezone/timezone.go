package timezone

import (
	"errors"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "Australia/Sydney"

var ErrInvalidClock = errors.New("invalid_clock_time")

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseClock parses an "HH:MM" wall-clock time into minutes after midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return t.Hour()*60 + t.Minute(), nil
}

// IsOpenAt reports whether the wall-clock time of now falls in [opening, closing).
// A closing time before the opening time wraps past midnight. Missing hours
// mean the shop never closes.
func IsOpenAt(opening, closing string, now time.Time) bool {
	if opening == "" || closing == "" {
		return true
	}

	open, err := ParseClock(opening)
	if err != nil {
		return false
	}
	shut, err := ParseClock(closing)
	if err != nil {
		return false
	}

	cur := now.Hour()*60 + now.Minute()

	switch {
	case open == shut:
		return true
	case open < shut:
		return cur >= open && cur < shut
	default:
		return cur >= open || cur < shut
	}
}

// DayRange returns [start of from, start of the day after to) in loc.
func DayRange(from, to time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return start, end
}
