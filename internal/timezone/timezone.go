package timezone

import "time"

const DefaultTimezone = "UTC"

// Clock returns the current instant. Use cases take one so tests can pin time.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves a salon timezone, falling back to UTC.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

func NowIn(clock Clock, tz string) time.Time {
	if clock == nil {
		clock = SystemClock
	}
	return clock().In(Location(tz))
}

// StartOfDay truncates t to local midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func ParseDate(date string, tz string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, Location(tz))
}

func ParseDateTime(date, clock string, tz string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, Location(tz))
}
