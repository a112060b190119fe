// Package biztime provides utilities for clinic timezone calculations.
// All storage and transport use UTC. The clinic timezone is only used for
// date boundaries: receipt dates, entitlement start and expiry dates.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default clinic timezone.
	DefaultTimezone = "Asia/Seoul"

	// DateLayout is the wire format for date-only fields (receipt dates,
	// entitlement start/expiry).
	DateLayout = "2006-01-02"
)

var (
	clinicLocation *time.Location
	locationOnce   sync.Once
	initErr        error
)

// Init initializes the clinic timezone. Should be called once at startup.
// If tz is empty, defaults to Asia/Seoul.
func Init(tz string) error {
	locationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		clinicLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the clinic timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize clinic timezone %q: %v", tz, err))
	}
}

// Location returns the clinic timezone location, auto-initializing with the
// default when Init was never called.
func Location() *time.Location {
	if clinicLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return clinicLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Today returns the current date in the clinic timezone, truncated to
// midnight UTC for storage.
func Today() time.Time {
	now := time.Now().In(Location())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a date-only string (2006-01-02) into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a stored date as its date-only wire form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddMonths advances a date by whole calendar months, used for membership and
// cycle expiry computation.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}
