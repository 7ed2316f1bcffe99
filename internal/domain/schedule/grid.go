// Package schedule centralizes the booking-grid arithmetic: clock parsing,
// slot generation from a window, and the time policies (past-slot and
// cancellation lead-time checks). Keeping them in one place prevents the
// resolver and the cancellation rule from drifting apart.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	// ClockLayout is the wire format for times of day.
	ClockLayout = "15:04"
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
)

var (
	ErrInvalidClock    = errors.New("invalid time format, use HH:MM")
	ErrInvalidDate     = errors.New("invalid date format, use YYYY-MM-DD")
	ErrWindowOrder     = errors.New("start_time must be before end_time")
	ErrWindowOffGrid   = errors.New("window duration must be a whole multiple of the slot granularity")
	ErrSlotOffGrid     = errors.New("time does not fall on the slot grid")
	ErrNonPositiveStep = errors.New("slot granularity must be positive")
)

// ParseClock converts "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatClock renders an offset from midnight as "HH:MM".
func FormatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// ParseDate converts "YYYY-MM-DD" into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// At combines a calendar date with a "HH:MM" clock into a single instant
// in the date's location.
func At(date time.Time, clock string) (time.Time, error) {
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.Add(offset), nil
}

// ValidateWindow checks the window invariants: parseable bounds, start
// strictly before end, and a duration that divides evenly by step.
func ValidateWindow(start, end string, step time.Duration) error {
	if step <= 0 {
		return ErrNonPositiveStep
	}
	s, err := ParseClock(start)
	if err != nil {
		return err
	}
	e, err := ParseClock(end)
	if err != nil {
		return err
	}
	if s >= e {
		return ErrWindowOrder
	}
	if (e-s)%step != 0 {
		return ErrWindowOffGrid
	}
	return nil
}

// SlotStarts expands a window into the start times of its grid slots,
// stepping from start in step increments. The last slot begins one full
// step before end so every slot fits inside the window.
func SlotStarts(start, end string, step time.Duration) ([]string, error) {
	if step <= 0 {
		return nil, ErrNonPositiveStep
	}
	s, err := ParseClock(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return nil, err
	}

	var slots []string
	for at := s; at+step <= e; at += step {
		slots = append(slots, FormatClock(at))
	}
	return slots, nil
}

// Overlaps reports whether two windows on the same day share any instant.
// Inputs are assumed to have been validated.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, _ := ParseClock(aStart)
	ae, _ := ParseClock(aEnd)
	bs, _ := ParseClock(bStart)
	be, _ := ParseClock(bEnd)
	return as < be && bs < ae
}

// SortDedup sorts "HH:MM" slot values ascending and removes duplicates
// introduced by overlapping windows.
func SortDedup(slots []string) []string {
	sort.Strings(slots)
	out := slots[:0]
	for i, s := range slots {
		if i == 0 || slots[i-1] != s {
			out = append(out, s)
		}
	}
	return out
}

// InPast reports whether the slot at (date, clock) begins at or before now.
func InPast(date time.Time, clock string, now time.Time) (bool, error) {
	at, err := At(date, clock)
	if err != nil {
		return false, err
	}
	return !at.After(now), nil
}

// WithinLead reports whether now is already inside the lead-time window
// before the appointment start, i.e. whether it is too late to cancel.
func WithinLead(date time.Time, clock string, now time.Time, lead time.Duration) (bool, error) {
	at, err := At(date, clock)
	if err != nil {
		return false, err
	}
	return !now.Before(at.Add(-lead)), nil
}

// SameDay reports whether two instants fall on the same calendar date,
// compared in a's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
