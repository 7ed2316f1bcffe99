package schedule

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 9*time.Hour + 30*time.Minute, false},
		{"23:45", 23*time.Hour + 45*time.Minute, false},
		{"24:00", 0, true},
		{"9:30am", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseClock(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrInvalidClock) {
				t.Errorf("ParseClock(%q) error = %v, want ErrInvalidClock", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) error = %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseClock(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFormatClockRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "08:05", "13:30", "23:45"} {
		d, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q) error: %v", s, err)
		}
		if got := FormatClock(d); got != s {
			t.Errorf("FormatClock(ParseClock(%q)) = %q", s, got)
		}
	}
}

func TestSlotStarts(t *testing.T) {
	got, err := SlotStarts("09:00", "11:00", 30*time.Minute)
	if err != nil {
		t.Fatalf("SlotStarts error: %v", err)
	}
	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SlotStarts = %v, want %v", got, want)
	}
}

func TestSlotStarts_LastSlotMustFit(t *testing.T) {
	// 09:00-09:45 with a 30m grid holds exactly one full slot.
	got, err := SlotStarts("09:00", "09:45", 30*time.Minute)
	if err != nil {
		t.Fatalf("SlotStarts error: %v", err)
	}
	want := []string{"09:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SlotStarts = %v, want %v", got, want)
	}
}

func TestSlotStarts_EmptyWindow(t *testing.T) {
	got, err := SlotStarts("09:00", "09:00", 30*time.Minute)
	if err != nil {
		t.Fatalf("SlotStarts error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SlotStarts = %v, want empty", got)
	}
}

func TestValidateWindow(t *testing.T) {
	step := 30 * time.Minute
	cases := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{"valid", "09:00", "11:00", nil},
		{"inverted", "11:00", "09:00", ErrWindowOrder},
		{"zero length", "09:00", "09:00", ErrWindowOrder},
		{"off grid", "09:00", "10:15", ErrWindowOffGrid},
		{"bad clock", "9am", "11:00", ErrInvalidClock},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateWindow(c.start, c.end, step)
			if !errors.Is(err, c.wantErr) {
				t.Errorf("ValidateWindow(%q, %q) = %v, want %v", c.start, c.end, err, c.wantErr)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		a0, a1, b0, b1 string
		want           bool
	}{
		{"09:00", "11:00", "10:30", "12:00", true},
		{"09:00", "11:00", "11:00", "12:00", false}, // touching is not overlap
		{"09:00", "11:00", "07:00", "09:00", false},
		{"09:00", "11:00", "09:30", "10:00", true}, // containment
	}
	for _, c := range cases {
		if got := Overlaps(c.a0, c.a1, c.b0, c.b1); got != c.want {
			t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v", c.a0, c.a1, c.b0, c.b1, got, c.want)
		}
	}
}

func TestSortDedup(t *testing.T) {
	got := SortDedup([]string{"10:00", "09:00", "10:00", "09:30", "09:00"})
	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortDedup = %v, want %v", got, want)
	}
}

func TestAt(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	at, err := At(date, "09:30")
	if err != nil {
		t.Fatalf("At error: %v", err)
	}
	want := time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("At = %v, want %v", at, want)
	}
}

func TestInPast(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		now  time.Time
		want bool
	}{
		{time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), false},
		{time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC), true}, // slot start == now is past
		{time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), true},
	}
	for _, c := range cases {
		got, err := InPast(date, "09:30", c.now)
		if err != nil {
			t.Fatalf("InPast error: %v", err)
		}
		if got != c.want {
			t.Errorf("InPast(now=%v) = %v, want %v", c.now, got, c.want)
		}
	}
}

// The lead-time law: cancellation is allowed iff now < start - lead.
func TestWithinLead(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	lead := time.Hour
	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before", time.Date(2026, 3, 9, 7, 0, 0, 0, time.UTC), false},
		{"exactly at boundary", time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC), true},
		{"30 minutes before start", time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), true},
		{"after start", time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := WithinLead(date, "09:30", c.now, lead)
			if err != nil {
				t.Fatalf("WithinLead error: %v", err)
			}
			if got != c.want {
				t.Errorf("WithinLead(now=%v) = %v, want %v", c.now, got, c.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
	if !SameDay(a, time.Date(2026, 3, 9, 1, 0, 0, 0, time.UTC)) {
		t.Error("expected same day")
	}
	if SameDay(a, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected different day")
	}
}
