package timeutil

import (
	"testing"
	"time"
)

func TestParseDateDefaultsToToday(t *testing.T) {
	loc := time.FixedZone("UTC+5:30", 5*60*60+30*60)
	// 20:00 UTC on the 1st is already the 2nd at UTC+5:30.
	clock := NewFixedClock(loc, time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC))

	got, err := clock.ParseDate("")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := Date{Year: 2024, Month: time.March, Day: 2}
	if got != want {
		t.Fatalf("ParseDate(\"\") = %v, want %v", got, want)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	clock := NewClock("UTC")
	for _, in := range []string{"2024/03/01", "yesterday", "2024-13-01"} {
		if _, err := clock.ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) succeeded, want error", in)
		}
	}
}

func TestSameDayUsesServiceZone(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*60*60)
	clock := NewFixedClock(loc, time.Time{})

	// 03:00 UTC on the 5th is 19:00 on the 4th at UTC-8.
	instant := time.Date(2024, 6, 5, 3, 0, 0, 0, time.UTC)
	if !clock.SameDay(instant, Date{Year: 2024, Month: time.June, Day: 4}) {
		t.Errorf("expected instant to fall on 2024-06-04 in service zone")
	}
	if clock.SameDay(instant, Date{Year: 2024, Month: time.June, Day: 5}) {
		t.Errorf("instant should not fall on 2024-06-05 in service zone")
	}
}

func TestDateAddDaysCrossesMonth(t *testing.T) {
	d := Date{Year: 2024, Month: time.March, Day: 1}
	if got := d.AddDays(-1).String(); got != "2024-02-29" {
		t.Errorf("AddDays(-1) = %s, want 2024-02-29", got)
	}
}

func TestUnknownZoneFallsBackToUTC(t *testing.T) {
	clock := NewClock("Not/AZone")
	if clock.Location() != time.UTC {
		t.Errorf("Location = %v, want UTC", clock.Location())
	}
}
