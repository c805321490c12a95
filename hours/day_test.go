package hours

import (
	"testing"
	"time"
)

func TestDayString(t *testing.T) {
	d := Day{Date: "2025-01-01"}
	if s := d.String(); s != "2025-01-01" {
		t.Errorf("String() expected %q, got %q", "2025-01-01", s)
	}
}

func TestDayStart(t *testing.T) {
	d := Day{Date: "2025-01-01"}
	expected := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if s := d.Start(); !s.Equal(expected) {
		t.Errorf("Start() expected %v, got %v", expected, s)
	}

	var zero Day
	if !zero.Start().IsZero() {
		t.Errorf("Start() of a zero day should be the zero time")
	}
}

func TestDayAdd(t *testing.T) {
	tests := []struct {
		name     string
		input    Day
		days     int
		expected Day
	}{
		{
			name:     "add within same month",
			input:    Day{Date: "2025-01-01"},
			days:     2,
			expected: Day{Date: "2025-01-03"},
		},
		{
			name:     "add crossing month boundary",
			input:    Day{Date: "2025-01-31"},
			days:     1,
			expected: Day{Date: "2025-02-01"},
		},
		{
			name:     "subtract crossing year boundary",
			input:    Day{Date: "2025-01-01"},
			days:     -1,
			expected: Day{Date: "2024-12-31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.input.Add(tt.days)
			if result != tt.expected {
				t.Errorf("Add(%d) expected %+v, got %+v", tt.days, tt.expected, result)
			}
		})
	}
}

func TestDayPrevNext(t *testing.T) {
	d := Day{Date: "2025-03-01"}
	if p := d.Prev(); p.Date != "2025-02-28" {
		t.Errorf("Prev() expected 2025-02-28, got %s", p.Date)
	}
	if n := d.Next(); n.Date != "2025-03-02" {
		t.Errorf("Next() expected 2025-03-02, got %s", n.Date)
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-06-15")
	if err != nil {
		t.Fatalf("ParseDay() unexpected error: %v", err)
	}
	if d.Date != "2025-06-15" {
		t.Errorf("ParseDay() expected 2025-06-15, got %s", d.Date)
	}

	if _, err := ParseDay("not a date"); err == nil {
		t.Errorf("ParseDay() expected error for invalid input")
	}
}

func TestDayInLocation(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// 23:30 UTC belongs to the next local day in Prague (UTC+1 in winter).
	late := time.Date(2025, time.January, 1, 23, 30, 0, 0, time.UTC)
	if d := DayInLocation(late, prague); d.Date != "2025-01-02" {
		t.Errorf("DayInLocation() expected 2025-01-02, got %s", d.Date)
	}

	noon := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	if d := DayInLocation(noon, prague); d.Date != "2025-01-01" {
		t.Errorf("DayInLocation() expected 2025-01-01, got %s", d.Date)
	}
}

func TestDayCompare(t *testing.T) {
	a := Day{Date: "2025-01-01"}
	b := Day{Date: "2025-01-02"}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare() ordering is wrong")
	}
}
