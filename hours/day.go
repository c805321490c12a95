package hours

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

var guiLocation *time.Location = time.UTC

func SetGuiTimezone(timezone string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %s: %v", timezone, err)
	}
	guiLocation = loc
	return nil
}

// Day is a civil calendar date without a time-of-day or a timezone.
type Day struct {
	Date string
}

func (d Day) String() string {
	return d.Date
}

// Start is the UTC midnight instant opening the day.
func (d Day) Start() time.Time {
	t, err := time.ParseInLocation(dayLayout, d.Date, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StartIn is the local midnight instant opening the day in loc.
func (d Day) StartIn(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(dayLayout, d.Date, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) Add(days int) Day {
	t := d.Start()
	if t.IsZero() {
		return d
	}
	return FromTime(t.AddDate(0, 0, days))
}

func (d Day) Next() Day {
	return d.Add(1)
}

func (d Day) Prev() Day {
	return d.Add(-1)
}

func (d Day) Compare(other Day) int {
	if d.Date < other.Date {
		return -1
	}
	if d.Date > other.Date {
		return 1
	}
	return 0
}

func (d Day) IsZero() bool {
	return d.Date == ""
}

func FromTime(t time.Time) Day {
	if t.IsZero() {
		return Day{}
	}
	return Day{Date: t.UTC().Format(dayLayout)}
}

func Today() Day {
	return FromTime(time.Now())
}

func ParseDay(str string) (Day, error) {
	t, err := time.Parse(dayLayout, str)
	if err != nil {
		return Day{}, fmt.Errorf("failed to parse day %q: %w", str, err)
	}
	return FromTime(t), nil
}

// DayInLocation reinterprets a UTC instant in the civil calendar of loc.
// A market interval can span local midnight, so a UTC timestamp may belong
// to a different local day than its UTC day.
func DayInLocation(t time.Time, loc *time.Location) Day {
	if t.IsZero() {
		return Day{}
	}
	return Day{Date: t.In(loc).Format(dayLayout)}
}

func FormatTimeInGuiTimezone(t time.Time) string {
	return t.In(guiLocation).Format("2006-01-02 15:04:05")
}

// HourLabelInGuiTimezone renders an instant as a chart axis label.
func HourLabelInGuiTimezone(t time.Time) string {
	return t.In(guiLocation).Format("15:04")
}
