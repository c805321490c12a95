package www

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/egubrno/svr-dashboard-go/entsoe"
	"github.com/egubrno/svr-dashboard-go/hours"
)

func intOrDefault(u *url.URL, key string, defaultValue int) int {
	if v := u.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

// countryOrDefault resolves the "country" query parameter, falling back to
// the configured default for unknown or absent values.
func countryOrDefault(u *url.URL, defaultCountry string) string {
	c := strings.ToLower(u.Query().Get("country"))
	if _, ok := entsoe.EICForCountry(c); ok {
		return c
	}
	return defaultCountry
}

// dayOrToday resolves the "date" query parameter (YYYY-MM-DD), falling back
// to today for unparseable or absent values.
func dayOrToday(u *url.URL) hours.Day {
	if day, err := hours.ParseDay(u.Query().Get("date")); err == nil {
		return day
	}
	return hours.Today()
}

// directionOrBoth resolves the "direction" query parameter. Unknown or
// absent values mean both directions.
func directionOrBoth(u *url.URL) entsoe.Direction {
	switch strings.ToLower(u.Query().Get("direction")) {
	case "up":
		return entsoe.DirectionUp
	case "down":
		return entsoe.DirectionDown
	default:
		return entsoe.DirectionUnknown
	}
}

// hourOrDefault resolves the "hour" query parameter (0-23), -1 meaning all
// hours of the day.
func hourOrDefault(u *url.URL) int {
	h := intOrDefault(u, "hour", -1)
	if h < 0 || h > 23 {
		return -1
	}
	return h
}
