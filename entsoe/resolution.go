package entsoe

import "time"

// startLayout is the strict timeInterval/start format used by every
// document family.
const startLayout = "2006-01-02T15:04Z"

// Step maps an ISO-8601-like resolution tag to a duration. The mapping is
// total: unrecognized tags fall back to 15 minutes.
func Step(resolution string) time.Duration {
	switch resolution {
	case "PT60M", "P1H":
		return time.Hour
	case "PT30M":
		return 30 * time.Minute
	case "PT1M":
		return time.Minute
	default:
		return 15 * time.Minute
	}
}

// PointTime resolves a 1-based point position within a period to an absolute
// instant. Positions at or below zero produce instants before the period
// start; the source schema never emits them, but they must not be an error.
func PointTime(start time.Time, resolution string, position int) time.Time {
	return start.Add(time.Duration(position-1) * Step(resolution))
}
