package entsoe

import (
	"strings"
	"time"
)

// eicByCountry maps country codes to the EIC (Energy Identification Code)
// used as the domain parameter of the Transparency Platform API. The table
// is closed: unmapped countries short-circuit to an empty result upstream.
var eicByCountry = map[string]string{
	"CZ":         "10YCZ-CEPS-----N",
	"DE_50":      "10YDE-VE-------2",
	"DE_TR":      "10YDE-ENBW-----N",
	"DE_TENNET":  "10YDE-EON------1",
	"DE_AMPRION": "10YDE-RWENET---I",
	"AT":         "10YAT-APG------L",
	"PL":         "10YPL-AREA-----S",
	"SK":         "10YSK-SEPS-----K",
	"BE":         "10YBE----------2",
	"FR":         "10YFR-RTE------C",
}

var timezoneByCountry = map[string]string{
	"CZ":         "Europe/Prague",
	"DE_50":      "Europe/Berlin",
	"DE_TR":      "Europe/Berlin",
	"DE_TENNET":  "Europe/Berlin",
	"DE_AMPRION": "Europe/Berlin",
	"AT":         "Europe/Vienna",
	"PL":         "Europe/Warsaw",
	"SK":         "Europe/Bratislava",
	"BE":         "Europe/Brussels",
	"FR":         "Europe/Paris",
}

// Countries lists the supported country codes.
func Countries() []string {
	keys := make([]string, 0, len(eicByCountry))
	for k := range eicByCountry {
		keys = append(keys, k)
	}
	return keys
}

// EICForCountry returns the EIC code for a country code (case-insensitive).
// The second return value is false for unmapped countries.
func EICForCountry(country string) (string, bool) {
	eic, ok := eicByCountry[strings.ToUpper(strings.TrimSpace(country))]
	return eic, ok
}

// LocationForCountry returns the civil timezone of a country, falling back
// to UTC for unmapped countries.
func LocationForCountry(country string) *time.Location {
	tz, ok := timezoneByCountry[strings.ToUpper(strings.TrimSpace(country))]
	if !ok {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
