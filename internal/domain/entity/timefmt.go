package entity

import (
	"fmt"
	"time"
)

// DisplayLocation is the time zone used for French display dates.
// It falls back to a fixed UTC+1 zone when the tz database is unavailable.
var DisplayLocation = loadDisplayLocation()

func loadDisplayLocation() *time.Location {
	loc, err := time.LoadLocation("Africa/Casablanca")
	if err != nil {
		return time.FixedZone("Africa/Casablanca", 60*60)
	}
	return loc
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// TimeAgo renders the age of t relative to now in French.
//
// Buckets:
//   - under a minute (or in the future): "À l'instant"
//   - under an hour: "Il y a N min"
//   - under a day: "Il y a Nh"
//   - otherwise: "Il y a N jour(s)"
//
// A zero t (unknown publication date) renders as "".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	if d < time.Minute {
		return "À l'instant"
	}
	if d < time.Hour {
		return fmt.Sprintf("Il y a %d min", int(d/time.Minute))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("Il y a %dh", int(d/time.Hour))
	}
	days := int(d / (24 * time.Hour))
	if days == 1 {
		return "Il y a 1 jour"
	}
	return fmt.Sprintf("Il y a %d jours", days)
}

// FormatDate renders t as a long French date, e.g. "2 janvier 2026 à 14:05".
// A nil loc means DisplayLocation.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = DisplayLocation
	}
	lt := t.In(loc)
	return fmt.Sprintf("%d %s %d à %02d:%02d",
		lt.Day(), frenchMonths[lt.Month()-1], lt.Year(), lt.Hour(), lt.Minute())
}
