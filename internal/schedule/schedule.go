// Package schedule computes presentable meeting availability from calendar
// busy times. All comparisons are anchored to Eastern time; display output
// may be converted to a secondary timezone with its own working-hours window.
package schedule

import (
	"fmt"
	"time"
)

// Working-hours policy and grid constants. Hours are wall-clock hours in
// the zone they apply to.
const (
	WorkStartHour  = 10 // 10am ET
	WorkEndHour    = 18 // 6pm ET
	LocalStartHour = 9  // 9am in the display timezone
	LocalEndHour   = 17 // 5pm in the display timezone

	BufferMinutes    = 30
	IncrementMinutes = 30

	MaxSuggestedDays = 4
)

var (
	eastern = mustLocation("America/New_York")
	central = mustLocation("America/Chicago")
	pacific = mustLocation("America/Los_Angeles")
)

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("schedule: load location %s: %v", name, err))
	}
	return loc
}

// Eastern returns the reference timezone.
func Eastern() *time.Location {
	return eastern
}

// Zone is a display timezone a requester can ask for.
type Zone struct {
	Code string
	Abbr string
	loc  *time.Location
}

// ResolveZone maps a short timezone code ("ET", "CST", "PST") to a Zone.
func ResolveZone(code string) (Zone, bool) {
	switch code {
	case "ET":
		return Zone{Code: "ET", Abbr: "EST", loc: eastern}, true
	case "CST":
		return Zone{Code: "CST", Abbr: "CST", loc: central}, true
	case "PST":
		return Zone{Code: "PST", Abbr: "PST", loc: pacific}, true
	}
	return Zone{}, false
}

// Location returns the IANA location backing the zone.
func (z Zone) Location() *time.Location {
	return z.loc
}

// withinLocalHours reports whether an ET instant falls inside the display
// zone's working window. The reference zone is unconstrained here; its own
// window is enforced by the enumeration grid.
func (z Zone) withinLocalHours(t time.Time) bool {
	if z.Code == "ET" {
		return true
	}
	h := t.In(z.loc).Hour()
	return h >= LocalStartHour && h < LocalEndHour
}

func sameLocalDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
