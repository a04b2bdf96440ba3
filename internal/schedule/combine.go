package schedule

import "time"

// Window is a continuous stretch of availability built from one or more
// consecutive meeting-start options, carried in both the reference and the
// display timezone.
type Window struct {
	StartRef   time.Time
	EndRef     time.Time
	StartLocal time.Time
	EndLocal   time.Time
	Abbr       string
}

// CombineWindows folds chronological meeting starts into availability
// windows. Consecutive 30-minute-spaced start options represent one free
// period, so a start whose local time lands within [-duration, +increment]
// minutes of the previous window's end merges into it, extending the end
// forward when the new meeting would finish later. Running the fold on its
// own output produces no further merging.
func CombineWindows(starts []time.Time, zone Zone, durationMin int) []Window {
	duration := time.Duration(durationMin) * time.Minute
	increment := IncrementMinutes * time.Minute

	var windows []Window
	for _, start := range starts {
		endRef := start.Add(duration)
		startLocal := start.In(zone.loc)
		endLocal := endRef.In(zone.loc)

		if n := len(windows); n > 0 {
			prev := &windows[n-1]
			gap := startLocal.Sub(prev.EndLocal)
			if sameLocalDate(prev.EndLocal, startLocal) && gap <= increment && gap >= -duration {
				if endLocal.After(prev.EndLocal) {
					prev.EndLocal = endLocal
					prev.EndRef = endRef
				}
				continue
			}
		}

		windows = append(windows, Window{
			StartRef:   start,
			EndRef:     endRef,
			StartLocal: startLocal,
			EndLocal:   endLocal,
			Abbr:       zone.Abbr,
		})
	}

	return windows
}
