package schedule

import "time"

// FindMeetingStarts walks each weekday in [from, to) on the 30-minute grid
// and returns every instant where a meeting of durationMin minutes can
// start. A grid cell is available when it is in the future, outside every
// blocked interval, and inside the display zone's working window. A cell is
// a valid meeting start only when enough consecutive cells are available to
// cover the meeting plus the trailing buffer, so a meeting can neither run
// off the grid nor into buffered busy time.
func FindMeetingStarts(blocked *BlockedSet, from, to time.Time, zone Zone, durationMin int, now time.Time) []time.Time {
	var cells []time.Time

	for day := from.In(eastern); day.Before(to); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for hour := WorkStartHour; hour < WorkEndHour; hour++ {
			for _, minute := range [2]int{0, 30} {
				cell := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, eastern)
				if !cell.After(now) {
					continue
				}
				if blocked.Contains(cell) {
					continue
				}
				if !zone.withinLocalHours(cell) {
					continue
				}
				cells = append(cells, cell)
			}
		}
	}

	if len(cells) == 0 {
		return nil
	}

	avail := make(map[int64]struct{}, len(cells))
	for _, c := range cells {
		avail[c.Unix()] = struct{}{}
	}

	cellsNeeded := (durationMin + BufferMinutes) / IncrementMinutes

	var starts []time.Time
	for _, c := range cells {
		open := true
		for i := 0; i < cellsNeeded; i++ {
			step := c.Add(time.Duration(i*IncrementMinutes) * time.Minute)
			if _, ok := avail[step.Unix()]; !ok {
				open = false
				break
			}
		}
		if open {
			starts = append(starts, c)
		}
	}

	return starts
}
