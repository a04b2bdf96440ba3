package schedule

import (
	"time"

	"golang.org/x/exp/slices"
)

// DayGroup is every availability window sharing one calendar date in the
// display timezone.
type DayGroup struct {
	Date    time.Time // local midnight
	Windows []Window
}

// GroupByDay buckets windows by their local calendar date and returns the
// groups in ascending date order regardless of input order.
func GroupByDay(windows []Window) []DayGroup {
	byDate := make(map[time.Time]*DayGroup)
	for _, w := range windows {
		y, m, d := w.StartLocal.Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, w.StartLocal.Location())
		g, ok := byDate[date]
		if !ok {
			g = &DayGroup{Date: date}
			byDate[date] = g
		}
		g.Windows = append(g.Windows, w)
	}

	days := make([]DayGroup, 0, len(byDate))
	for _, g := range byDate {
		days = append(days, *g)
	}
	slices.SortFunc(days, func(a, b DayGroup) int {
		return a.Date.Compare(b.Date)
	})
	return days
}

// TotalMinutes sums the day's window durations.
func (g DayGroup) TotalMinutes() int {
	total := 0
	for _, w := range g.Windows {
		total += int(w.EndLocal.Sub(w.StartLocal) / time.Minute)
	}
	return total
}

// SelectBestDays caps the suggestion list at max days. Days are scored by
// total available minutes; the top max are kept and re-sorted
// chronologically. Ties break toward the earlier date: the input is
// date-ascending and the sort is stable.
func SelectBestDays(days []DayGroup, max int) []DayGroup {
	if len(days) <= max {
		return days
	}

	scored := make([]DayGroup, len(days))
	copy(scored, days)
	slices.SortStableFunc(scored, func(a, b DayGroup) int {
		return b.TotalMinutes() - a.TotalMinutes()
	})

	selected := scored[:max]
	slices.SortFunc(selected, func(a, b DayGroup) int {
		return a.Date.Compare(b.Date)
	})
	return selected
}
