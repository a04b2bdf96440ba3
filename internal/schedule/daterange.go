package schedule

import "time"

// Named date-range selections a requester can pick when the email itself
// does not pin down dates.
const (
	RangeThisWeek = "this_week"
	RangeNextWeek = "next_week"
	RangeTwoWeeks = "two_weeks"
)

// ResolveDateRange turns a named range or a pair of custom YYYY-MM-DD
// bounds into [start, end) Eastern midnights. Custom bounds win when both
// parse; otherwise the named range applies, defaulting to two weeks.
func ResolveDateRange(kind, customStart, customEnd string, now time.Time) (time.Time, time.Time) {
	today := midnight(now.In(eastern))

	if customStart != "" && customEnd != "" {
		start, errS := time.ParseInLocation("2006-01-02", customStart, eastern)
		end, errE := time.ParseInLocation("2006-01-02", customEnd, eastern)
		if errS == nil && errE == nil {
			return start, end
		}
	}

	switch kind {
	case RangeThisWeek:
		start := today.AddDate(0, 0, 1)
		end := today.AddDate(0, 0, daysUntilSunday(today)+1)
		return start, end
	case RangeNextWeek:
		monday := NextMonday(today)
		return monday, monday.AddDate(0, 0, 7)
	default: // RangeTwoWeeks and anything unrecognized
		return today.AddDate(0, 0, 1), today.AddDate(0, 0, 15)
	}
}

// NextMonday returns the Monday strictly after t's date in t's location.
func NextMonday(t time.Time) time.Time {
	days := (7 - mondayIndexedWeekday(t)) % 7
	if days == 0 {
		days = 7
	}
	return midnight(t).AddDate(0, 0, days)
}

func daysUntilSunday(t time.Time) int {
	return (6 - mondayIndexedWeekday(t)) % 7
}

// mondayIndexedWeekday maps Monday to 0 through Sunday to 6.
func mondayIndexedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
