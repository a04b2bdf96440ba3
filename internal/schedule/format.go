package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DayLine is one presentable day of availability: a display-timezone line,
// a parallel Eastern line for verification, and the first window's start as
// a machine-readable timestamp.
type DayLine struct {
	Display      string `json:"local"`
	Verification string `json:"est"`
	StartISO     string `json:"start_iso"`
}

// FormatDays renders each day group into exactly one DayLine. Multiple
// windows on a day are comma-joined into a single line, e.g.
// "Friday, February 13 from 10:00 AM to 10:30 AM, 3:00 PM to 5:30 PM EST".
func FormatDays(days []DayGroup) []DayLine {
	lines := make([]DayLine, 0, len(days))
	for _, day := range days {
		if len(day.Windows) == 0 {
			continue
		}
		first := day.Windows[0]
		dateStr := first.StartLocal.Format("Monday, January 02")

		localRanges := make([]string, 0, len(day.Windows))
		refRanges := make([]string, 0, len(day.Windows))
		for _, w := range day.Windows {
			localRanges = append(localRanges,
				fmt.Sprintf("%s to %s", clockTime(w.StartLocal), clockTime(w.EndLocal)))
			refRanges = append(refRanges,
				fmt.Sprintf("%s to %s", clockTime(w.StartRef), clockTime(w.EndRef)))
		}

		lines = append(lines, DayLine{
			Display:      fmt.Sprintf("%s from %s %s", dateStr, strings.Join(localRanges, ", "), first.Abbr),
			Verification: strings.Join(refRanges, ", ") + " EST",
			StartISO:     first.StartRef.Format(time.RFC3339),
		})
	}
	return lines
}

// BulletList renders day lines as the bulleted block handed to the drafter.
func BulletList(lines []DayLine) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(l.Display)
	}
	return b.String()
}

// clockTime formats a 12-hour time without a leading zero, "3:04 PM".
func clockTime(t time.Time) string {
	return t.Format("3:04 PM")
}
