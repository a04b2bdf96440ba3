package schedule

import (
	"testing"
	"time"
)

// et builds an Eastern instant on the grid.
func et(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, Eastern())
}

func etZone(t *testing.T) Zone {
	t.Helper()
	z, ok := ResolveZone("ET")
	if !ok {
		t.Fatal("ET zone must resolve")
	}
	return z
}

// 2026-02-04 is a Wednesday.
var (
	testDay   = et(2026, time.February, 4, 0, 0)
	testNext  = et(2026, time.February, 5, 0, 0)
	longAgo   = et(2020, time.January, 1, 0, 0)
	noBusy    = NewBlockedSet(nil)
	afternoon = []BusyInterval{{Start: et(2026, time.February, 4, 14, 0), End: et(2026, time.February, 4, 15, 0)}}
)

func TestBlockedSetPaddingBand(t *testing.T) {
	blocked := NewBlockedSet(afternoon)

	cases := []struct {
		at   time.Time
		want bool
	}{
		{et(2026, time.February, 4, 13, 0), false},  // well before
		{et(2026, time.February, 4, 13, 29), false}, // just outside band
		{et(2026, time.February, 4, 13, 30), true},  // band start, inclusive
		{et(2026, time.February, 4, 14, 30), true},  // inside meeting
		{et(2026, time.February, 4, 15, 29), true},  // just inside band end
		{et(2026, time.February, 4, 15, 30), false}, // band end, exclusive
	}
	for _, tc := range cases {
		if got := blocked.Contains(tc.at); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestBlockedSetMergesOverlaps(t *testing.T) {
	blocked := NewBlockedSet([]BusyInterval{
		{Start: et(2026, time.February, 4, 14, 0), End: et(2026, time.February, 4, 15, 0)},
		{Start: et(2026, time.February, 4, 15, 15), End: et(2026, time.February, 4, 16, 0)},
		{Start: et(2026, time.February, 4, 10, 0), End: et(2026, time.February, 4, 10, 30)},
	})
	if blocked.Len() != 2 {
		t.Fatalf("expected the two afternoon intervals to merge, got %d intervals", blocked.Len())
	}
	// Padding applied once per raw interval: 13:30 through 16:30 is blocked.
	if !blocked.Contains(et(2026, time.February, 4, 15, 5)) {
		t.Error("gap between overlapping padded intervals should be blocked")
	}
	if blocked.Contains(et(2026, time.February, 4, 16, 30)) {
		t.Error("16:30 is past the padded end and should be open")
	}
}

func TestBlockedSetNormalizesToEastern(t *testing.T) {
	utc := time.Date(2026, time.February, 4, 19, 0, 0, 0, time.UTC) // 2pm ET
	blocked := NewBlockedSet([]BusyInterval{{Start: utc, End: utc.Add(time.Hour)}})
	if !blocked.Contains(et(2026, time.February, 4, 14, 0)) {
		t.Error("UTC interval should block the equivalent Eastern instant")
	}
}

func TestFindMeetingStartsAroundBusyAfternoon(t *testing.T) {
	blocked := NewBlockedSet(afternoon)
	starts := FindMeetingStarts(blocked, testDay, testNext, etZone(t), 30, longAgo)

	have := make(map[string]bool, len(starts))
	for _, s := range starts {
		have[s.Format("15:04")] = true
	}

	// Grid cells 13:30 through 15:00 sit inside the padded band. A
	// 30-minute meeting consumes two cells, so 13:00 also fails (its
	// second cell is blocked) and 17:30 fails (second cell is off-grid).
	for _, want := range []string{"10:00", "12:00", "12:30", "15:30", "17:00"} {
		if !have[want] {
			t.Errorf("expected %s to be a valid meeting start", want)
		}
	}
	for _, reject := range []string{"13:00", "13:30", "14:00", "15:00", "17:30"} {
		if have[reject] {
			t.Errorf("expected %s to be rejected", reject)
		}
	}
}

func TestFindMeetingStartsSkipsWeekends(t *testing.T) {
	// 2026-02-07 and 08 are Saturday and Sunday.
	from := et(2026, time.February, 7, 0, 0)
	to := et(2026, time.February, 9, 0, 0)
	starts := FindMeetingStarts(noBusy, from, to, etZone(t), 30, longAgo)
	if len(starts) != 0 {
		t.Fatalf("weekends must produce no slots, got %d", len(starts))
	}
}

func TestFindMeetingStartsRejectsPast(t *testing.T) {
	now := et(2026, time.February, 4, 12, 0)
	starts := FindMeetingStarts(noBusy, testDay, testNext, etZone(t), 30, now)
	for _, s := range starts {
		if !s.After(now) {
			t.Errorf("start %v is not after now %v", s, now)
		}
	}
	// The 12:00 cell itself counts as past ("not after now").
	for _, s := range starts {
		if s.Equal(now) {
			t.Error("the cell equal to now must be rejected")
		}
	}
}

func TestFindMeetingStartsSecondaryZoneWindow(t *testing.T) {
	pst, ok := ResolveZone("PST")
	if !ok {
		t.Fatal("PST zone must resolve")
	}
	starts := FindMeetingStarts(noBusy, testDay, testNext, pst, 30, longAgo)
	if len(starts) == 0 {
		t.Fatal("expected Pacific-compatible starts")
	}
	// 10:00–11:30 ET is before 9am Pacific; the first workable cell is
	// noon Eastern.
	if first := starts[0]; !first.Equal(et(2026, time.February, 4, 12, 0)) {
		t.Errorf("first Pacific-valid start = %v, want noon ET", first)
	}
	for _, s := range starts {
		h := s.In(pst.Location()).Hour()
		if h < LocalStartHour || h >= LocalEndHour {
			t.Errorf("start %v falls outside the 9-5 Pacific window", s)
		}
	}
}

func TestFindMeetingStartsAllDayEventIgnoredUpstream(t *testing.T) {
	// All-day entries never reach the blocked set, so a day with only an
	// all-day event has the full grid open.
	starts := FindMeetingStarts(noBusy, testDay, testNext, etZone(t), 30, longAgo)
	if len(starts) != 15 {
		// 16 grid cells, minus 17:30 whose second cell is off-grid.
		t.Fatalf("open weekday should offer 15 meeting starts, got %d", len(starts))
	}
}

func TestFindMeetingStartsMonotonicInDuration(t *testing.T) {
	blocked := NewBlockedSet(afternoon)
	long := FindMeetingStarts(blocked, testDay, testNext, etZone(t), 60, longAgo)
	short := FindMeetingStarts(blocked, testDay, testNext, etZone(t), 30, longAgo)

	shortSet := make(map[int64]bool, len(short))
	for _, s := range short {
		shortSet[s.Unix()] = true
	}
	for _, s := range long {
		if !shortSet[s.Unix()] {
			t.Errorf("start %v valid for 60 minutes but not for 30", s)
		}
	}
	if len(long) >= len(short) {
		t.Errorf("longer meetings around a busy block should have fewer starts: 60min=%d 30min=%d", len(long), len(short))
	}
}
