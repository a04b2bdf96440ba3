package schedule

import (
	"testing"
	"time"
)

func TestCombineConsecutiveStartsMerge(t *testing.T) {
	starts := []time.Time{
		et(2026, time.February, 4, 10, 0),
		et(2026, time.February, 4, 10, 30),
		et(2026, time.February, 4, 11, 0),
	}
	windows := CombineWindows(starts, etZone(t), 30)
	if len(windows) != 1 {
		t.Fatalf("expected one merged window, got %d", len(windows))
	}
	w := windows[0]
	if !w.StartRef.Equal(starts[0]) {
		t.Errorf("window start = %v, want %v", w.StartRef, starts[0])
	}
	if want := et(2026, time.February, 4, 11, 30); !w.EndRef.Equal(want) {
		t.Errorf("window end = %v, want %v", w.EndRef, want)
	}
	if w.Abbr != "EST" {
		t.Errorf("abbr = %q, want EST", w.Abbr)
	}
}

func TestCombineSplitsOnGap(t *testing.T) {
	starts := []time.Time{
		et(2026, time.February, 4, 10, 0),
		et(2026, time.February, 4, 15, 0),
	}
	windows := CombineWindows(starts, etZone(t), 30)
	if len(windows) != 2 {
		t.Fatalf("expected two windows across the midday gap, got %d", len(windows))
	}
}

func TestCombineSplitsAcrossDays(t *testing.T) {
	starts := []time.Time{
		et(2026, time.February, 4, 17, 0),
		et(2026, time.February, 5, 10, 0),
	}
	windows := CombineWindows(starts, etZone(t), 30)
	if len(windows) != 2 {
		t.Fatalf("windows must not merge across calendar days, got %d", len(windows))
	}
}

func TestCombineGapBoundaries(t *testing.T) {
	zone := etZone(t)

	t.Run("gap equal to increment merges", func(t *testing.T) {
		// 60-minute meetings at 10:00 and 11:30: the second starts 30
		// minutes after the first ends.
		starts := []time.Time{
			et(2026, time.February, 4, 10, 0),
			et(2026, time.February, 4, 11, 30),
		}
		windows := CombineWindows(starts, zone, 60)
		if len(windows) != 1 {
			t.Fatalf("touching-within-increment starts should merge, got %d windows", len(windows))
		}
		if want := et(2026, time.February, 4, 12, 30); !windows[0].EndRef.Equal(want) {
			t.Errorf("merged end = %v, want %v", windows[0].EndRef, want)
		}
	})

	t.Run("overlapping starts extend end forward only", func(t *testing.T) {
		// 60-minute meetings at 10:00 and 10:30 overlap; the window ends
		// at the later finish.
		starts := []time.Time{
			et(2026, time.February, 4, 10, 0),
			et(2026, time.February, 4, 10, 30),
		}
		windows := CombineWindows(starts, zone, 60)
		if len(windows) != 1 {
			t.Fatalf("overlapping starts should merge, got %d windows", len(windows))
		}
		if want := et(2026, time.February, 4, 11, 30); !windows[0].EndRef.Equal(want) {
			t.Errorf("merged end = %v, want %v", windows[0].EndRef, want)
		}
	})

	t.Run("gap past increment splits", func(t *testing.T) {
		starts := []time.Time{
			et(2026, time.February, 4, 10, 0),
			et(2026, time.February, 4, 11, 30),
		}
		windows := CombineWindows(starts, zone, 30)
		// 30-minute meeting at 10:00 ends 10:30; 11:30 starts 60 minutes
		// later, past the 30-minute tolerance.
		if len(windows) != 2 {
			t.Fatalf("expected a split past the increment tolerance, got %d windows", len(windows))
		}
	})
}

// Idempotence: no two adjacent output windows still satisfy the merge
// predicate, so re-folding the output changes nothing.
func TestCombineIdempotent(t *testing.T) {
	starts := []time.Time{
		et(2026, time.February, 4, 10, 0),
		et(2026, time.February, 4, 10, 30),
		et(2026, time.February, 4, 12, 30),
		et(2026, time.February, 4, 16, 0),
		et(2026, time.February, 5, 10, 0),
	}
	const durationMin = 30
	windows := CombineWindows(starts, etZone(t), durationMin)

	duration := time.Duration(durationMin) * time.Minute
	increment := IncrementMinutes * time.Minute
	for i := 1; i < len(windows); i++ {
		prev, cur := windows[i-1], windows[i]
		gap := cur.StartLocal.Sub(prev.EndLocal)
		if sameLocalDate(prev.EndLocal, cur.StartLocal) && gap <= increment && gap >= -duration {
			t.Errorf("windows %d and %d would merge again: gap %v", i-1, i, gap)
		}
	}

	for _, w := range windows {
		if w.EndLocal.Before(w.StartLocal) {
			t.Errorf("window end %v before start %v", w.EndLocal, w.StartLocal)
		}
		if int(w.EndLocal.Sub(w.StartLocal)/time.Minute)%IncrementMinutes != 0 {
			t.Errorf("window duration %v is not a multiple of the increment", w.EndLocal.Sub(w.StartLocal))
		}
	}
}

func TestCombineConvertsToDisplayZone(t *testing.T) {
	pst, ok := ResolveZone("PST")
	if !ok {
		t.Fatal("PST zone must resolve")
	}
	starts := []time.Time{et(2026, time.February, 4, 12, 0)}
	windows := CombineWindows(starts, pst, 30)
	if len(windows) != 1 {
		t.Fatalf("expected one window, got %d", len(windows))
	}
	w := windows[0]
	if got := w.StartLocal.Hour(); got != 9 {
		t.Errorf("noon Eastern should display as 9am Pacific, got hour %d", got)
	}
	if w.Abbr != "PST" {
		t.Errorf("abbr = %q, want PST", w.Abbr)
	}
	if !w.StartRef.Equal(starts[0]) {
		t.Errorf("reference start must stay Eastern: %v", w.StartRef)
	}
}
