package performance

import (
	"errors"
	"testing"
)

func TestTrackerAggregates(t *testing.T) {
	tr := NewTracker(&TrackerConfig{MaxRecent: 2, SlowThreshold: DefaultTrackerConfig().SlowThreshold})

	for i := 0; i < 3; i++ {
		m := tr.StartOperation("builder:insert", "ws-1")
		m.Complete()
	}
	failed := tr.StartOperation("export:generate", "ws-2")
	failed.SetError(errors.New("boom"))
	failed.Complete()
	failed.Complete()

	ops := tr.Operations()
	if len(ops) != 2 || ops[0].Operation != "builder:insert" || ops[0].Count != 3 {
		t.Fatalf("unexpected stats %+v", ops)
	}
	if ops[1].Failures != 1 || ops[1].Count != 1 {
		t.Errorf("double completion or failure not handled: %+v", ops[1])
	}

	if got := len(tr.RecentMarkers("")); got != 2 {
		t.Errorf("recent window not bounded: %d", got)
	}
	if got := tr.RecentMarkers("ws-2"); len(got) != 1 || got[0].Error != "boom" {
		t.Errorf("unexpected workspace markers %+v", got)
	}
	if tr.Health() != HealthUnhealthy {
		t.Errorf("expected unhealthy with 1 of 2 recent failed, got %s", tr.Health())
	}
}

func TestTrackerHealthUnknownWhenIdle(t *testing.T) {
	if h := NewTracker(nil).Health(); h != HealthUnknown {
		t.Errorf("expected unknown, got %s", h)
	}
}
