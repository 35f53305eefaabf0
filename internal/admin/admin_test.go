package admin

import "testing"

func TestPolicyDefaults(t *testing.T) {
	p := NewPolicy()
	if p.HouseEdge() != DefaultHouseEdge {
		t.Errorf("house edge = %d, want %d", p.HouseEdge(), DefaultHouseEdge)
	}
	if p.MaxBet() != DefaultMaxBet {
		t.Errorf("max bet = %d, want %d", p.MaxBet(), DefaultMaxBet)
	}
	if p.Maintenance() || p.Debug() {
		t.Error("maintenance and debug must start off")
	}
}

func TestSetHouseEdge(t *testing.T) {
	p := NewPolicy()
	for _, bad := range []int{-1, 101} {
		if err := p.SetHouseEdge(bad); err != ErrHouseEdgeRange {
			t.Errorf("SetHouseEdge(%d) = %v, want ErrHouseEdgeRange", bad, err)
		}
	}
	if p.HouseEdge() != DefaultHouseEdge {
		t.Errorf("rejected update mutated edge: %d", p.HouseEdge())
	}
	for _, ok := range []int{0, 50, 100} {
		if err := p.SetHouseEdge(ok); err != nil {
			t.Errorf("SetHouseEdge(%d): %v", ok, err)
		}
	}
	if p.HouseEdge() != 100 {
		t.Errorf("house edge = %d, want 100", p.HouseEdge())
	}
}

func TestSetMaxBet(t *testing.T) {
	p := NewPolicy()
	if err := p.SetMaxBet(MaxBetFloor - 1); err != ErrMaxBetTooLow {
		t.Errorf("below floor = %v, want ErrMaxBetTooLow", err)
	}
	if p.MaxBet() != DefaultMaxBet {
		t.Errorf("rejected update mutated max bet: %d", p.MaxBet())
	}
	if err := p.SetMaxBet(5000); err != nil {
		t.Fatalf("SetMaxBet: %v", err)
	}
	if p.MaxBet() != 5000 {
		t.Errorf("max bet = %d, want 5000", p.MaxBet())
	}
}

func TestPolicySnapshotRestore(t *testing.T) {
	p := NewPolicy()
	p.SetHouseEdge(12)
	p.SetMaxBet(300)
	p.SetMaintenance(true)
	p.SetDebug(true)

	snap := p.Snapshot()
	q := NewPolicy()
	q.Restore(snap)
	if q.HouseEdge() != 12 || q.MaxBet() != 300 || !q.Maintenance() || !q.Debug() {
		t.Errorf("restored policy = %+v", q.Snapshot())
	}

	// Out-of-range persisted values fall back to defaults.
	r := NewPolicy()
	r.Restore(PolicySnapshot{HouseEdge: 200, MaxBet: 10})
	if r.HouseEdge() != DefaultHouseEdge || r.MaxBet() != DefaultMaxBet {
		t.Errorf("restore kept bad values: %+v", r.Snapshot())
	}
}

func TestStatsCounting(t *testing.T) {
	s := NewStats()
	s.RecordWin()
	s.RecordWin()
	s.RecordLoss()
	s.RecordPush()

	snap := s.Snapshot()
	if snap.GamesPlayed != 4 || snap.Wins != 2 || snap.Losses != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.WinRate != 50 {
		t.Errorf("win rate = %d, want 50", snap.WinRate)
	}
}

func TestStatsWinRateRounding(t *testing.T) {
	s := NewStats()
	s.RecordWin()
	s.RecordLoss()
	s.RecordLoss()
	// 1 of 3 rounds to 33.
	if got := s.Snapshot().WinRate; got != 33 {
		t.Errorf("win rate = %d, want 33", got)
	}
}

func TestStatsEmptyWinRate(t *testing.T) {
	if got := NewStats().Snapshot().WinRate; got != 0 {
		t.Errorf("empty win rate = %d, want 0", got)
	}
}

func TestStatsResetAndRestore(t *testing.T) {
	s := NewStats()
	s.RecordWin()
	s.Reset()
	if snap := s.Snapshot(); snap.GamesPlayed != 0 || snap.Wins != 0 {
		t.Errorf("after reset = %+v", snap)
	}

	s.Restore(StatsSnapshot{GamesPlayed: 10, Wins: 4, Losses: 6})
	snap := s.Snapshot()
	if snap.GamesPlayed != 10 || snap.Wins != 4 || snap.Losses != 6 || snap.WinRate != 40 {
		t.Errorf("restored = %+v", snap)
	}
}
