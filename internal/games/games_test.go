package games

import "errors"

// Shared test doubles for the engine tests.

var errNotEnough = errors.New("not enough gems")

type testBank struct {
	balance int64
	wager   int64
}

func (b *testBank) Balance() int64 { return b.balance }
func (b *testBank) Wager() int64   { return b.wager }

func (b *testBank) TryDebit(v int64) error {
	if v > b.balance {
		return errNotEnough
	}
	b.balance -= v
	return nil
}

func (b *testBank) Credit(v int64) { b.balance += v }

type testStats struct {
	wins, losses, pushes int
}

func (s *testStats) RecordWin()  { s.wins++ }
func (s *testStats) RecordLoss() { s.losses++ }
func (s *testStats) RecordPush() { s.pushes++ }

func (s *testStats) played() int { return s.wins + s.losses + s.pushes }

// scriptSource replays a fixed script of draws.
type scriptSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptSource) Float() float64 {
	f := s.floats[s.fi]
	s.fi++
	return f
}

func (s *scriptSource) Intn(n int) int {
	v := s.ints[s.ii]
	s.ii++
	return v % n
}

// fakeOverlay implements every engine overlay hook with settable fields.
type fakeOverlay struct {
	jackpot    bool
	color      Color
	disarm     bool
	esp        bool
	dealerBust bool
	seeHole    bool
}

func (o *fakeOverlay) ConsumeForceJackpot() bool {
	if !o.jackpot {
		return false
	}
	o.jackpot = false
	return true
}

func (o *fakeOverlay) ConsumeForcedColor() (Color, bool) {
	if o.color == "" {
		return "", false
	}
	c := o.color
	o.color = ""
	return c, true
}

func (o *fakeOverlay) DisarmReveals() bool { return o.disarm }
func (o *fakeOverlay) RevealLayout() bool  { return o.esp }

func (o *fakeOverlay) DealerBustForced() bool { return o.dealerBust }
func (o *fakeOverlay) ClearDealerBust()       { o.dealerBust = false }
func (o *fakeOverlay) SeeDealerCard() bool    { return o.seeHole }
