package games

import (
	"testing"

	"github.com/KibbyCaps/gem-casino/internal/engine"
)

func TestMinesMultiplier(t *testing.T) {
	tests := []struct {
		mines    int
		revealed int
		want     string
	}{
		{7, 0, "1"},
		{7, 1, "1.39"},
		{7, 3, "2.68"},
		{24, 1, "25"},
		{0, 5, "1"},
		{3, 2, "1.29"},
	}
	for _, tt := range tests {
		got := Multiplier(tt.mines, tt.revealed)
		if got.String() != tt.want {
			t.Errorf("Multiplier(%d, %d) = %s, want %s", tt.mines, tt.revealed, got, tt.want)
		}
	}
}

func TestMinesStartPlacesExactCount(t *testing.T) {
	bank := &testBank{balance: 1000, wager: 50}
	m := NewMines(bank, &testStats{}, engine.NewStream("placement", "test", 1), nil)

	if err := m.Start(7); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if bank.balance != 950 {
		t.Errorf("expected wager debited, balance %d", bank.balance)
	}

	mines := 0
	for _, isMine := range m.mines {
		if isMine {
			mines++
		}
	}
	if mines != 7 {
		t.Errorf("expected exactly 7 mines, got %d", mines)
	}
}

func TestMinesStartRejections(t *testing.T) {
	bank := &testBank{balance: 1000, wager: 50}
	m := NewMines(bank, &testStats{}, engine.NewStream("reject", "test", 1), nil)

	if err := m.Start(0); err != ErrMineCount {
		t.Errorf("count 0: expected ErrMineCount, got %v", err)
	}
	if err := m.Start(25); err != ErrMineCount {
		t.Errorf("count 25: expected ErrMineCount, got %v", err)
	}
	if bank.balance != 1000 {
		t.Errorf("rejected start mutated balance: %d", bank.balance)
	}

	if err := m.Start(7); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := m.Start(7); err != ErrRoundActive {
		t.Errorf("expected ErrRoundActive, got %v", err)
	}
	if bank.balance != 950 {
		t.Errorf("rejected restart mutated balance: %d", bank.balance)
	}

	poor := &testBank{balance: 20, wager: 50}
	m2 := NewMines(poor, &testStats{}, engine.NewStream("poor", "test", 1), nil)
	if err := m2.Start(7); err == nil {
		t.Error("expected rejection for insufficient balance")
	}
}

// scriptedMines starts a round with mines at cells 0..count-1.
func scriptedMines(bank *testBank, stats *testStats, count int, overlay MinesOverlay) *Mines {
	ints := make([]int, count)
	for i := range ints {
		ints[i] = i
	}
	m := NewMines(bank, stats, &scriptSource{ints: ints}, overlay)
	if err := m.Start(count); err != nil {
		panic(err)
	}
	return m
}

func TestMinesRevealSafeThenCashout(t *testing.T) {
	bank := &testBank{balance: 1000, wager: 50}
	stats := &testStats{}
	m := scriptedMines(bank, stats, 7, nil) // mines at 0..6

	for i, cell := range []int{7, 8, 9} {
		res, err := m.Reveal(cell)
		if err != nil {
			t.Fatalf("Reveal(%d) failed: %v", cell, err)
		}
		if res.Mine {
			t.Fatalf("cell %d should be safe", cell)
		}
		if res.SafeRevealed != i+1 {
			t.Errorf("expected %d safe reveals, got %d", i+1, res.SafeRevealed)
		}
	}

	cash, err := m.Cashout()
	if err != nil {
		t.Fatalf("Cashout failed: %v", err)
	}
	if cash.Multiplier.String() != "2.68" {
		t.Errorf("expected multiplier 2.68, got %s", cash.Multiplier)
	}
	if cash.Payout != 134 {
		t.Errorf("expected floor(50 x 2.68) = 134, got %d", cash.Payout)
	}
	if bank.balance != 1084 {
		t.Errorf("expected balance 1084, got %d", bank.balance)
	}
	if len(cash.MinePositions) != 7 {
		t.Errorf("cash-out must expose all 7 mines, got %v", cash.MinePositions)
	}
	if stats.wins != 1 {
		t.Error("expected a recorded win")
	}
	if m.Active() {
		t.Error("round must end on cash-out")
	}
}

func TestMinesRevealMine(t *testing.T) {
	bank := &testBank{balance: 1000, wager: 50}
	stats := &testStats{}
	m := scriptedMines(bank, stats, 7, nil)

	res, err := m.Reveal(0)
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if !res.Mine {
		t.Fatal("cell 0 should be a mine")
	}
	if res.Result == nil || res.Result.OutcomeKind != "mine" {
		t.Errorf("expected mine resolution, got %+v", res.Result)
	}
	if len(res.MinePositions) != 7 {
		t.Errorf("loss must expose all mines, got %v", res.MinePositions)
	}
	if bank.balance != 950 {
		t.Errorf("expected balance 950, got %d", bank.balance)
	}
	if stats.losses != 1 {
		t.Error("expected a recorded loss")
	}
	if m.Active() {
		t.Error("round must end on a mine")
	}
}

func TestMinesRevealNoOps(t *testing.T) {
	bank := &testBank{balance: 1000, wager: 50}
	m := scriptedMines(bank, &testStats{}, 7, nil)

	if _, err := m.Reveal(-1); err != ErrBadCell {
		t.Errorf("expected ErrBadCell, got %v", err)
	}
	if _, err := m.Reveal(25); err != ErrBadCell {
		t.Errorf("expected ErrBadCell, got %v", err)
	}

	if _, err := m.Reveal(10); err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if _, err := m.Reveal(10); err != ErrCellRevealed {
		t.Errorf("expected ErrCellRevealed, got %v", err)
	}

	idle := NewMines(bank, &testStats{}, engine.NewStream("idle", "test", 1), nil)
	if _, err := idle.Reveal(0); err != ErrNoActiveRound {
		t.Errorf("expected ErrNoActiveRound, got %v", err)
	}
	if _, err := idle.Cashout(); err != ErrNoActiveRound {
		t.Errorf("cashout while idle: expected ErrNoActiveRound, got %v", err)
	}
}

func TestMinesClearAllSafeCells(t *testing.T) {
	bank := &testBank{balance: 1000, wager: 50}
	stats := &testStats{}
	m := scriptedMines(bank, stats, 24, nil) // single safe cell at 24

	res, err := m.Reveal(24)
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if res.Result == nil || res.Result.OutcomeKind != "cleared" {
		t.Fatalf("expected cleared resolution, got %+v", res.Result)
	}
	if res.Multiplier.String() != "25" {
		t.Errorf("expected multiplier 25, got %s", res.Multiplier)
	}
	// floor(50 x 25) credited on top of the already-debited wager.
	if bank.balance != 2200 {
		t.Errorf("expected balance 2200, got %d", bank.balance)
	}
	if stats.wins != 1 {
		t.Error("expected a recorded win")
	}
}

func TestMinesAutoWinCheat(t *testing.T) {
	bank := &testBank{balance: 1000, wager: 50}
	stats := &testStats{}
	overlay := &fakeOverlay{disarm: true}
	m := scriptedMines(bank, stats, 7, overlay)

	// Cell 0 holds a mine; the cheat rewrites it to safe at reveal time.
	res, err := m.Reveal(0)
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if res.Mine {
		t.Error("disarmed reveal must never hit a mine")
	}
	if res.SafeRevealed != 1 {
		t.Errorf("expected 1 safe reveal, got %d", res.SafeRevealed)
	}
	if m.Active() != true {
		t.Error("round must continue after a disarmed reveal")
	}
}

func TestMinesAbandon(t *testing.T) {
	bank := &testBank{balance: 1000, wager: 50}
	stats := &testStats{}
	m := scriptedMines(bank, stats, 7, nil)

	res, ok := m.Abandon()
	if !ok {
		t.Fatal("expected abandon to resolve the round")
	}
	if res.OutcomeKind != "abandoned" || res.AmountDelta != -50 {
		t.Errorf("unexpected abandon result: %+v", res)
	}
	if stats.losses != 1 {
		t.Error("abandoned round must count as a loss")
	}
	if _, ok := m.Abandon(); ok {
		t.Error("second abandon must report false")
	}
}

func TestMinesViewESP(t *testing.T) {
	m := scriptedMines(&testBank{balance: 1000, wager: 50}, &testStats{}, 7, &fakeOverlay{})
	if v := m.View(); v.MinePositions != nil {
		t.Errorf("layout must stay hidden without the cheat: %v", v.MinePositions)
	}

	esp := scriptedMines(&testBank{balance: 1000, wager: 50}, &testStats{}, 7, &fakeOverlay{esp: true})
	if v := esp.View(); len(v.MinePositions) != 7 {
		t.Errorf("ESP view must expose the layout, got %v", v.MinePositions)
	}
}
