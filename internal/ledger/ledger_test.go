package ledger

import "testing"

type fixedPolicy struct{ max int64 }

func (p fixedPolicy) MaxBet() int64 { return p.max }

type fixedFloor struct {
	threshold, reset int64
}

func (f fixedFloor) FloorBalance(current int64) (int64, bool) {
	if current < f.threshold {
		return f.reset, true
	}
	return current, false
}

func TestNewDefaults(t *testing.T) {
	l := New(1000, nil)
	if l.Balance() != 1000 {
		t.Errorf("balance = %d, want 1000", l.Balance())
	}
	for _, g := range Games {
		if l.Wager(g) != DefaultWager {
			t.Errorf("wager[%s] = %d, want %d", g, l.Wager(g), DefaultWager)
		}
	}
}

func TestTryDebit(t *testing.T) {
	l := New(100, nil)
	if err := l.TryDebit(60); err != nil {
		t.Fatalf("TryDebit: %v", err)
	}
	if err := l.TryDebit(50); err != ErrInsufficientGems {
		t.Errorf("over-debit = %v, want ErrInsufficientGems", err)
	}
	if l.Balance() != 40 {
		t.Errorf("failed debit mutated balance: %d", l.Balance())
	}
	if err := l.TryDebit(-1); err != ErrNegativeAmount {
		t.Errorf("negative debit = %v, want ErrNegativeAmount", err)
	}
}

func TestCreditIgnoresNegative(t *testing.T) {
	l := New(100, nil)
	l.Credit(50)
	l.Credit(-20)
	if l.Balance() != 150 {
		t.Errorf("balance = %d, want 150", l.Balance())
	}
}

func TestSetBalance(t *testing.T) {
	l := New(100, nil)
	if err := l.SetBalance(7777); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	if l.Balance() != 7777 {
		t.Errorf("balance = %d", l.Balance())
	}
	if err := l.SetBalance(-1); err != ErrNegativeAmount {
		t.Errorf("negative set = %v, want ErrNegativeAmount", err)
	}
}

func TestWagerStepping(t *testing.T) {
	l := New(1000, fixedPolicy{max: 60})

	w, err := l.IncreaseWager(Slots)
	if err != nil || w != 55 {
		t.Fatalf("IncreaseWager = %d, %v", w, err)
	}
	if _, err := l.IncreaseWager(Slots); err != nil {
		t.Fatalf("IncreaseWager to max: %v", err)
	}
	if _, err := l.IncreaseWager(Slots); err != ErrWagerBounds {
		t.Errorf("above max = %v, want ErrWagerBounds", err)
	}

	for l.Wager(Slots) > MinWager {
		if _, err := l.DecreaseWager(Slots); err != nil {
			t.Fatalf("DecreaseWager: %v", err)
		}
	}
	if _, err := l.DecreaseWager(Slots); err != ErrWagerBounds {
		t.Errorf("below floor = %v, want ErrWagerBounds", err)
	}
}

func TestIncreaseWagerNeedsBalance(t *testing.T) {
	l := New(52, fixedPolicy{max: 1000})
	if _, err := l.IncreaseWager(Mines); err != ErrInsufficientGems {
		t.Errorf("raise past balance = %v, want ErrInsufficientGems", err)
	}
	if l.Wager(Mines) != DefaultWager {
		t.Errorf("failed raise mutated wager: %d", l.Wager(Mines))
	}
}

func TestWagerLock(t *testing.T) {
	l := New(1000, nil)
	l.SetWagerLocked(Blackjack, true)
	if _, err := l.IncreaseWager(Blackjack); err != ErrWagerLocked {
		t.Errorf("locked increase = %v, want ErrWagerLocked", err)
	}
	if _, err := l.DecreaseWager(Blackjack); err != ErrWagerLocked {
		t.Errorf("locked decrease = %v, want ErrWagerLocked", err)
	}
	// Other games stay adjustable.
	if _, err := l.IncreaseWager(Slots); err != nil {
		t.Errorf("unlocked game: %v", err)
	}
	l.SetWagerLocked(Blackjack, false)
	if _, err := l.IncreaseWager(Blackjack); err != nil {
		t.Errorf("after unlock: %v", err)
	}
}

func TestClampWagers(t *testing.T) {
	l := New(1000, fixedPolicy{max: 200})
	for i := 0; i < 20; i++ {
		l.IncreaseWager(Roulette)
	}
	if l.Wager(Roulette) != 150 {
		t.Fatalf("wager = %d, want 150", l.Wager(Roulette))
	}

	l.policy = fixedPolicy{max: 100}
	l.ClampWagers()
	if l.Wager(Roulette) != 100 {
		t.Errorf("clamped wager = %d, want 100", l.Wager(Roulette))
	}
	if l.Wager(Slots) != DefaultWager {
		t.Errorf("untouched wager = %d, want %d", l.Wager(Slots), DefaultWager)
	}
}

func TestBalanceFloorAppliesOnRead(t *testing.T) {
	l := New(5000, nil)
	l.SetFloor(fixedFloor{threshold: 1000, reset: 100000})

	var seen []int64
	l.OnChange(func(b int64) { seen = append(seen, b) })

	if l.Balance() != 5000 {
		t.Fatalf("above threshold floored: %d", l.Balance())
	}
	if err := l.TryDebit(4500); err != nil {
		t.Fatalf("TryDebit: %v", err)
	}
	// 500 is under the threshold; the next read resets and notifies.
	if l.Balance() != 100000 {
		t.Errorf("balance = %d, want 100000", l.Balance())
	}
	if len(seen) != 2 || seen[1] != 100000 {
		t.Errorf("change notifications = %v", seen)
	}
}

func TestOnChangeFiresForMutations(t *testing.T) {
	l := New(100, nil)
	var seen []int64
	l.OnChange(func(b int64) { seen = append(seen, b) })

	l.TryDebit(50)
	l.Credit(25)
	l.SetBalance(500)

	want := []int64{50, 75, 500}
	if len(seen) != len(want) {
		t.Fatalf("notifications = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("notification %d = %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestGameBankScopesWager(t *testing.T) {
	l := New(1000, nil)
	l.IncreaseWager(Mines)

	bank := l.ForGame(Mines)
	if bank.Wager() != 55 {
		t.Errorf("bank wager = %d, want 55", bank.Wager())
	}
	if err := bank.TryDebit(55); err != nil {
		t.Fatalf("bank debit: %v", err)
	}
	bank.Credit(110)
	if l.Balance() != 1055 {
		t.Errorf("balance = %d, want 1055", l.Balance())
	}
}

func TestMaxBetWithoutPolicy(t *testing.T) {
	l := New(1000, nil)
	for i := 0; i < 20; i++ {
		l.IncreaseWager(Slots)
	}
	if l.Wager(Slots) != DefaultMaxBet {
		t.Errorf("wager = %d, want %d", l.Wager(Slots), DefaultMaxBet)
	}
}
