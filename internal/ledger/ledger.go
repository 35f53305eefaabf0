// Package ledger owns the session's gem balance and the per-game wager
// amounts. Every balance mutation in the system funnels through it.
package ledger

import "errors"

// Game identifies a wager slot. Each game tracks its own bet amount.
type Game string

// The four wager slots.
const (
	Slots     Game = "slots"
	Roulette  Game = "roulette"
	Blackjack Game = "blackjack"
	Mines     Game = "mines"
)

// Games lists all wager slots in display order.
var Games = []Game{Slots, Roulette, Blackjack, Mines}

var (
	ErrInsufficientGems = errors.New("ledger: insufficient gems")
	ErrWagerLocked      = errors.New("ledger: wager locked while a round is active")
	ErrWagerBounds      = errors.New("ledger: wager outside allowed bounds")
	ErrNegativeAmount   = errors.New("ledger: amount must not be negative")
)

// Wager bounds: bets move in steps of 5 between the floor and the
// admin-policy max bet.
const (
	MinWager     int64 = 5
	WagerStep    int64 = 5
	DefaultWager int64 = 50
)

// DefaultMaxBet applies when no admin policy is wired.
const DefaultMaxBet int64 = 100

// MaxBetPolicy supplies the admin-configured wager ceiling.
type MaxBetPolicy interface {
	MaxBet() int64
}

// BalanceFloor is the cheat hook consulted on every balance read. When
// active it silently rewrites low balances upward.
type BalanceFloor interface {
	FloorBalance(current int64) (int64, bool)
}

// Ledger holds the balance and wagers for one session. It is driven by a
// single logical thread of control; callers serialize access.
type Ledger struct {
	balance  int64
	wagers   map[Game]int64
	locked   map[Game]bool
	policy   MaxBetPolicy
	floor    BalanceFloor
	onChange []func(balance int64)
}

// New creates a ledger with the given starting balance and every game's
// wager at the default.
func New(start int64, policy MaxBetPolicy) *Ledger {
	l := &Ledger{
		balance: start,
		wagers:  make(map[Game]int64, len(Games)),
		locked:  make(map[Game]bool, len(Games)),
		policy:  policy,
	}
	for _, g := range Games {
		l.wagers[g] = DefaultWager
	}
	return l
}

// SetFloor installs the balance-floor cheat hook.
func (l *Ledger) SetFloor(f BalanceFloor) {
	l.floor = f
}

// OnChange registers a callback fired after every balance mutation, used
// for persistence writes and display refresh.
func (l *Ledger) OnChange(fn func(balance int64)) {
	l.onChange = append(l.onChange, fn)
}

func (l *Ledger) notify() {
	for _, fn := range l.onChange {
		fn(l.balance)
	}
}

// Balance returns the current balance, applying the floor override first
// so a floored read is observable everywhere at once.
func (l *Ledger) Balance() int64 {
	if l.floor != nil {
		if v, ok := l.floor.FloorBalance(l.balance); ok && v != l.balance {
			l.balance = v
			l.notify()
		}
	}
	return l.balance
}

// TryDebit atomically checks and deducts. It fails without mutating when
// the balance is insufficient; the balance is never observably negative.
func (l *Ledger) TryDebit(amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if amount > l.Balance() {
		return ErrInsufficientGems
	}
	l.balance -= amount
	l.notify()
	return nil
}

// Credit adds winnings. No upper bound.
func (l *Ledger) Credit(amount int64) {
	if amount < 0 {
		return
	}
	l.balance += amount
	l.notify()
}

// SetBalance unconditionally overwrites the balance. Admin-only.
func (l *Ledger) SetBalance(amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	l.balance = amount
	l.notify()
	return nil
}

// Wager returns the current bet amount for a game.
func (l *Ledger) Wager(g Game) int64 {
	return l.wagers[g]
}

// SetWagerLocked freezes or unfreezes a game's wager; a game locks its
// slot while a round is active.
func (l *Ledger) SetWagerLocked(g Game, locked bool) {
	l.locked[g] = locked
}

// IncreaseWager raises a game's bet by one step. Rejected when the slot is
// locked, the ceiling is reached, or the balance cannot cover the raised
// bet.
func (l *Ledger) IncreaseWager(g Game) (int64, error) {
	if l.locked[g] {
		return l.wagers[g], ErrWagerLocked
	}
	next := l.wagers[g] + WagerStep
	if next > l.maxBet() {
		return l.wagers[g], ErrWagerBounds
	}
	if l.Balance() < next {
		return l.wagers[g], ErrInsufficientGems
	}
	l.wagers[g] = next
	return next, nil
}

// DecreaseWager lowers a game's bet by one step, never below the floor.
func (l *Ledger) DecreaseWager(g Game) (int64, error) {
	if l.locked[g] {
		return l.wagers[g], ErrWagerLocked
	}
	next := l.wagers[g] - WagerStep
	if next < MinWager {
		return l.wagers[g], ErrWagerBounds
	}
	l.wagers[g] = next
	return next, nil
}

// ClampWagers pulls every wager down to the current max bet; called after
// the admin lowers the ceiling.
func (l *Ledger) ClampWagers() {
	max := l.maxBet()
	for g, w := range l.wagers {
		if w > max {
			l.wagers[g] = max
		}
	}
}

func (l *Ledger) maxBet() int64 {
	if l.policy == nil {
		return DefaultMaxBet
	}
	return l.policy.MaxBet()
}

// GameBank is a single game's view of the ledger, satisfying the engines'
// Bank interface.
type GameBank struct {
	l    *Ledger
	game Game
}

// ForGame returns the game-scoped bank for an engine.
func (l *Ledger) ForGame(g Game) *GameBank {
	return &GameBank{l: l, game: g}
}

func (b *GameBank) Balance() int64         { return b.l.Balance() }
func (b *GameBank) Wager() int64           { return b.l.Wager(b.game) }
func (b *GameBank) TryDebit(v int64) error { return b.l.TryDebit(v) }
func (b *GameBank) Credit(v int64)         { b.l.Credit(v) }
