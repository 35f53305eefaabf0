package games

import "errors"

// Rejections shared by the game engines. Every invalid action degrades to
// "nothing happened": the engine returns one of these and leaves all round
// state untouched.
var (
	ErrRoundActive   = errors.New("games: a round is already in progress")
	ErrNoActiveRound = errors.New("games: no round in progress")
	ErrNoBetSelected = errors.New("games: no color selected")
	ErrCellRevealed  = errors.New("games: cell already revealed")
	ErrBadCell       = errors.New("games: cell index out of range")
	ErrMineCount     = errors.New("games: mine count out of range")
)

// Result is the payload every engine reports to the rendering layer once a
// round resolves.
type Result struct {
	// OutcomeKind names how the round ended, e.g. "jackpot", "push",
	// "dealer_bust", "cashout".
	OutcomeKind string `json:"outcomeKind"`
	// AmountDelta is the net gem change over the whole round
	// (credited winnings minus the wager).
	AmountDelta int64 `json:"amountDelta"`
	// NewBalance is the session balance after resolution.
	NewBalance int64 `json:"newBalance"`
}

// Bank is the game-scoped view of the session ledger. The wager amount and
// the balance live in the ledger; engines never hold their own copy.
type Bank interface {
	Balance() int64
	Wager() int64
	// TryDebit atomically checks and deducts: it fails without mutating
	// when the balance is insufficient.
	TryDebit(amount int64) error
	Credit(amount int64)
}

// Recorder aggregates win/loss counters across all engines. A push counts
// as a game played but neither a win nor a loss.
type Recorder interface {
	RecordWin()
	RecordLoss()
	RecordPush()
}
