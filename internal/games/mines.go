package games

import (
	"github.com/shopspring/decimal"

	"github.com/KibbyCaps/gem-casino/internal/engine"
)

// The board is a fixed 5x5 grid.
const MinesGridSize = 25

// Mine counts offered to the player; any count in [1, 24] is accepted by
// the engine, the offered set is what the UI presents.
var OfferedMineCounts = []int{3, 5, 7, 10}

// DefaultMineCount matches the pre-selected option.
const DefaultMineCount = 7

const (
	minesMinCount = 1
	minesMaxCount = 24
)

// MinesOverlay is the cheat hook consulted at reveal time and when
// building views.
type MinesOverlay interface {
	// DisarmReveals reports whether revealed cells are silently rewritten
	// to safe regardless of the true layout.
	DisarmReveals() bool
	// RevealLayout reports whether views expose the hidden mine layout.
	RevealLayout() bool
}

// Mines is the grid-reveal engine. Mine placement is a uniform random
// subset fixed at round start and immutable until the round ends; every
// round end, win or lose, exposes the full layout.
type Mines struct {
	bank    Bank
	stats   Recorder
	rng     engine.Source
	overlay MinesOverlay

	active       bool
	mineCount    int
	mines        [MinesGridSize]bool
	revealed     [MinesGridSize]bool
	safeRevealed int
	roundWager   int64
}

// NewMines creates a mines engine drawing from rng.
func NewMines(bank Bank, stats Recorder, rng engine.Source, overlay MinesOverlay) *Mines {
	return &Mines{bank: bank, stats: stats, rng: rng, overlay: overlay}
}

// Active reports whether a round is in progress.
func (m *Mines) Active() bool {
	return m.active
}

// Multiplier returns the cash-out multiplier after revealed safe cells,
// rounded to two decimal places. Each successive safe reveal is rarer as
// fewer safe cells remain, so the fair multiplier compounds per reveal:
// (25 / (25 - mines)) ^ revealed, and 1.00 for zero reveals.
func Multiplier(mines, revealed int) decimal.Decimal {
	if revealed <= 0 {
		return decimal.NewFromInt(1)
	}
	ratio := decimal.NewFromInt(MinesGridSize).
		Div(decimal.NewFromInt(int64(MinesGridSize - mines)))
	return ratio.Pow(decimal.NewFromInt(int64(revealed))).Round(2)
}

// Start begins a round with the given mine count: debits the wager and
// places the mines uniformly by rejection sampling. Rejected without state
// change while a round is active, for counts outside [1, 24], or when the
// balance cannot cover the wager.
func (m *Mines) Start(mineCount int) error {
	if m.active {
		return ErrRoundActive
	}
	if mineCount < minesMinCount || mineCount > minesMaxCount {
		return ErrMineCount
	}
	wager := m.bank.Wager()
	if err := m.bank.TryDebit(wager); err != nil {
		return err
	}

	m.mines = [MinesGridSize]bool{}
	m.revealed = [MinesGridSize]bool{}
	m.safeRevealed = 0
	m.mineCount = mineCount
	m.roundWager = wager

	// Rejection sampling: redraw on collision so every size-mineCount
	// subset of cells is equally likely.
	placed := 0
	for placed < mineCount {
		i := m.rng.Intn(MinesGridSize)
		if !m.mines[i] {
			m.mines[i] = true
			placed++
		}
	}

	m.active = true
	return nil
}

// RevealResult reports one cell reveal. When the reveal ends the round,
// Result carries the resolution and MinePositions exposes the layout.
type RevealResult struct {
	Cell          int             `json:"cell"`
	Mine          bool            `json:"mine"`
	SafeRevealed  int             `json:"safeRevealed"`
	Multiplier    decimal.Decimal `json:"multiplier"`
	MinePositions []int           `json:"minePositions,omitempty"`
	Result        *Result         `json:"result,omitempty"`
}

// Reveal uncovers one cell. A no-op error when no round is active, the
// index is out of range, or the cell is already revealed. Hitting a mine
// ends the round as a loss; uncovering the last safe cell ends it as a win
// at the current multiplier.
func (m *Mines) Reveal(cell int) (RevealResult, error) {
	if !m.active {
		return RevealResult{}, ErrNoActiveRound
	}
	if cell < 0 || cell >= MinesGridSize {
		return RevealResult{}, ErrBadCell
	}
	if m.revealed[cell] {
		return RevealResult{}, ErrCellRevealed
	}

	if m.overlay != nil && m.overlay.DisarmReveals() && m.mines[cell] {
		// Auto-win cheat: the cell's mine flag is silently rewritten to
		// safe at reveal time. The win condition still counts against the
		// original mine count.
		m.mines[cell] = false
	}
	m.revealed[cell] = true

	if m.mines[cell] {
		m.endRound()
		m.stats.RecordLoss()
		return RevealResult{
			Cell:          cell,
			Mine:          true,
			SafeRevealed:  m.safeRevealed,
			Multiplier:    Multiplier(m.mineCount, m.safeRevealed),
			MinePositions: m.minePositions(),
			Result: &Result{
				OutcomeKind: "mine",
				AmountDelta: -m.roundWager,
				NewBalance:  m.bank.Balance(),
			},
		}, nil
	}

	m.safeRevealed++
	res := RevealResult{
		Cell:         cell,
		SafeRevealed: m.safeRevealed,
		Multiplier:   Multiplier(m.mineCount, m.safeRevealed),
	}

	if m.safeRevealed == MinesGridSize-m.mineCount {
		payout := m.payout()
		m.endRound()
		m.bank.Credit(payout)
		m.stats.RecordWin()
		res.MinePositions = m.minePositions()
		res.Result = &Result{
			OutcomeKind: "cleared",
			AmountDelta: payout - m.roundWager,
			NewBalance:  m.bank.Balance(),
		}
	}
	return res, nil
}

// CashoutResult reports a voluntary cash-out.
type CashoutResult struct {
	Payout        int64           `json:"payout"`
	Multiplier    decimal.Decimal `json:"multiplier"`
	MinePositions []int           `json:"minePositions"`
	Result        Result          `json:"result"`
}

// Cashout ends an active round as a win, crediting the wager times the
// current multiplier, floored to whole gems.
func (m *Mines) Cashout() (CashoutResult, error) {
	if !m.active {
		return CashoutResult{}, ErrNoActiveRound
	}

	mult := Multiplier(m.mineCount, m.safeRevealed)
	payout := m.payout()
	m.endRound()
	m.bank.Credit(payout)
	m.stats.RecordWin()

	return CashoutResult{
		Payout:        payout,
		Multiplier:    mult,
		MinePositions: m.minePositions(),
		Result: Result{
			OutcomeKind: "cashout",
			AmountDelta: payout - m.roundWager,
			NewBalance:  m.bank.Balance(),
		},
	}, nil
}

// Abandon forcibly resolves an active round as a loss, e.g. when the
// player leaves the game. Reports false when no round is active.
func (m *Mines) Abandon() (Result, bool) {
	if !m.active {
		return Result{}, false
	}
	m.endRound()
	m.stats.RecordLoss()
	return Result{
		OutcomeKind: "abandoned",
		AmountDelta: -m.roundWager,
		NewBalance:  m.bank.Balance(),
	}, true
}

// payout is the current cash-out value: floor(wager x multiplier).
func (m *Mines) payout() int64 {
	mult := Multiplier(m.mineCount, m.safeRevealed)
	return decimal.NewFromInt(m.roundWager).Mul(mult).Floor().IntPart()
}

func (m *Mines) endRound() {
	m.active = false
}

// minePositions lists the cells holding mines, exposed at round end.
func (m *Mines) minePositions() []int {
	positions := make([]int, 0, m.mineCount)
	for i, mine := range m.mines {
		if mine {
			positions = append(positions, i)
		}
	}
	return positions
}

// MinesView is the player-facing snapshot. The layout stays hidden while a
// round is active unless the ESP cheat is on.
type MinesView struct {
	Active        bool            `json:"active"`
	MineCount     int             `json:"mineCount"`
	Revealed      []int           `json:"revealed"`
	SafeRevealed  int             `json:"safeRevealed"`
	Multiplier    decimal.Decimal `json:"multiplier"`
	MinePositions []int           `json:"minePositions,omitempty"`
}

// View builds the current player-facing snapshot.
func (m *Mines) View() MinesView {
	v := MinesView{
		Active:       m.active,
		MineCount:    m.mineCount,
		SafeRevealed: m.safeRevealed,
		Multiplier:   Multiplier(m.mineCount, m.safeRevealed),
	}
	for i, r := range m.revealed {
		if r {
			v.Revealed = append(v.Revealed, i)
		}
	}
	if m.active && m.overlay != nil && m.overlay.RevealLayout() {
		v.MinePositions = m.minePositions()
	}
	return v
}
