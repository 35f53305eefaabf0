package games

import (
	"time"

	"github.com/KibbyCaps/gem-casino/internal/engine"
)

// Color is a roulette color bet.
type Color string

// The three bettable colors.
const (
	Red   Color = "red"
	Black Color = "black"
	Green Color = "green"
)

// Payout multipliers: green pays 14:1, red/black pay 2:1.
const (
	rouletteGreenPayout = 14
	rouletteColorPayout = 2
)

// Presentation hints for the wheel animation.
const (
	rouletteSpinDelay   = 500 * time.Millisecond
	rouletteSettleDelay = 3 * time.Second
)

// The wheel is a continuous [0, 360) circle cut into 36 ten-degree bands:
// two green bands at [180, 190) and [350, 360), the remaining 34 bands
// alternating red and black, 17 each. Green therefore occupies exactly 2/36
// of the circle and red and black are symmetric.
var wheelBands [36]Color

func init() {
	next := Red
	for b := range wheelBands {
		if b == 18 || b == 35 {
			wheelBands[b] = Green
			continue
		}
		wheelBands[b] = next
		if next == Red {
			next = Black
		} else {
			next = Red
		}
	}
}

// Representative positions used when a cheat forces the landing color.
var forcedPositions = map[Color]float64{
	Red:   5,
	Black: 15,
	Green: 185,
}

// ColorAt classifies a wheel position in [0, 360) degrees.
func ColorAt(position float64) Color {
	band := int(position / 10)
	if band < 0 {
		band = 0
	}
	if band >= len(wheelBands) {
		band = len(wheelBands) - 1
	}
	return wheelBands[band]
}

// RouletteOverlay is the cheat hook consulted before the wheel draw.
type RouletteOverlay interface {
	// ConsumeForcedColor returns the color the next spin must land on,
	// clearing the flag when it fires.
	ConsumeForcedColor() (Color, bool)
}

// Roulette is the wheel engine. The player pre-selects a color, then one
// uniform position in [0, 360) decides the outcome. The selection is
// consumed by every spin, win or lose.
type Roulette struct {
	bank     Bank
	stats    Recorder
	rng      engine.Source
	overlay  RouletteOverlay
	selected Color
}

// NewRoulette creates a roulette engine drawing from rng.
func NewRoulette(bank Bank, stats Recorder, rng engine.Source, overlay RouletteOverlay) *Roulette {
	return &Roulette{bank: bank, stats: stats, rng: rng, overlay: overlay}
}

// Select places a color bet for the next spin, replacing any previous one.
func (r *Roulette) Select(c Color) error {
	switch c {
	case Red, Black, Green:
		r.selected = c
		return nil
	}
	return ErrNoBetSelected
}

// Selected returns the pending color bet, or "" when none is placed.
func (r *Roulette) Selected() Color {
	return r.selected
}

// WheelResult reports one completed spin plus animation hints for the UI.
type WheelResult struct {
	Position float64 `json:"position"`
	Landed   Color   `json:"landed"`
	Bet      Color   `json:"bet"`
	Payout   int64   `json:"payout"`
	Result   Result  `json:"result"`
	// The UI starts the ball after SpinDelay and settles it after
	// SettleDelay.
	SpinDelay   time.Duration `json:"spinDelay"`
	SettleDelay time.Duration `json:"settleDelay"`
}

// Spin runs one full round. It is rejected without state change when no
// color is selected or the balance cannot cover the wager.
func (r *Roulette) Spin() (WheelResult, error) {
	if r.selected == "" {
		return WheelResult{}, ErrNoBetSelected
	}

	wager := r.bank.Wager()
	if err := r.bank.TryDebit(wager); err != nil {
		return WheelResult{}, err
	}

	var position float64
	if r.overlay != nil {
		if forced, ok := r.overlay.ConsumeForcedColor(); ok {
			position = forcedPositions[forced]
		} else {
			position = r.rng.Float() * 360
		}
	} else {
		position = r.rng.Float() * 360
	}

	landed := ColorAt(position)
	bet := r.selected
	r.selected = ""

	var payout int64
	kind := "loss"
	if landed == bet {
		kind = "win"
		if landed == Green {
			payout = wager * rouletteGreenPayout
		} else {
			payout = wager * rouletteColorPayout
		}
		r.bank.Credit(payout)
		r.stats.RecordWin()
	} else {
		r.stats.RecordLoss()
	}

	return WheelResult{
		Position: position,
		Landed:   landed,
		Bet:      bet,
		Payout:   payout,
		Result: Result{
			OutcomeKind: kind,
			AmountDelta: payout - wager,
			NewBalance:  r.bank.Balance(),
		},
		SpinDelay:   rouletteSpinDelay,
		SettleDelay: rouletteSettleDelay,
	}, nil
}

// Reset clears any pending color selection. Leaving the table mid-selection
// discards UI state only; there is no mid-flight round to cancel.
func (r *Roulette) Reset() {
	r.selected = ""
}
