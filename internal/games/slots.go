package games

import (
	"time"

	"github.com/KibbyCaps/gem-casino/internal/engine"
)

// SlotSymbols is the reel alphabet: six fruits plus the premium diamond.
var SlotSymbols = []string{"🍒", "🍋", "🍇", "🍉", "🍊", "🍓", "💎"}

// PremiumSymbol is the top-paying symbol.
const PremiumSymbol = "💎"

// Payout multipliers per tier.
const (
	slotsPremiumTriple = 25
	slotsTriple        = 10
	slotsPair          = 2
)

// Presentation hints for the reel animation; timing itself belongs to the
// rendering layer.
const (
	slotsSpinFrames     = 20
	slotsSpinFrameDelay = 100 * time.Millisecond
)

// SlotsOverlay is the cheat hook consulted before the reel draw.
type SlotsOverlay interface {
	// ConsumeForceJackpot reports whether the next spin is forced to the
	// premium triple, clearing the flag when it fires.
	ConsumeForceJackpot() bool
}

// Slots is the three-reel engine. Each spin is atomic: the wager is
// debited, three symbols are drawn, and exactly one payout tier applies.
type Slots struct {
	bank    Bank
	stats   Recorder
	rng     engine.Source
	overlay SlotsOverlay
}

// NewSlots creates a slots engine drawing from rng.
func NewSlots(bank Bank, stats Recorder, rng engine.Source, overlay SlotsOverlay) *Slots {
	return &Slots{bank: bank, stats: stats, rng: rng, overlay: overlay}
}

// SpinResult reports one completed spin plus animation hints for the UI.
type SpinResult struct {
	Reels  [3]string `json:"reels"`
	Payout int64     `json:"payout"`
	Result Result    `json:"result"`
	// The UI cycles Frames random symbol frames, FrameDelay apart,
	// before settling on Reels.
	Frames     int           `json:"frames"`
	FrameDelay time.Duration `json:"frameDelay"`
}

// Spin runs one full round. It fails without any state change when the
// balance cannot cover the wager.
func (s *Slots) Spin() (SpinResult, error) {
	wager := s.bank.Wager()
	if err := s.bank.TryDebit(wager); err != nil {
		return SpinResult{}, err
	}

	var reels [3]string
	if s.overlay != nil && s.overlay.ConsumeForceJackpot() {
		reels = [3]string{PremiumSymbol, PremiumSymbol, PremiumSymbol}
	} else {
		for i := range reels {
			reels[i] = SlotSymbols[s.rng.Intn(len(SlotSymbols))]
		}
	}

	payout, kind := scoreReels(reels, wager)
	if payout > 0 {
		s.bank.Credit(payout)
		s.stats.RecordWin()
	} else {
		s.stats.RecordLoss()
	}

	return SpinResult{
		Reels:  reels,
		Payout: payout,
		Result: Result{
			OutcomeKind: kind,
			AmountDelta: payout - wager,
			NewBalance:  s.bank.Balance(),
		},
		Frames:     slotsSpinFrames,
		FrameDelay: slotsSpinFrameDelay,
	}, nil
}

// scoreReels applies exactly one payout tier. The triple check runs before
// the pair check so three of a kind is never also scored as a pair.
func scoreReels(reels [3]string, wager int64) (int64, string) {
	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		if reels[0] == PremiumSymbol {
			return wager * slotsPremiumTriple, "jackpot"
		}
		return wager * slotsTriple, "triple"
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		return wager * slotsPair, "pair"
	default:
		return 0, "loss"
	}
}
