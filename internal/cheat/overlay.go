// Package cheat implements the debug/demo override policy. The overlay is
// a set of independently toggleable flags consulted by each engine at its
// draw or resolution point; engines never get redefined from outside.
package cheat

import (
	"errors"

	"github.com/KibbyCaps/gem-casino/internal/games"
)

var ErrUnknownColor = errors.New("cheat: unknown roulette color")

// Balance-floor constants: reads below the threshold reset to the large
// value while the flag is on.
const (
	FloorThreshold int64 = 1000
	FloorReset     int64 = 100000
)

// Overlay holds the cheat flags for one session. One-shot flags
// (jackpot, roulette color, dealer bust) clear themselves when they fire;
// the others persist until toggled off.
type Overlay struct {
	forceJackpot    bool
	forcedColor     games.Color
	minesAutoWin    bool
	minesESP        bool
	forceDealerBust bool
	seeDealerCard   bool
	balanceFloor    bool
}

// New returns an overlay with every flag off.
func New() *Overlay {
	return &Overlay{}
}

// SetForceJackpot arms or disarms the one-shot slots jackpot.
func (o *Overlay) SetForceJackpot(on bool) {
	o.forceJackpot = on
}

// ConsumeForceJackpot reports whether the next spin is forced to the
// premium triple, clearing the flag when it fires.
func (o *Overlay) ConsumeForceJackpot() bool {
	if !o.forceJackpot {
		return false
	}
	o.forceJackpot = false
	return true
}

// SetForcedColor arms the one-shot roulette override; an empty color
// disarms it.
func (o *Overlay) SetForcedColor(c games.Color) error {
	switch c {
	case games.Red, games.Black, games.Green, "":
		o.forcedColor = c
		return nil
	}
	return ErrUnknownColor
}

// ConsumeForcedColor returns the color the next spin must land on,
// clearing the flag when it fires.
func (o *Overlay) ConsumeForcedColor() (games.Color, bool) {
	if o.forcedColor == "" {
		return "", false
	}
	c := o.forcedColor
	o.forcedColor = ""
	return c, true
}

// SetMinesAutoWin toggles the persistent reveal-disarm override.
func (o *Overlay) SetMinesAutoWin(on bool) {
	o.minesAutoWin = on
}

// DisarmReveals reports whether revealed mines cells are silently
// rewritten to safe.
func (o *Overlay) DisarmReveals() bool {
	return o.minesAutoWin
}

// SetMinesESP toggles layout exposure in mines views.
func (o *Overlay) SetMinesESP(on bool) {
	o.minesESP = on
}

// RevealLayout reports whether mines views expose the hidden layout.
func (o *Overlay) RevealLayout() bool {
	return o.minesESP
}

// SetForceDealerBust arms the one-shot dealer-bust override.
func (o *Overlay) SetForceDealerBust(on bool) {
	o.forceDealerBust = on
}

// DealerBustForced reports whether dealer draws are overridden.
func (o *Overlay) DealerBustForced() bool {
	return o.forceDealerBust
}

// ClearDealerBust disarms the override once the forced bust lands.
func (o *Overlay) ClearDealerBust() {
	o.forceDealerBust = false
}

// SetSeeDealerCard toggles hole-card exposure in blackjack views.
func (o *Overlay) SetSeeDealerCard(on bool) {
	o.seeDealerCard = on
}

// SeeDealerCard reports whether the hole card is exposed.
func (o *Overlay) SeeDealerCard() bool {
	return o.seeDealerCard
}

// SetBalanceFloor toggles the persistent balance floor.
func (o *Overlay) SetBalanceFloor(on bool) {
	o.balanceFloor = on
}

// FloorBalance rewrites a balance read below the threshold to the reset
// value while the flag is on.
func (o *Overlay) FloorBalance(current int64) (int64, bool) {
	if o.balanceFloor && current < FloorThreshold {
		return FloorReset, true
	}
	return current, false
}

// Flags is the inspectable snapshot of every override.
type Flags struct {
	ForceJackpot    bool        `json:"forceJackpot"`
	ForcedColor     games.Color `json:"forcedColor,omitempty"`
	MinesAutoWin    bool        `json:"minesAutoWin"`
	MinesESP        bool        `json:"minesESP"`
	ForceDealerBust bool        `json:"forceDealerBust"`
	SeeDealerCard   bool        `json:"seeDealerCard"`
	BalanceFloor    bool        `json:"balanceFloor"`
}

// Snapshot returns the current flag states.
func (o *Overlay) Snapshot() Flags {
	return Flags{
		ForceJackpot:    o.forceJackpot,
		ForcedColor:     o.forcedColor,
		MinesAutoWin:    o.minesAutoWin,
		MinesESP:        o.minesESP,
		ForceDealerBust: o.forceDealerBust,
		SeeDealerCard:   o.seeDealerCard,
		BalanceFloor:    o.balanceFloor,
	}
}
