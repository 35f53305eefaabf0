package games

import (
	"time"

	"github.com/KibbyCaps/gem-casino/internal/engine"
)

// BlackjackPhase is the round state of the blackjack engine.
type BlackjackPhase string

// Phases: no round, waiting on the player, and the dealer's draw run.
// Resolution returns the engine to idle within the same call.
const (
	BlackjackIdle       BlackjackPhase = "idle"
	BlackjackPlayerTurn BlackjackPhase = "player_turn"
	BlackjackDealerTurn BlackjackPhase = "dealer_turn"
)

// Dealer policy: draw while below 17.
const dealerStandScore = 17

// dealerDrawDelay is the presentation hint between dealer cards.
const dealerDrawDelay = time.Second

// DealerOverlay is the cheat hook consulted during the dealer turn and
// when building the player-facing view.
type DealerOverlay interface {
	// DealerBustForced reports whether dealer draws are overridden with
	// high cards until the dealer busts.
	DealerBustForced() bool
	// ClearDealerBust disables the override once the forced bust lands.
	ClearDealerBust()
	// SeeDealerCard reports whether the hole card is exposed in views.
	SeeDealerCard() bool
}

// Blackjack is the dealer-vs-player engine. Each round plays from a fresh
// fully shuffled 52-card shoe; the shoe is never reused across rounds.
type Blackjack struct {
	bank    Bank
	stats   Recorder
	rng     engine.Source
	overlay DealerOverlay

	phase      BlackjackPhase
	shoe       []Card
	player     []Card
	dealer     []Card
	roundWager int64
}

// NewBlackjack creates a blackjack engine drawing from rng.
func NewBlackjack(bank Bank, stats Recorder, rng engine.Source, overlay DealerOverlay) *Blackjack {
	return &Blackjack{bank: bank, stats: stats, rng: rng, overlay: overlay, phase: BlackjackIdle}
}

// Phase returns the current round state.
func (b *Blackjack) Phase() BlackjackPhase {
	return b.phase
}

// DealState reports the initial 2+2 deal. Only the dealer's up card is
// exposed; the hole card stays in engine state. When the player is dealt a
// natural 21 the round auto-advances and Resolution carries the outcome.
type DealState struct {
	Player      []Card     `json:"player"`
	PlayerScore int        `json:"playerScore"`
	DealerUp    Card       `json:"dealerUp"`
	Resolution  *DealerRun `json:"resolution,omitempty"`
}

// Deal starts a round: debits the wager, shuffles a fresh shoe, and deals
// two cards each. Rejected without state change while a round is active or
// the balance cannot cover the wager.
func (b *Blackjack) Deal() (DealState, error) {
	if b.phase != BlackjackIdle {
		return DealState{}, ErrRoundActive
	}
	wager := b.bank.Wager()
	if err := b.bank.TryDebit(wager); err != nil {
		return DealState{}, err
	}

	b.roundWager = wager
	b.shoe = NewShoe(b.rng)
	b.dealer = []Card{drawCard(&b.shoe), drawCard(&b.shoe)}
	b.player = []Card{drawCard(&b.shoe), drawCard(&b.shoe)}
	b.phase = BlackjackPlayerTurn

	state := DealState{
		Player:      append([]Card(nil), b.player...),
		PlayerScore: HandValue(b.player),
		DealerUp:    b.dealer[0],
	}

	// Natural 21 auto-stands.
	if state.PlayerScore == 21 {
		run := b.runDealer()
		state.Resolution = &run
	}
	return state, nil
}

// HitResult reports one player draw. When the draw busts the hand the
// round resolves immediately and Result carries the loss.
type HitResult struct {
	Card   Card    `json:"card"`
	Score  int     `json:"score"`
	Busted bool    `json:"busted"`
	Result *Result `json:"result,omitempty"`
}

// Hit draws one card for the player. A no-op error outside the player turn.
func (b *Blackjack) Hit() (HitResult, error) {
	if b.phase != BlackjackPlayerTurn {
		return HitResult{}, ErrNoActiveRound
	}

	card := drawCard(&b.shoe)
	b.player = append(b.player, card)
	score := HandValue(b.player)
	res := HitResult{Card: card, Score: score}

	if score > 21 {
		b.phase = BlackjackIdle
		b.stats.RecordLoss()
		res.Busted = true
		res.Result = &Result{
			OutcomeKind: "bust",
			AmountDelta: -b.roundWager,
			NewBalance:  b.bank.Balance(),
		}
	}
	return res, nil
}

// DealerStep is one card of the dealer's draw run, with a delay hint so the
// UI can reveal cards one tick at a time.
type DealerStep struct {
	Card  Card          `json:"card"`
	Score int           `json:"score"`
	Delay time.Duration `json:"delay"`
}

// DealerRun reports the dealer turn and the round's resolution.
type DealerRun struct {
	Hole        Card         `json:"hole"`
	Steps       []DealerStep `json:"steps"`
	DealerScore int          `json:"dealerScore"`
	PlayerScore int          `json:"playerScore"`
	Result      Result       `json:"result"`
}

// Stand ends the player turn and runs the dealer to resolution. A no-op
// error outside the player turn.
func (b *Blackjack) Stand() (DealerRun, error) {
	if b.phase != BlackjackPlayerTurn {
		return DealerRun{}, ErrNoActiveRound
	}
	return b.runDealer(), nil
}

// runDealer draws for the dealer until the policy stops, then resolves the
// round. The whole run is computed synchronously; the steps carry delay
// hints for the presentation layer.
func (b *Blackjack) runDealer() DealerRun {
	b.phase = BlackjackDealerTurn

	run := DealerRun{Hole: b.dealer[1]}

	if b.overlay != nil && b.overlay.DealerBustForced() {
		// Forced bust: the dealer keeps drawing kings until over 21.
		for HandValue(b.dealer) <= 21 {
			card := Card{Rank: "K", Suit: cardSuits[b.rng.Intn(len(cardSuits))]}
			b.dealer = append(b.dealer, card)
			run.Steps = append(run.Steps, DealerStep{Card: card, Score: HandValue(b.dealer), Delay: dealerDrawDelay})
		}
		b.overlay.ClearDealerBust()
	} else {
		for HandValue(b.dealer) < dealerStandScore {
			card := drawCard(&b.shoe)
			b.dealer = append(b.dealer, card)
			run.Steps = append(run.Steps, DealerStep{Card: card, Score: HandValue(b.dealer), Delay: dealerDrawDelay})
		}
	}

	run.DealerScore = HandValue(b.dealer)
	run.PlayerScore = HandValue(b.player)
	run.Result = b.resolve(run.DealerScore, run.PlayerScore)
	return run
}

// resolve settles the wager once the dealer has stopped.
func (b *Blackjack) resolve(dealerScore, playerScore int) Result {
	b.phase = BlackjackIdle

	var kind string
	var payout int64
	switch {
	case dealerScore > 21:
		kind = "dealer_bust"
		payout = b.roundWager * 2
	case dealerScore > playerScore:
		kind = "dealer_win"
	case dealerScore < playerScore:
		kind = "player_win"
		payout = b.roundWager * 2
	default:
		kind = "push"
		payout = b.roundWager
	}

	if payout > 0 {
		b.bank.Credit(payout)
	}
	switch kind {
	case "dealer_bust", "player_win":
		b.stats.RecordWin()
	case "dealer_win":
		b.stats.RecordLoss()
	case "push":
		b.stats.RecordPush()
	}

	return Result{
		OutcomeKind: kind,
		AmountDelta: payout - b.roundWager,
		NewBalance:  b.bank.Balance(),
	}
}

// Abandon forcibly resolves a mid-hand round as a loss, e.g. when the
// player leaves the table. Reports false when no round is active.
func (b *Blackjack) Abandon() (Result, bool) {
	if b.phase == BlackjackIdle {
		return Result{}, false
	}
	b.phase = BlackjackIdle
	b.stats.RecordLoss()
	return Result{
		OutcomeKind: "abandoned",
		AmountDelta: -b.roundWager,
		NewBalance:  b.bank.Balance(),
	}, true
}

// BlackjackView is the player-facing snapshot. The dealer's hole card is
// hidden during the player turn unless the see-dealer-card cheat is on.
type BlackjackView struct {
	Phase       BlackjackPhase `json:"phase"`
	Player      []Card         `json:"player"`
	PlayerScore int            `json:"playerScore"`
	Dealer      []Card         `json:"dealer"`
	DealerScore int            `json:"dealerScore"`
	HoleHidden  bool           `json:"holeHidden"`
}

// View builds the current player-facing snapshot.
func (b *Blackjack) View() BlackjackView {
	v := BlackjackView{
		Phase:       b.phase,
		Player:      append([]Card(nil), b.player...),
		PlayerScore: HandValue(b.player),
	}

	hideHole := b.phase == BlackjackPlayerTurn &&
		(b.overlay == nil || !b.overlay.SeeDealerCard())
	if hideHole && len(b.dealer) >= 1 {
		v.Dealer = []Card{b.dealer[0]}
		v.DealerScore = cardValue(b.dealer[0].Rank)
		v.HoleHidden = true
	} else {
		v.Dealer = append([]Card(nil), b.dealer...)
		v.DealerScore = HandValue(b.dealer)
	}
	return v
}
