// Package session wires the ledger, house policy, cheat overlay, and the
// four game engines into one player session, and drives persistence and
// notifications around them.
package session

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/KibbyCaps/gem-casino/internal/admin"
	"github.com/KibbyCaps/gem-casino/internal/cheat"
	"github.com/KibbyCaps/gem-casino/internal/engine"
	"github.com/KibbyCaps/gem-casino/internal/games"
	"github.com/KibbyCaps/gem-casino/internal/ledger"
	"github.com/KibbyCaps/gem-casino/internal/store"
	"github.com/KibbyCaps/gem-casino/internal/users"
)

var (
	// ErrMaintenance rejects round starts while maintenance mode is on.
	ErrMaintenance = errors.New("session: casino is under maintenance")
	// ErrUnknownGame rejects operations naming a game that does not exist.
	ErrUnknownGame = errors.New("session: unknown game")
)

// FreeGemsAmount is credited by the free-gems button.
const FreeGemsAmount int64 = 1000

// Notifier receives game and cheat events. Implementations must not
// block; delivery is best effort.
type Notifier interface {
	PostWin(username, game string, wager, winAmount int64)
	PostCheat(username, cheatType string)
}

// Options configure a session.
type Options struct {
	DB           store.DB
	Users        *users.Service
	Notifier     Notifier
	RNG          engine.Source
	StartingGems int64
	Log          *zap.Logger
}

// Session is the single-player controller. All methods are safe for
// concurrent use; one mutex serializes every engine and ledger mutation.
type Session struct {
	mu sync.Mutex

	log      *zap.Logger
	db       store.DB
	users    *users.Service
	notifier Notifier

	ledger  *ledger.Ledger
	policy  *admin.Policy
	stats   *admin.Stats
	overlay *cheat.Overlay

	slots     *games.Slots
	roulette  *games.Roulette
	blackjack *games.Blackjack
	mines     *games.Mines

	username string
}

// New builds a fully wired session. RNG defaults to the crypto source
// and Log to a no-op logger when unset.
func New(opts Options) *Session {
	if opts.RNG == nil {
		opts.RNG = engine.NewCryptoSource()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.StartingGems <= 0 {
		opts.StartingGems = 1000
	}

	s := &Session{
		log:      opts.Log,
		db:       opts.DB,
		users:    opts.Users,
		notifier: opts.Notifier,
		policy:   admin.NewPolicy(),
		stats:    admin.NewStats(),
		overlay:  cheat.New(),
	}
	s.ledger = ledger.New(opts.StartingGems, s.policy)
	s.ledger.SetFloor(s.overlay)
	s.ledger.OnChange(s.persistBalance)

	s.slots = games.NewSlots(s.ledger.ForGame(ledger.Slots), s.stats, opts.RNG, s.overlay)
	s.roulette = games.NewRoulette(s.ledger.ForGame(ledger.Roulette), s.stats, opts.RNG, s.overlay)
	s.blackjack = games.NewBlackjack(s.ledger.ForGame(ledger.Blackjack), s.stats, opts.RNG, s.overlay)
	s.mines = games.NewMines(s.ledger.ForGame(ledger.Mines), s.stats, opts.RNG, s.overlay)
	return s
}

// Restore loads the persisted house state, if any, into the policy and
// stats. Called once at startup before serving.
func (s *Session) Restore() error {
	if s.db == nil {
		return nil
	}
	saved, err := s.db.LoadAdminStats()
	if err != nil {
		return err
	}
	if saved == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy.Restore(admin.PolicySnapshot{
		HouseEdge:       saved.HouseEdge,
		MaxBet:          saved.MaxBet,
		MaintenanceMode: saved.MaintenanceMode,
		DebugMode:       saved.DebugMode,
	})
	s.stats.Restore(admin.StatsSnapshot{
		GamesPlayed: saved.GamesPlayed,
		Wins:        saved.Wins,
		Losses:      saved.Losses,
	})
	s.ledger.ClampWagers()
	return nil
}

// SetUser attaches a logged-in account, loading its persisted balance.
// An empty username detaches back to guest play.
func (s *Session) SetUser(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if username == "" {
		s.username = ""
		return nil
	}
	u, err := s.users.Get(username)
	if err != nil {
		return err
	}
	s.username = u.Username
	if err := s.ledger.SetBalance(u.Gems); err != nil {
		return err
	}
	return nil
}

// Username returns the attached account name, or "" for guest play.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Balance returns the current gem balance. The balance-floor cheat, when
// armed, applies on this read.
func (s *Session) Balance() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Balance()
}

// FreeGems credits the fixed free-gems amount and returns the new
// balance.
func (s *Session) FreeGems() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Credit(FreeGemsAmount)
	return s.ledger.Balance()
}

// Wager returns the bet amount for one game.
func (s *Session) Wager(g ledger.Game) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Wager(g)
}

// IncreaseWager steps a game's bet up.
func (s *Session) IncreaseWager(g ledger.Game) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.IncreaseWager(g)
}

// DecreaseWager steps a game's bet down.
func (s *Session) DecreaseWager(g ledger.Game) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.DecreaseWager(g)
}

// --- Slots ---

// SpinSlots runs one slots round.
func (s *Session) SpinSlots() (games.SpinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy.Maintenance() {
		return games.SpinResult{}, ErrMaintenance
	}
	res, err := s.slots.Spin()
	if err != nil {
		return res, err
	}
	s.afterRound("Slots", s.ledger.Wager(ledger.Slots), res.Payout)
	return res, nil
}

// --- Roulette ---

// SelectColor places the color bet for the next roulette spin.
func (s *Session) SelectColor(c games.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roulette.Select(c)
}

// SpinRoulette runs one roulette round against the selected color.
func (s *Session) SpinRoulette() (games.WheelResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy.Maintenance() {
		return games.WheelResult{}, ErrMaintenance
	}
	wager := s.ledger.Wager(ledger.Roulette)
	res, err := s.roulette.Spin()
	if err != nil {
		return res, err
	}
	s.afterRound("Roulette", wager, res.Payout)
	return res, nil
}

// --- Blackjack ---

// DealBlackjack starts a blackjack round and locks its wager.
func (s *Session) DealBlackjack() (games.DealState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy.Maintenance() {
		return games.DealState{}, ErrMaintenance
	}
	res, err := s.blackjack.Deal()
	if err != nil {
		return res, err
	}
	s.ledger.SetWagerLocked(ledger.Blackjack, true)
	if res.Resolution != nil {
		s.finishBlackjack(res.Resolution.Result)
	}
	return res, nil
}

// HitBlackjack draws a card for the player.
func (s *Session) HitBlackjack() (games.HitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.blackjack.Hit()
	if err != nil {
		return res, err
	}
	if res.Result != nil {
		s.finishBlackjack(*res.Result)
	}
	return res, nil
}

// StandBlackjack ends the player turn and runs the dealer.
func (s *Session) StandBlackjack() (games.DealerRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.blackjack.Stand()
	if err != nil {
		return res, err
	}
	s.finishBlackjack(res.Result)
	return res, nil
}

// BlackjackView returns the player-facing table snapshot.
func (s *Session) BlackjackView() games.BlackjackView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blackjack.View()
}

func (s *Session) finishBlackjack(res games.Result) {
	s.ledger.SetWagerLocked(ledger.Blackjack, false)
	wager := s.ledger.Wager(ledger.Blackjack)
	if res.AmountDelta > 0 {
		s.notifyWin("Blackjack", wager, res.AmountDelta+wager)
	}
	s.persistAdmin()
}

// --- Mines ---

// StartMines begins a mines round with the given mine count and locks
// the wager.
func (s *Session) StartMines(mineCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy.Maintenance() {
		return ErrMaintenance
	}
	if err := s.mines.Start(mineCount); err != nil {
		return err
	}
	s.ledger.SetWagerLocked(ledger.Mines, true)
	return nil
}

// RevealMine uncovers one cell of the active mines round.
func (s *Session) RevealMine(cell int) (games.RevealResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.mines.Reveal(cell)
	if err != nil {
		return res, err
	}
	if res.Result != nil {
		s.ledger.SetWagerLocked(ledger.Mines, false)
		wager := s.ledger.Wager(ledger.Mines)
		if res.Result.AmountDelta > 0 {
			s.notifyWin("Mines", wager, res.Result.AmountDelta+wager)
		}
		s.persistAdmin()
	}
	return res, nil
}

// CashoutMines ends the active mines round at the current multiplier.
func (s *Session) CashoutMines() (games.CashoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.mines.Cashout()
	if err != nil {
		return res, err
	}
	s.ledger.SetWagerLocked(ledger.Mines, false)
	wager := s.ledger.Wager(ledger.Mines)
	if res.Result.AmountDelta > 0 {
		s.notifyWin("Mines", wager, res.Payout)
	}
	s.persistAdmin()
	return res, nil
}

// MinesView returns the player-facing grid snapshot.
func (s *Session) MinesView() games.MinesView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mines.View()
}

// CloseGame forcibly resolves any round still active in the named game,
// as when the player navigates away mid-round. An abandoned round is a
// loss of the wager already debited.
func (s *Session) CloseGame(g ledger.Game) (*games.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res games.Result
	var abandoned bool
	switch g {
	case ledger.Blackjack:
		res, abandoned = s.blackjack.Abandon()
	case ledger.Mines:
		res, abandoned = s.mines.Abandon()
	case ledger.Roulette:
		// Atomic game; only a pending selection to discard.
		s.roulette.Reset()
		return nil, nil
	case ledger.Slots:
		return nil, nil
	default:
		return nil, ErrUnknownGame
	}
	if !abandoned {
		return nil, nil
	}
	s.ledger.SetWagerLocked(g, false)
	s.persistAdmin()
	s.log.Info("round abandoned", zap.String("game", string(g)), zap.Int64("delta", res.AmountDelta))
	return &res, nil
}

// --- Admin ---

// AdminState is the admin panel snapshot.
type AdminState struct {
	Policy admin.PolicySnapshot `json:"policy"`
	Stats  admin.StatsSnapshot  `json:"stats"`
}

// Admin returns the current house policy and statistics.
func (s *Session) Admin() AdminState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AdminState{Policy: s.policy.Snapshot(), Stats: s.stats.Snapshot()}
}

// SetMaxBet updates the wager ceiling, clamping any bet now above it.
func (s *Session) SetMaxBet(v int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.policy.SetMaxBet(v); err != nil {
		return err
	}
	s.ledger.ClampWagers()
	s.persistAdmin()
	return nil
}

// SetHouseEdge updates the advertised house edge percentage.
func (s *Session) SetHouseEdge(pct int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.policy.SetHouseEdge(pct); err != nil {
		return err
	}
	s.persistAdmin()
	return nil
}

// SetMaintenance toggles maintenance mode. Active rounds finish; new
// rounds are rejected while on.
func (s *Session) SetMaintenance(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy.SetMaintenance(on)
	s.persistAdmin()
}

// SetDebug toggles debug mode, which gates the cheat overlay surface.
func (s *Session) SetDebug(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy.SetDebug(on)
	s.persistAdmin()
}

// SetGems overwrites the session balance. Admin-only.
func (s *Session) SetGems(amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.SetBalance(amount)
}

// ResetStats zeroes the aggregate game statistics.
func (s *Session) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Reset()
	s.persistAdmin()
}

// --- Cheats ---

// CheatFlags returns the current overlay flag states.
func (s *Session) CheatFlags() cheat.Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.Snapshot()
}

// SetForceJackpot arms the one-shot slots jackpot.
func (s *Session) SetForceJackpot(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.SetForceJackpot(on)
	s.notifyCheat(on, "force_jackpot")
}

// SetForcedColor arms the one-shot roulette color override.
func (s *Session) SetForcedColor(c games.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.overlay.SetForcedColor(c); err != nil {
		return err
	}
	s.notifyCheat(true, "roulette_force_"+string(c))
	return nil
}

// ClearForcedColor disarms the roulette color override.
func (s *Session) ClearForcedColor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.SetForcedColor("")
}

// SetMinesAutoWin toggles mine disarming on reveal.
func (s *Session) SetMinesAutoWin(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.SetMinesAutoWin(on)
	s.notifyCheat(on, "mines_auto_win")
}

// SetMinesESP toggles mine layout exposure in views.
func (s *Session) SetMinesESP(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.SetMinesESP(on)
	s.notifyCheat(on, "mines_esp")
}

// SetForceDealerBust arms the one-shot dealer bust.
func (s *Session) SetForceDealerBust(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.SetForceDealerBust(on)
	s.notifyCheat(on, "force_dealer_bust")
}

// SetSeeDealerCard toggles hole card exposure.
func (s *Session) SetSeeDealerCard(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.SetSeeDealerCard(on)
	s.notifyCheat(on, "see_dealer_card")
}

// SetBalanceFloor toggles the low-balance reset.
func (s *Session) SetBalanceFloor(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.SetBalanceFloor(on)
	s.notifyCheat(on, "balance_floor")
	if on {
		// Apply immediately so the next read reflects it.
		s.ledger.Balance()
	}
}

// --- State ---

// State is the full player-facing session snapshot.
type State struct {
	Username    string                `json:"username,omitempty"`
	Balance     int64                 `json:"balance"`
	Wagers      map[ledger.Game]int64 `json:"wagers"`
	Maintenance bool                  `json:"maintenance"`
	Debug       bool                  `json:"debug"`
}

// State returns the session snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	wagers := make(map[ledger.Game]int64, len(ledger.Games))
	for _, g := range ledger.Games {
		wagers[g] = s.ledger.Wager(g)
	}
	return State{
		Username:    s.username,
		Balance:     s.ledger.Balance(),
		Wagers:      wagers,
		Maintenance: s.policy.Maintenance(),
		Debug:       s.policy.Debug(),
	}
}

// --- internals ---

// afterRound handles notification and persistence for atomic games.
func (s *Session) afterRound(game string, wager, payout int64) {
	if payout > 0 {
		s.notifyWin(game, wager, payout)
	}
	s.persistAdmin()
}

func (s *Session) notifyWin(game string, wager, winAmount int64) {
	if s.notifier == nil {
		return
	}
	go s.notifier.PostWin(s.username, game, wager, winAmount)
}

func (s *Session) notifyCheat(on bool, cheatType string) {
	if !on || s.notifier == nil {
		return
	}
	go s.notifier.PostCheat(s.username, cheatType)
}

// persistBalance runs on every ledger change, saving the balance for a
// logged-in account. Guest balances are not persisted.
func (s *Session) persistBalance(balance int64) {
	if s.username == "" || s.users == nil {
		return
	}
	if err := s.users.SaveGems(s.username, balance); err != nil {
		s.log.Error("balance persist failed", zap.String("username", s.username), zap.Error(err))
	}
}

// persistAdmin saves the house-state row. Caller holds the mutex.
func (s *Session) persistAdmin() {
	if s.db == nil {
		return
	}
	snap := s.stats.Snapshot()
	pol := s.policy.Snapshot()
	row := &store.AdminStats{
		GamesPlayed:     snap.GamesPlayed,
		Wins:            snap.Wins,
		Losses:          snap.Losses,
		HouseEdge:       pol.HouseEdge,
		MaxBet:          pol.MaxBet,
		MaintenanceMode: pol.MaintenanceMode,
		DebugMode:       pol.DebugMode,
	}
	if s.users != nil {
		if all, err := s.users.List(); err == nil {
			row.TotalPlayers = len(all)
			for _, u := range all {
				row.TotalGems += u.Gems
			}
		}
	}
	if err := s.db.SaveAdminStats(row); err != nil {
		s.log.Error("admin state persist failed", zap.Error(err))
	}
}
