package admin

import "math"

// Stats aggregates games played, wins, and losses across all engines for
// the lifetime of the session. A push counts as a game played but neither
// a win nor a loss.
type Stats struct {
	played int
	wins   int
	losses int
}

// NewStats returns zeroed counters.
func NewStats() *Stats {
	return &Stats{}
}

// RecordWin counts a won round.
func (s *Stats) RecordWin() {
	s.played++
	s.wins++
}

// RecordLoss counts a lost round.
func (s *Stats) RecordLoss() {
	s.played++
	s.losses++
}

// RecordPush counts a tied round.
func (s *Stats) RecordPush() {
	s.played++
}

// Reset zeroes all counters. Admin-only.
func (s *Stats) Reset() {
	*s = Stats{}
}

// StatsSnapshot is the serializable view of the counters.
type StatsSnapshot struct {
	GamesPlayed int `json:"gamesPlayed"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	WinRate     int `json:"winRate"`
}

// Snapshot returns the current counters with the win rate as a rounded
// percentage of games played.
func (s *Stats) Snapshot() StatsSnapshot {
	rate := 0
	if s.played > 0 {
		rate = int(math.Round(float64(s.wins) / float64(s.played) * 100))
	}
	return StatsSnapshot{
		GamesPlayed: s.played,
		Wins:        s.wins,
		Losses:      s.losses,
		WinRate:     rate,
	}
}

// Restore overwrites the counters from a persisted snapshot.
func (s *Stats) Restore(snap StatsSnapshot) {
	s.played = snap.GamesPlayed
	s.wins = snap.Wins
	s.losses = snap.Losses
}
