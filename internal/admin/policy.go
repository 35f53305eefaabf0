// Package admin holds the house configuration and the aggregate game
// statistics read by the ledger and engines.
package admin

import "errors"

var (
	ErrHouseEdgeRange = errors.New("admin: house edge must be between 0 and 100")
	ErrMaxBetTooLow   = errors.New("admin: max bet must be at least 100")
)

// Policy defaults and the floor below which the max bet cannot be set.
const (
	DefaultHouseEdge       = 5
	DefaultMaxBet    int64 = 100
	MaxBetFloor      int64 = 100
)

// Policy is the mutable house configuration. Malformed updates are
// rejected and the previous value retained.
type Policy struct {
	houseEdge   int
	maxBet      int64
	maintenance bool
	debug       bool
}

// NewPolicy returns a policy at the defaults.
func NewPolicy() *Policy {
	return &Policy{houseEdge: DefaultHouseEdge, maxBet: DefaultMaxBet}
}

// HouseEdge returns the configured house edge percentage.
func (p *Policy) HouseEdge() int {
	return p.houseEdge
}

// SetHouseEdge updates the house edge, rejecting values outside [0, 100].
func (p *Policy) SetHouseEdge(pct int) error {
	if pct < 0 || pct > 100 {
		return ErrHouseEdgeRange
	}
	p.houseEdge = pct
	return nil
}

// MaxBet returns the wager ceiling. Satisfies the ledger's policy hook.
func (p *Policy) MaxBet() int64 {
	return p.maxBet
}

// SetMaxBet updates the wager ceiling, rejecting values below the floor.
func (p *Policy) SetMaxBet(v int64) error {
	if v < MaxBetFloor {
		return ErrMaxBetTooLow
	}
	p.maxBet = v
	return nil
}

// Maintenance reports whether new rounds are blocked.
func (p *Policy) Maintenance() bool {
	return p.maintenance
}

// SetMaintenance toggles maintenance mode.
func (p *Policy) SetMaintenance(on bool) {
	p.maintenance = on
}

// Debug reports whether debug mode is on.
func (p *Policy) Debug() bool {
	return p.debug
}

// SetDebug toggles debug mode.
func (p *Policy) SetDebug(on bool) {
	p.debug = on
}

// PolicySnapshot is the serializable view of the policy.
type PolicySnapshot struct {
	HouseEdge       int   `json:"houseEdge"`
	MaxBet          int64 `json:"maxBet"`
	MaintenanceMode bool  `json:"maintenanceMode"`
	DebugMode       bool  `json:"debugMode"`
}

// Snapshot returns the current policy values.
func (p *Policy) Snapshot() PolicySnapshot {
	return PolicySnapshot{
		HouseEdge:       p.houseEdge,
		MaxBet:          p.maxBet,
		MaintenanceMode: p.maintenance,
		DebugMode:       p.debug,
	}
}

// Restore overwrites the policy from a persisted snapshot, keeping
// defaults for out-of-range values.
func (p *Policy) Restore(s PolicySnapshot) {
	if s.HouseEdge >= 0 && s.HouseEdge <= 100 {
		p.houseEdge = s.HouseEdge
	}
	if s.MaxBet >= MaxBetFloor {
		p.maxBet = s.MaxBet
	}
	p.maintenance = s.MaintenanceMode
	p.debug = s.DebugMode
}
