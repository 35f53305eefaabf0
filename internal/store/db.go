package store

import "time"

// DB is the persistence interface for session and account state.
type DB interface {
	Close() error
	Migrate() error

	CreateUser(u *User) error
	GetUser(username string) (*User, error)
	ListUsers() ([]User, error)
	UpdateGems(username string, gems int64) error

	BanUser(b *BannedUser) error
	UnbanUser(username string) error
	IsBanned(username string) (bool, error)
	ListBanned() ([]BannedUser, error)

	SaveAdminStats(s *AdminStats) error
	// LoadAdminStats returns nil when no stats row has been saved yet.
	LoadAdminStats() (*AdminStats, error)
}

// User is one account record. The password is stored as plain text by
// design of the system being modeled; there is no credential security.
type User struct {
	ID       string    `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
	Email    string    `json:"email" db:"email"`
	Password string    `json:"password" db:"password"`
	Gems     int64     `json:"gems" db:"gems"`
	JoinDate time.Time `json:"joinDate" db:"join_date"`
}

// BannedUser is one ban-list entry. Banned usernames are excluded from
// login until unbanned.
type BannedUser struct {
	Username string    `json:"username" db:"username"`
	Email    string    `json:"email" db:"email"`
	BannedAt time.Time `json:"bannedAt" db:"banned_at"`
}

// AdminStats is the single persisted row of house state.
type AdminStats struct {
	TotalPlayers    int   `json:"totalPlayers" db:"total_players"`
	TotalGems       int64 `json:"totalGems" db:"total_gems"`
	GamesPlayed     int   `json:"gamesPlayed" db:"games_played"`
	Wins            int   `json:"wins" db:"wins"`
	Losses          int   `json:"losses" db:"losses"`
	HouseEdge       int   `json:"houseEdge" db:"house_edge"`
	MaxBet          int64 `json:"maxBet" db:"max_bet"`
	MaintenanceMode bool  `json:"maintenanceMode" db:"maintenance_mode"`
	DebugMode       bool  `json:"debugMode" db:"debug_mode"`
}
