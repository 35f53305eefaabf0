package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrUserExists is returned when creating a user whose username is taken.
var ErrUserExists = errors.New("store: username already exists")

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the schema. Safe to run repeatedly.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			password TEXT NOT NULL,
			gems INTEGER NOT NULL DEFAULT 0,
			join_date DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS banned_users (
			username TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			banned_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admin_stats (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_players INTEGER NOT NULL DEFAULT 0,
			total_gems INTEGER NOT NULL DEFAULT 0,
			games_played INTEGER NOT NULL DEFAULT 0,
			wins INTEGER NOT NULL DEFAULT 0,
			losses INTEGER NOT NULL DEFAULT 0,
			house_edge INTEGER NOT NULL DEFAULT 5,
			max_bet INTEGER NOT NULL DEFAULT 100,
			maintenance_mode INTEGER NOT NULL DEFAULT 0,
			debug_mode INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new account, assigning an ID and join date when
// they are unset.
func (s *SQLiteDB) CreateUser(u *User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.JoinDate.IsZero() {
		u.JoinDate = time.Now().UTC()
	}

	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ?`, u.Username).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if exists > 0 {
		return ErrUserExists
	}

	_, err = s.db.Exec(
		`INSERT INTO users (id, username, email, password, gems, join_date) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.Password, u.Gems, u.JoinDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser returns the account for a username, or nil when absent.
func (s *SQLiteDB) GetUser(username string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		`SELECT id, username, email, password, gems, join_date FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Gems, &u.JoinDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// ListUsers returns every account ordered by join date.
func (s *SQLiteDB) ListUsers() ([]User, error) {
	rows, err := s.db.Query(`SELECT id, username, email, password, gems, join_date FROM users ORDER BY join_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Gems, &u.JoinDate); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateGems writes a user's balance.
func (s *SQLiteDB) UpdateGems(username string, gems int64) error {
	_, err := s.db.Exec(`UPDATE users SET gems = ? WHERE username = ?`, gems, username)
	if err != nil {
		return fmt.Errorf("failed to update gems: %w", err)
	}
	return nil
}

// BanUser adds a ban-list entry. Banning twice is a no-op.
func (s *SQLiteDB) BanUser(b *BannedUser) error {
	if b.BannedAt.IsZero() {
		b.BannedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO banned_users (username, email, banned_at) VALUES (?, ?, ?)`,
		b.Username, b.Email, b.BannedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}
	return nil
}

// UnbanUser removes a ban-list entry.
func (s *SQLiteDB) UnbanUser(username string) error {
	_, err := s.db.Exec(`DELETE FROM banned_users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}
	return nil
}

// IsBanned reports whether a username is on the ban list.
func (s *SQLiteDB) IsBanned(username string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM banned_users WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check ban: %w", err)
	}
	return count > 0, nil
}

// ListBanned returns every ban-list entry.
func (s *SQLiteDB) ListBanned() ([]BannedUser, error) {
	rows, err := s.db.Query(`SELECT username, email, banned_at FROM banned_users ORDER BY banned_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list banned users: %w", err)
	}
	defer rows.Close()

	var banned []BannedUser
	for rows.Next() {
		var b BannedUser
		if err := rows.Scan(&b.Username, &b.Email, &b.BannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan banned user: %w", err)
		}
		banned = append(banned, b)
	}
	return banned, rows.Err()
}

// SaveAdminStats upserts the single house-state row.
func (s *SQLiteDB) SaveAdminStats(st *AdminStats) error {
	_, err := s.db.Exec(
		`INSERT INTO admin_stats (id, total_players, total_gems, games_played, wins, losses, house_edge, max_bet, maintenance_mode, debug_mode)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			total_players = excluded.total_players,
			total_gems = excluded.total_gems,
			games_played = excluded.games_played,
			wins = excluded.wins,
			losses = excluded.losses,
			house_edge = excluded.house_edge,
			max_bet = excluded.max_bet,
			maintenance_mode = excluded.maintenance_mode,
			debug_mode = excluded.debug_mode`,
		st.TotalPlayers, st.TotalGems, st.GamesPlayed, st.Wins, st.Losses,
		st.HouseEdge, st.MaxBet, st.MaintenanceMode, st.DebugMode,
	)
	if err != nil {
		return fmt.Errorf("failed to save admin stats: %w", err)
	}
	return nil
}

// LoadAdminStats reads the house-state row, or nil when never saved.
func (s *SQLiteDB) LoadAdminStats() (*AdminStats, error) {
	var st AdminStats
	err := s.db.QueryRow(
		`SELECT total_players, total_gems, games_played, wins, losses, house_edge, max_bet, maintenance_mode, debug_mode
		 FROM admin_stats WHERE id = 1`,
	).Scan(&st.TotalPlayers, &st.TotalGems, &st.GamesPlayed, &st.Wins, &st.Losses,
		&st.HouseEdge, &st.MaxBet, &st.MaintenanceMode, &st.DebugMode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin stats: %w", err)
	}
	return &st, nil
}
