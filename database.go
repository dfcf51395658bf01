package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// AccountRow is a ranked account
type AccountRow struct {
	ID        int64
	Username  string
	PassHash  string
	Rank      string
	CreatedAt time.Time
}

// RoundRow is a finished round with its players
type RoundRow struct {
	ID       int64            `json:"id"`
	Mode     string           `json:"mode"`
	Winner   string           `json:"winner"`
	Reason   string           `json:"reason"`
	Duration float64          `json:"duration"`
	EndedAt  time.Time        `json:"endedAt"`
	Players  []RoundPlayerRow `json:"players"`
}

// RoundPlayerRow is one participant's line in a finished round
type RoundPlayerRow struct {
	Name       string  `json:"name"`
	Rank       string  `json:"rank,omitempty"`
	Role       string  `json:"role"`
	Items      int     `json:"items"`
	TaggerTime float64 `json:"taggerTime"`
	Alive      bool    `json:"alive"`
	Winner     bool    `json:"winner"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL,
		rank TEXT NOT NULL DEFAULT 'member',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mode TEXT NOT NULL,
		winner TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		duration REAL NOT NULL DEFAULT 0,
		ended_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS round_players (
		round_id INTEGER NOT NULL REFERENCES rounds(id),
		name TEXT NOT NULL,
		rank TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		items INTEGER NOT NULL DEFAULT 0,
		tagger_time REAL NOT NULL DEFAULT 0,
		alive INTEGER NOT NULL DEFAULT 1,
		winner INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_round_players_round ON round_players(round_id);
	CREATE INDEX IF NOT EXISTS idx_rounds_ended ON rounds(ended_at);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// CreateAccount inserts a ranked account (returns account ID)
func (db *DB) CreateAccount(username, passHash, rank string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO accounts (username, pass_hash, rank) VALUES (?, ?, ?)",
		username, passHash, rank,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetAccountByUsername returns an account, or nil if there is none
func (db *DB) GetAccountByUsername(username string) (*AccountRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, rank, created_at FROM accounts WHERE username = ?",
		username,
	)
	a := &AccountRow{}
	err := row.Scan(&a.ID, &a.Username, &a.PassHash, &a.Rank, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// UsernameExists checks if an account name is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM accounts WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetSetting returns a stored setting, or "" when unset
func (db *DB) GetSetting(key string) string {
	var v string
	if err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v); err != nil {
		if err != sql.ErrNoRows {
			log.Printf("setting %s: %v", key, err)
		}
		return ""
	}
	return v
}

// SetSetting stores a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// RecordRounds writes a batch of finished rounds in one transaction
func (db *DB) RecordRounds(results []RoundResult) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	roundStmt, err := tx.Prepare(
		"INSERT INTO rounds (mode, winner, reason, duration, ended_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer roundStmt.Close()
	playerStmt, err := tx.Prepare(
		`INSERT INTO round_players (round_id, name, rank, role, items, tagger_time, alive, winner)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()

	for _, r := range results {
		res, err := roundStmt.Exec(r.Mode, r.Winner, r.Reason, r.Duration, r.EndedAt.UTC())
		if err != nil {
			return fmt.Errorf("insert round: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, p := range r.Players {
			if _, err := playerStmt.Exec(id, p.Name, p.Rank, p.Role, p.Items, p.TaggerTime, p.Alive, p.Winner); err != nil {
				return fmt.Errorf("insert round player: %w", err)
			}
		}
	}
	return tx.Commit()
}

// RecentRounds returns the latest finished rounds, newest first
func (db *DB) RecentRounds(limit int) ([]RoundRow, error) {
	rows, err := db.conn.Query(
		"SELECT id, mode, winner, reason, duration, ended_at FROM rounds ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RoundRow
	index := make(map[int64]int)
	for rows.Next() {
		var r RoundRow
		if err := rows.Scan(&r.ID, &r.Mode, &r.Winner, &r.Reason, &r.Duration, &r.EndedAt); err != nil {
			return nil, err
		}
		index[r.ID] = len(result)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	prows, err := db.conn.Query(
		`SELECT round_id, name, rank, role, items, tagger_time, alive, winner
		 FROM round_players WHERE round_id >= ? ORDER BY round_id, rowid`,
		result[len(result)-1].ID,
	)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var id int64
		var p RoundPlayerRow
		if err := prows.Scan(&id, &p.Name, &p.Rank, &p.Role, &p.Items, &p.TaggerTime, &p.Alive, &p.Winner); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			result[i].Players = append(result[i].Players, p)
		}
	}
	return result, prows.Err()
}
