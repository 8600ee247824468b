package main

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PlayerRow represents a pilot account record in the database
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// StatsRow represents lifetime pilot stats
type StatsRow struct {
	PlayerID int64
	Kills    int
	Deaths   int
	Captures int
	Matches  int
	Wins     int
}

// MatchRow represents a completed match
type MatchRow struct {
	ID         int64
	MatchUUID  string
	Duration   float64
	WinnerTeam int
	ScoreA     int
	ScoreB     int
	CreatedAt  time.Time
}

// MatchPlayerRow represents a player's participation in a match
type MatchPlayerRow struct {
	MatchID  int64
	PlayerID int64
	Name     string
	Team     int
	Kills    int
	Deaths   int
	Captures int
}

// EventRow is one recorded simulation event
type EventRow struct {
	MatchUUID string
	Kind      string
	PlayerID  string
	Team      int
	X, Y, Z   float64
	Data      string
	At        float64
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
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		player_id INTEGER PRIMARY KEY REFERENCES players(id),
		kills INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0,
		captures INTEGER NOT NULL DEFAULT 0,
		matches INTEGER NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_uuid TEXT NOT NULL,
		duration REAL NOT NULL DEFAULT 0,
		winner_team INTEGER NOT NULL DEFAULT 0,
		score_a INTEGER NOT NULL DEFAULT 0,
		score_b INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS match_players (
		match_id INTEGER NOT NULL REFERENCES matches(id),
		player_id INTEGER NOT NULL DEFAULT 0,
		name TEXT NOT NULL DEFAULT '',
		team INTEGER NOT NULL DEFAULT 0,
		kills INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0,
		captures INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_uuid TEXT NOT NULL,
		kind TEXT NOT NULL,
		player_id TEXT NOT NULL DEFAULT '',
		team INTEGER NOT NULL DEFAULT 0,
		x REAL NOT NULL DEFAULT 0,
		y REAL NOT NULL DEFAULT 0,
		z REAL NOT NULL DEFAULT 0,
		data TEXT NOT NULL DEFAULT '',
		at REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_match_players_player ON match_players(player_id);
	CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
	CREATE INDEX IF NOT EXISTS idx_events_match ON events(match_uuid);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// GetSetting returns a settings value, or "" when absent
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting upserts a settings value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// CreatePlayer creates a new pilot account (returns player ID)
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	// Create stats row
	_, err = db.conn.Exec("INSERT INTO stats (player_id) VALUES (?)", id)
	return id, err
}

// CreateGuest creates a guest pilot (no password)
func (db *DB) CreateGuest(username string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, is_guest) VALUES (?, 1)",
		username,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec("INSERT INTO stats (player_id) VALUES (?)", id)
	return id, err
}

// GetPlayerByUsername returns a pilot by username
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE username = ?",
		username,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetPlayerByID returns a pilot by ID
func (db *DB) GetPlayerByID(id int64) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE id = ?",
		id,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetStats returns lifetime pilot stats
func (db *DB) GetStats(playerID int64) (*StatsRow, error) {
	row := db.conn.QueryRow(
		"SELECT player_id, kills, deaths, captures, matches, wins FROM stats WHERE player_id = ?",
		playerID,
	)
	s := &StatsRow{}
	err := row.Scan(&s.PlayerID, &s.Kills, &s.Deaths, &s.Captures, &s.Matches, &s.Wins)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// ApplyMatchStats folds one match's line into a pilot's lifetime stats
func (db *DB) ApplyMatchStats(playerID int64, kills, deaths, captures int, won bool) error {
	winInc := 0
	if won {
		winInc = 1
	}
	_, err := db.conn.Exec(`
		UPDATE stats SET
			kills = kills + ?,
			deaths = deaths + ?,
			captures = captures + ?,
			matches = matches + 1,
			wins = wins + ?
		WHERE player_id = ?`,
		kills, deaths, captures, winInc, playerID,
	)
	return err
}

// GetLeaderboard returns top pilots sorted by the given field
func (db *DB) GetLeaderboard(orderBy string, limit int) ([]LeaderboardEntry, error) {
	// Whitelist valid order columns
	validCols := map[string]string{
		"kills": "s.kills", "wins": "s.wins", "captures": "s.captures",
		"kd": "CASE WHEN s.deaths > 0 THEN CAST(s.kills AS REAL)/s.deaths ELSE s.kills END",
	}
	col, ok := validCols[orderBy]
	if !ok {
		col = "s.captures"
	}

	query := `SELECT p.username, s.kills, s.deaths, s.captures, s.matches, s.wins
		FROM stats s JOIN players p ON p.id = s.player_id
		WHERE p.is_guest = 0
		ORDER BY ` + col + ` DESC LIMIT ?`

	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Kills, &e.Deaths, &e.Captures, &e.Matches, &e.Wins); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Kills    int    `json:"kills"`
	Deaths   int    `json:"deaths"`
	Captures int    `json:"captures"`
	Matches  int    `json:"matches"`
	Wins     int    `json:"wins"`
}

// RecordMatch records a completed match and returns its row ID
func (db *DB) RecordMatch(matchUUID string, duration float64, winnerTeam int, scores [2]int) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO matches (match_uuid, duration, winner_team, score_a, score_b) VALUES (?, ?, ?, ?, ?)",
		matchUUID, duration, winnerTeam, scores[0], scores[1],
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordMatchPlayer records a player's line for a match
func (db *DB) RecordMatchPlayer(matchID, playerID int64, name string, team, kills, deaths, captures int) error {
	_, err := db.conn.Exec(
		`INSERT INTO match_players (match_id, player_id, name, team, kills, deaths, captures)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		matchID, playerID, name, team, kills, deaths, captures,
	)
	return err
}

// GetMatchHistory returns recent match lines for a pilot
func (db *DB) GetMatchHistory(playerID int64, limit int) ([]MatchPlayerRow, error) {
	rows, err := db.conn.Query(`
		SELECT mp.match_id, mp.player_id, mp.name, mp.team, mp.kills, mp.deaths, mp.captures
		FROM match_players mp
		JOIN matches m ON m.id = mp.match_id
		WHERE mp.player_id = ?
		ORDER BY m.created_at DESC
		LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchPlayerRow
	for rows.Next() {
		var r MatchPlayerRow
		if err := rows.Scan(&r.MatchID, &r.PlayerID, &r.Name, &r.Team, &r.Kills, &r.Deaths, &r.Captures); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// InsertEvents writes a batch of simulation events in one transaction
func (db *DB) InsertEvents(batch []EventRow) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		"INSERT INTO events (match_uuid, kind, player_id, team, x, y, z, data, at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range batch {
		if _, err := stmt.Exec(e.MatchUUID, e.Kind, e.PlayerID, e.Team, e.X, e.Y, e.Z, e.Data, e.At); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}
