// Package store persists small local state between runs: ticket creation
// preferences and per-session draft answers.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	storeDir  = ".workbench"
	storeFile = "state.db"
)

// Preference keys.
const (
	PrefProjectKey     = "jira.project_key"
	PrefSubtaskType    = "jira.subtask_type"
	PrefCreateSubtasks = "jira.create_subtasks"
)

// Store wraps the sqlite connection.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if needed) the state database under baseDir.
func Open(baseDir string) (*Store, error) {
	dir := filepath.Join(baseDir, storeDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	conn, err := sql.Open("sqlite", filepath.Join(dir, storeFile))
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS prefs (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS drafts (
			session_id  TEXT    NOT NULL,
			question_id INTEGER NOT NULL,
			answer      TEXT    NOT NULL,
			PRIMARY KEY (session_id, question_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate state db: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Get returns the stored value for key, or "" when unset.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get pref %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.conn.Exec(
		"INSERT INTO prefs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}

// SaveDraft stores an unsubmitted answer for a session's question.
func (s *Store) SaveDraft(sessionID string, questionID int, answer string) error {
	_, err := s.conn.Exec(
		"INSERT INTO drafts (session_id, question_id, answer) VALUES (?, ?, ?) "+
			"ON CONFLICT(session_id, question_id) DO UPDATE SET answer = excluded.answer",
		sessionID, questionID, answer)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Drafts returns all draft answers for a session keyed by question id.
func (s *Store) Drafts(sessionID string) (map[int]string, error) {
	rows, err := s.conn.Query("SELECT question_id, answer FROM drafts WHERE session_id = ?", sessionID)
	if err != nil {
		return nil, fmt.Errorf("load drafts: %w", err)
	}
	defer rows.Close()

	drafts := make(map[int]string)
	for rows.Next() {
		var id int
		var answer string
		if err := rows.Scan(&id, &answer); err != nil {
			return nil, fmt.Errorf("load drafts: %w", err)
		}
		drafts[id] = answer
	}
	return drafts, rows.Err()
}

// ClearDrafts removes every draft for a session. Called on answer
// submission and on panel close.
func (s *Store) ClearDrafts(sessionID string) error {
	if _, err := s.conn.Exec("DELETE FROM drafts WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("clear drafts: %w", err)
	}
	return nil
}
