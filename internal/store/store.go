// Package store is the durable persistence collaborator: missions and
// artifacts survive restarts. The pipeline only ever sees the narrow
// interfaces its stages declare, never this package directly.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"aide/internal/mission"
)

const schema = `
CREATE TABLE IF NOT EXISTS missions (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	intent      TEXT NOT NULL,
	fields_json TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_missions_session ON missions(session_id, created_at);

CREATE TABLE IF NOT EXISTS artifacts (
	mission_id  TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	source_url  TEXT NOT NULL,
	item_count  INTEGER NOT NULL,
	payload_json TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artifacts_session ON artifacts(session_id, created_at);
`

type DB struct {
	db *sql.DB
}

// Open opens (and migrates) the sqlite database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (s *DB) Close() error { return s.db.Close() }

// SaveMission inserts a newly proposed mission.
func (s *DB) SaveMission(m *mission.Mission) error {
	fields, err := json.Marshal(m.Fields)
	if err != nil {
		return fmt.Errorf("could not encode mission fields: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO missions (id, session_id, intent, fields_json, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.SessionID, string(m.Fields.Intent), string(fields), m.Status, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not insert mission %s: %w", m.ID, err)
	}
	return nil
}

// UpdateMissionStatus records a status transition.
func (s *DB) UpdateMissionStatus(id, status string) error {
	res, err := s.db.Exec(`UPDATE missions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("could not update mission %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("mission %s not found", id)
	}
	return nil
}

// LatestMission returns the most recently created mission for a session, or
// nil when the session has none.
func (s *DB) LatestMission(sessionID string) (*mission.Mission, error) {
	row := s.db.QueryRow(
		`SELECT id, session_id, fields_json, status, created_at FROM missions
		 WHERE session_id = ? ORDER BY created_at DESC LIMIT 1`, sessionID)

	var m mission.Mission
	var fieldsJSON string
	err := row.Scan(&m.ID, &m.SessionID, &fieldsJSON, &m.Status, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read latest mission: %w", err)
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &m.Fields); err != nil {
		return nil, fmt.Errorf("could not decode mission fields: %w", err)
	}
	return &m, nil
}

// SaveArtifact stores the execution artifact for a completed mission.
func (s *DB) SaveArtifact(sessionID string, a *mission.Artifact) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("could not encode artifact: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO artifacts (mission_id, session_id, source_url, item_count, payload_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.MissionID, sessionID, a.SourceURL, a.ItemCount, string(payload), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not insert artifact for mission %s: %w", a.MissionID, err)
	}
	return nil
}

// LatestArtifact returns the most recent artifact for a session, or nil.
func (s *DB) LatestArtifact(sessionID string) (*mission.Artifact, error) {
	row := s.db.QueryRow(
		`SELECT payload_json FROM artifacts WHERE session_id = ? ORDER BY created_at DESC LIMIT 1`,
		sessionID)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read latest artifact: %w", err)
	}
	var a mission.Artifact
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("could not decode artifact: %w", err)
	}
	return &a, nil
}

// MissionCount reports how many missions a session has created.
func (s *DB) MissionCount(sessionID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM missions WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("could not count missions: %w", err)
	}
	return n, nil
}
