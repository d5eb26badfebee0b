package mission

import (
	"fmt"
	"time"

	"aide/internal/intent"
)

const (
	StatusProposed  = "proposed"
	StatusApproved  = "approved"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Constraints are the optional execution limits parsed from the message.
type Constraints struct {
	TopN        int  `json:"top_n,omitempty"`
	SummaryOnly bool `json:"summary_only,omitempty"`
}

// Fields are the structured parameters of a mission. They are copied
// verbatim from a READY readiness result and never re-derived from raw text.
type Fields struct {
	Intent       intent.Type `json:"intent"`
	ActionObject string      `json:"action_object"`
	ActionTarget string      `json:"action_target,omitempty"`
	SourceURL    string      `json:"source_url,omitempty"`
	Constraints  Constraints `json:"constraints"`
}

// Mission is a validated unit of work. Fields are immutable after creation;
// only Status transitions, and only along
// proposed -> approved -> active -> completed|failed.
type Mission struct {
	ID        string
	SessionID string
	Fields    Fields
	Status    string
	CreatedAt time.Time
}

// New builds a proposed mission. It is called from exactly one place, the
// readiness gate; every other component receives missions by reference.
// Structurally incomplete fields indicate a programming error upstream and
// halt rather than degrade.
func New(id, sessionID string, f Fields) *Mission {
	if id == "" || f.Intent == intent.Unknown || f.Intent == "" {
		panic(fmt.Sprintf("mission.New: incomplete construction (id=%q intent=%q)", id, f.Intent))
	}
	return &Mission{
		ID:        id,
		SessionID: sessionID,
		Fields:    f,
		Status:    StatusProposed,
		CreatedAt: time.Now(),
	}
}

// Approve moves proposed -> approved.
func (m *Mission) Approve() error { return m.advance(StatusProposed, StatusApproved) }

// Activate moves approved -> active; execution is underway.
func (m *Mission) Activate() error { return m.advance(StatusApproved, StatusActive) }

// Complete moves active -> completed.
func (m *Mission) Complete() error { return m.advance(StatusActive, StatusCompleted) }

// Fail moves active -> failed.
func (m *Mission) Fail() error { return m.advance(StatusActive, StatusFailed) }

func (m *Mission) advance(from, to string) error {
	if m.Status != from {
		return fmt.Errorf("mission %s: cannot move %s -> %s", m.ID, m.Status, to)
	}
	m.Status = to
	return nil
}

// Terminal reports whether the mission can never execute again.
func (m *Mission) Terminal() bool {
	return m.Status == StatusCompleted || m.Status == StatusFailed
}
