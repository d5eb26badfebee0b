// Package metrics records timing for mission execution: one record per
// action, rolled up per stage and per mission. Records ride along with the
// artifact so the CLI can report how a mission ran.
package metrics

import "time"

// ActionMetrics times a single action run inside a stage.
type ActionMetrics struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Err        string    `json:"err,omitempty"`
}

// Finish stamps the end time and outcome of the action.
func (a *ActionMetrics) Finish(err error) {
	a.End = time.Now()
	a.DurationMs = a.End.Sub(a.Start).Milliseconds()
	a.Success = err == nil
	if err != nil {
		a.Err = err.Error()
	}
}

// StageMetrics rolls up the actions of one plan stage.
type StageMetrics struct {
	Stage      int             `json:"stage"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	DurationMs int64           `json:"duration_ms"`
	Actions    []ActionMetrics `json:"actions"`
}

// Finalize stamps the stage end time and derives its duration.
func (s *StageMetrics) Finalize() {
	s.End = time.Now()
	s.DurationMs = s.End.Sub(s.Start).Milliseconds()
}

// MissionMetrics is the top-level record attached to an executed mission.
type MissionMetrics struct {
	MissionID  string         `json:"mission_id"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	DurationMs int64          `json:"duration_ms"`
	Succeeded  bool           `json:"succeeded"`
	Stages     []StageMetrics `json:"stages"`
}

// Finalize stamps the mission end time and derives its duration.
func (m *MissionMetrics) Finalize() {
	m.End = time.Now()
	m.DurationMs = m.End.Sub(m.Start).Milliseconds()
}
