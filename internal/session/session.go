// Package session holds per-conversation state. A context is created lazily
// per session id and never shared across sessions.
package session

import (
	"sync"

	"aide/internal/clarify"
	"aide/internal/intent"
	"aide/internal/mission"
)

// History is the bounded record of prior URLs, objects and intents, most
// recent first.
type History struct {
	URLs    []string
	Objects []string
	Intents []intent.Type
	limit   int
}

func (h *History) push(slot *[]string, v string) {
	if v == "" {
		return
	}
	*slot = append([]string{v}, *slot...)
	if len(*slot) > h.limit {
		*slot = (*slot)[:h.limit]
	}
}

// Record notes the fields of a created mission.
func (h *History) Record(f mission.Fields) {
	h.push(&h.URLs, f.SourceURL)
	h.push(&h.Objects, f.ActionObject)
	h.Intents = append([]intent.Type{f.Intent}, h.Intents...)
	if len(h.Intents) > h.limit {
		h.Intents = h.Intents[:h.limit]
	}
}

// Context is one conversation's state. The dispatcher serializes access per
// session by holding mu across a full message.
type Context struct {
	ID                   string
	PendingMission       *mission.Mission
	PendingClarification *clarify.Pending
	Artifacts            []*mission.Artifact // oldest first
	History              History
	MissionCount         int

	mu sync.Mutex
}

func (c *Context) Lock()   { c.mu.Lock() }
func (c *Context) Unlock() { c.mu.Unlock() }

// SetPendingMission replaces any pending mission; at most one exists.
func (c *Context) SetPendingMission(m *mission.Mission) {
	c.PendingMission = m
}

func (c *Context) ClearPendingMission() { c.PendingMission = nil }

// SetPendingClarification replaces any pending clarification; at most one
// exists.
func (c *Context) SetPendingClarification(p *clarify.Pending) {
	c.PendingClarification = p
}

func (c *Context) ClearPendingClarification() { c.PendingClarification = nil }

// AddArtifact appends an execution artifact, bounded by the history limit.
func (c *Context) AddArtifact(a *mission.Artifact) {
	c.Artifacts = append(c.Artifacts, a)
	if lim := c.History.limit; lim > 0 && len(c.Artifacts) > lim {
		c.Artifacts = c.Artifacts[len(c.Artifacts)-lim:]
	}
}

// LastArtifact returns the most recent artifact, or nil.
func (c *Context) LastArtifact() *mission.Artifact {
	if len(c.Artifacts) == 0 {
		return nil
	}
	return c.Artifacts[len(c.Artifacts)-1]
}

// LastURL returns the most recently recorded source URL, or "".
func (c *Context) LastURL() string {
	if len(c.History.URLs) == 0 {
		return ""
	}
	return c.History.URLs[0]
}

// Manager owns the session map keyed by id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Context
	limit    int
}

func NewManager(historyLimit int) *Manager {
	if historyLimit <= 0 {
		historyLimit = 5
	}
	return &Manager{
		sessions: make(map[string]*Context),
		limit:    historyLimit,
	}
}

// Get returns the context for id, creating it on first use.
func (m *Manager) Get(id string) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.sessions[id]; ok {
		return c
	}
	c := &Context{ID: id, History: History{limit: m.limit}}
	m.sessions[id] = c
	return c
}
