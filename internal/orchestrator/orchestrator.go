// Package orchestrator dispatches each message through the fixed-priority
// stage chain: clarification resolution, artifact chaining, artifact
// follow-up, approval bridge, then classification and readiness. Each stage
// either produces the terminal response or defers to the next; no stage
// runs twice for one message.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"aide/internal/approval"
	"aide/internal/clarify"
	"aide/internal/display"
	"aide/internal/followup"
	"aide/internal/intent"
	"aide/internal/logger"
	"aide/internal/mission"
	"aide/internal/readiness"
	"aide/internal/session"
)

type ResponseType string

const (
	ResponseClarification  ResponseType = "clarification"
	ResponseApprovalPrompt ResponseType = "approval_prompt"
	ResponseMissionCreated ResponseType = "mission_created"
	ResponseFollowUpAnswer ResponseType = "followup_answer"
	ResponseRejectionAck   ResponseType = "rejection_ack"
	ResponseInformational  ResponseType = "informational"
)

// Response is the outbound shape consumed by any chat transport.
type Response struct {
	Type      ResponseType `json:"type"`
	Message   string       `json:"message"`
	MissionID string       `json:"mission_id,omitempty"`
}

// Store is the slice of the persistence collaborator the dispatcher writes
// through. May be nil; the pipeline has no dependency on storage technology.
type Store interface {
	SaveMission(m *mission.Mission) error
	UpdateMissionStatus(id, status string) error
	SaveArtifact(sessionID string, a *mission.Artifact) error
}

type Orchestrator struct {
	sessions *session.Manager
	engine   *readiness.Engine
	binder   clarify.Binder
	bridge   *approval.Bridge
	chaining followup.ChainingResolver
	followUp followup.FollowUpResolver
	store    Store
}

func New(sessions *session.Manager, exec approval.Executor, st Store) *Orchestrator {
	var rec approval.Recorder
	if st != nil {
		rec = st
	}
	return &Orchestrator{
		sessions: sessions,
		engine:   readiness.NewEngine(),
		bridge:   approval.NewBridge(exec, rec),
		store:    st,
	}
}

// ProcessMessage is the inbound entry point. Messages within one session
// are serialized by the session lock; different sessions share no state
// and run fully in parallel.
func (o *Orchestrator) ProcessMessage(ctx context.Context, sessionID, text string) *Response {
	sess := o.sessions.Get(sessionID)
	sess.Lock()
	defer sess.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return &Response{Type: ResponseInformational, Message: "Say what you'd like me to do, e.g. \"extract the titles from example.com\"."}
	}

	// Stage 1: clarification resolution. A bound reply re-enters the
	// readiness gate directly; a mismatch clears the clarification and
	// re-routes the text as a fresh message through the remaining stages.
	resolved := false
	if p := sess.PendingClarification; p != nil {
		if approval.IsRejection(text) {
			sess.ClearPendingClarification()
			return &Response{Type: ResponseRejectionAck, Message: "Okay, dropping that request."}
		}
		if rebuilt, ok := o.binder.Resolve(text, p); ok {
			logger.Log.Infof("session %s: clarification %s resolved, re-validating %q", sessionID, p.Type, rebuilt)
			sess.ClearPendingClarification()
			text = rebuilt
			resolved = true
		} else {
			sess.ClearPendingClarification()
		}
	}

	if !resolved {
		// Stage 2: artifact chaining (read-only).
		if answer, ok := o.chaining.Resolve(text, sess); ok {
			return &Response{Type: ResponseFollowUpAnswer, Message: answer}
		}
		// Stage 3: artifact follow-up (read-only).
		if answer, ok := o.followUp.Resolve(text, sess); ok {
			return &Response{Type: ResponseFollowUpAnswer, Message: answer}
		}
		// Stage 4: approval bridge.
		if resp := o.handleApproval(ctx, sess, text); resp != nil {
			return resp
		}
	}

	// Stage 5: classification + readiness.
	return o.handleCommand(sessionID, sess, text)
}

func (o *Orchestrator) handleApproval(ctx context.Context, sess *session.Context, text string) *Response {
	switch {
	case approval.IsApproval(text):
		m := sess.PendingMission
		if m == nil {
			// At-most-once: nothing is pending, so a repeated approval is a
			// plain acknowledgment, never a re-execution.
			return &Response{Type: ResponseInformational, Message: "Nothing is waiting for approval right now."}
		}
		art, mm, err := o.bridge.Execute(ctx, sess)
		if err != nil {
			return &Response{
				Type:      ResponseInformational,
				Message:   fmt.Sprintf("Mission %s failed: %v", m.ID, err),
				MissionID: m.ID,
			}
		}
		msg := display.FormatArtifact(art)
		if mm != nil {
			msg += "\n" + display.FormatMissionMetrics(mm)
		}
		return &Response{Type: ResponseMissionCreated, Message: msg, MissionID: m.ID}

	case approval.IsRejection(text):
		if m := sess.PendingMission; m != nil {
			sess.ClearPendingMission()
			return &Response{Type: ResponseRejectionAck, Message: fmt.Sprintf("Okay, mission %s will not run.", m.ID), MissionID: m.ID}
		}
		return &Response{Type: ResponseInformational, Message: "There is nothing to cancel."}
	}
	return nil
}

func (o *Orchestrator) handleCommand(sessionID string, sess *session.Context, text string) *Response {
	it, tier := intent.Classify(text)
	res := o.engine.Validate(text, it, tier, readiness.Context{
		RecentURLs:    sess.History.URLs,
		RecentObjects: sess.History.Objects,
	})
	logger.Log.Infof("session %s: %q -> intent=%s tier=%s decision=%s", sessionID, text, it, tier, res.Decision)

	switch res.Decision {
	case readiness.Ready:
		m := o.engine.BuildMission(sessionID, res)
		// A new independently-complete command supersedes whatever was
		// pending before it.
		sess.ClearPendingClarification()
		sess.SetPendingMission(m)
		sess.MissionCount++
		sess.History.Record(m.Fields)
		if o.store != nil {
			if err := o.store.SaveMission(m); err != nil {
				logger.Log.Warnf("could not persist mission %s: %v", m.ID, err)
			}
		}
		return &Response{Type: ResponseApprovalPrompt, Message: display.FormatMissionPrompt(m), MissionID: m.ID}

	case readiness.NotActionable:
		return &Response{Type: ResponseInformational, Message: capabilitiesReply()}

	default: // Incomplete or Ambiguous: the normal clarification loop.
		p, msg := clarify.Render(res, clarify.Snapshot{LastURL: sess.LastURL()})
		sess.SetPendingClarification(p)
		return &Response{Type: ResponseClarification, Message: msg}
	}
}

func capabilitiesReply() string {
	return "I can extract data from web pages (\"extract the titles from example.com\"), " +
		"open pages, search, calculate (\"calculate 2 + 3 * 4\"), and answer questions " +
		"about results from earlier missions (\"what did you find?\")."
}
