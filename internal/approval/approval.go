// Package approval matches approval/rejection phrases and moves a proposed
// mission through approved -> active -> completed|failed, invoking the
// execution collaborator exactly once.
package approval

import (
	"context"
	"strings"

	"aide/internal/intent"
	"aide/internal/logger"
	"aide/internal/metrics"
	"aide/internal/mission"
	"aide/internal/session"
)

var approvalPhrases = map[string]struct{}{
	"yes": {}, "y": {}, "yeah": {}, "yep": {}, "yup": {}, "ok": {}, "okay": {},
	"sure": {}, "go ahead": {}, "do it": {}, "run it": {}, "go for it": {},
	"approve": {}, "approved": {}, "confirm": {}, "confirmed": {}, "proceed": {},
	"sounds good": {}, "make it so": {},
}

var rejectionPhrases = map[string]struct{}{
	"no": {}, "n": {}, "nope": {}, "cancel": {}, "stop": {}, "abort": {},
	"reject": {}, "rejected": {}, "don't": {}, "do not": {}, "never mind": {},
	"nevermind": {}, "forget it": {}, "skip it": {},
}

var fillerWords = map[string]struct{}{
	"please": {}, "thanks": {}, "thank": {}, "you": {}, "now": {},
}

// normalize lowercases, strips punctuation and filler words.
func normalize(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	lower = strings.Trim(lower, ".,!? ")
	fields := strings.Fields(lower)
	kept := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,!?")
		if _, filler := fillerWords[f]; filler {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// IsApproval reports whether the whole message is a bare approval phrase.
// A message that also carries a mission verb ("yes, extract it too") is not
// an approval; it re-routes as a fresh command.
func IsApproval(text string) bool {
	if len(intent.MatchedFamilies(text)) > 0 {
		return false
	}
	_, ok := approvalPhrases[normalize(text)]
	return ok
}

// IsRejection reports whether the whole message is a bare rejection phrase.
func IsRejection(text string) bool {
	if len(intent.MatchedFamilies(text)) > 0 {
		return false
	}
	_, ok := rejectionPhrases[normalize(text)]
	return ok
}

// Executor is the opaque execution collaborator. It is invoked at most once
// per approved mission.
type Executor interface {
	Execute(ctx context.Context, m *mission.Mission) (*mission.Artifact, *metrics.MissionMetrics, error)
}

// Recorder is the slice of the persistence collaborator the bridge needs.
type Recorder interface {
	UpdateMissionStatus(id, status string) error
	SaveArtifact(sessionID string, a *mission.Artifact) error
}

// Bridge executes the pending mission on approval. rec may be nil.
type Bridge struct {
	exec Executor
	rec  Recorder
}

func NewBridge(exec Executor, rec Recorder) *Bridge {
	return &Bridge{exec: exec, rec: rec}
}

// Execute runs the pending mission exactly once. The pending slot is
// cleared before control returns, so a second approval phrase finds nothing
// to run. The caller holds the session lock.
func (b *Bridge) Execute(ctx context.Context, sess *session.Context) (*mission.Artifact, *metrics.MissionMetrics, error) {
	m := sess.PendingMission
	sess.ClearPendingMission()

	if err := m.Approve(); err != nil {
		return nil, nil, err
	}
	b.record(m.ID, mission.StatusApproved)
	if err := m.Activate(); err != nil {
		return nil, nil, err
	}
	b.record(m.ID, mission.StatusActive)

	art, mm, err := b.exec.Execute(ctx, m)
	if err != nil {
		_ = m.Fail()
		b.record(m.ID, mission.StatusFailed)
		logger.Log.Warnf("mission %s failed: %v", m.ID, err)
		return nil, mm, err
	}

	_ = m.Complete()
	b.record(m.ID, mission.StatusCompleted)
	sess.AddArtifact(art)
	if b.rec != nil {
		if serr := b.rec.SaveArtifact(sess.ID, art); serr != nil {
			logger.Log.Warnf("could not persist artifact for mission %s: %v", m.ID, serr)
		}
	}
	return art, mm, nil
}

func (b *Bridge) record(id, status string) {
	if b.rec == nil {
		return
	}
	if err := b.rec.UpdateMissionStatus(id, status); err != nil {
		logger.Log.Warnf("could not persist status %s for mission %s: %v", status, id, err)
	}
}
