package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestActionFinish(t *testing.T) {
	ok := ActionMetrics{ID: "fetch", Action: "web.fetch", Start: time.Now()}
	ok.Finish(nil)
	if !ok.Success || ok.Err != "" || ok.End.IsZero() {
		t.Errorf("successful action = %+v", ok)
	}

	failed := ActionMetrics{ID: "fetch", Action: "web.fetch", Start: time.Now()}
	failed.Finish(errors.New("status 404"))
	if failed.Success || failed.Err != "status 404" {
		t.Errorf("failed action = %+v", failed)
	}
}

func TestFinalizeDerivesDuration(t *testing.T) {
	sm := StageMetrics{Stage: 1, Start: time.Now().Add(-20 * time.Millisecond)}
	sm.Finalize()
	if sm.End.IsZero() || sm.DurationMs < 0 {
		t.Errorf("stage = %+v", sm)
	}

	mm := MissionMetrics{MissionID: "ab12cd34", Start: time.Now().Add(-20 * time.Millisecond)}
	mm.Finalize()
	if mm.End.IsZero() || mm.DurationMs < 0 {
		t.Errorf("mission = %+v", mm)
	}
}
