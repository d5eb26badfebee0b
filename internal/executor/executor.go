// Package executor is the execution collaborator: it runs the staged plan
// compiled for an approved mission and produces the execution artifact. It
// never touches session or pipeline state.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"aide/internal/actions"
	"aide/internal/actions/system"
	"aide/internal/logger"
	"aide/internal/metrics"
	"aide/internal/mission"
)

const defaultActionTimeout = 30 * time.Second
const stageConcurrencyDefault = 8

var resultsRef = regexp.MustCompile(`@results\.([A-Za-z0-9_\-]+)\.([A-Za-z0-9_]+)`)

type Executor struct {
	dataDir string
}

func New(dataDir string) *Executor {
	return &Executor{dataDir: dataDir}
}

// Execute compiles and runs the mission's plan, assembles the artifact and
// snapshots it to disk. Safe to call at most once per mission; the approval
// bridge guarantees that.
func (e *Executor) Execute(ctx context.Context, m *mission.Mission) (*mission.Artifact, *metrics.MissionMetrics, error) {
	plan, err := compile(m)
	if err != nil {
		return nil, nil, err
	}
	logger.Log.Infof("mission %s: executing %d stage(s)", m.ID, len(plan.Stages))

	results := make(map[string]map[string]any)
	var resultsMu sync.Mutex

	mm, err := e.runPlan(ctx, plan, results, &resultsMu)
	mm.MissionID = m.ID
	if err != nil {
		return nil, mm, err
	}

	art := assemble(m, results)
	e.snapshot(art)
	return art, mm, nil
}

func (e *Executor) runPlan(ctx context.Context, plan *Plan, results map[string]map[string]any, resultsMu *sync.Mutex) (*metrics.MissionMetrics, error) {
	mm := &metrics.MissionMetrics{Start: time.Now()}
	defer mm.Finalize()

	for _, stage := range plan.Stages { // stages sequential
		if err := ctx.Err(); err != nil {
			mm.Succeeded = false
			return mm, err
		}

		sm := metrics.StageMetrics{Stage: stage.Stage, Start: time.Now()}
		stageCtx, cancelStage := context.WithCancel(ctx)

		g, gctx := errgroup.WithContext(stageCtx)
		g.SetLimit(stageConcurrencyDefault)

		var amu sync.Mutex // protects sm.Actions

		for _, action := range stage.Actions {
			act := action
			g.Go(func() (rerr error) {
				// Panic safety: convert to error so the group cancels cleanly.
				defer func() {
					if rec := recover(); rec != nil {
						rerr = fmt.Errorf("panic in action %s: %v", act.Action, rec)
					}
				}()

				act.Payload = resolvePayload(act.Payload, results, resultsMu)

				timeout := defaultActionTimeout
				if def, ok := actions.GetDefinition(act.Action); ok && def.DefaultTimeoutMs > 0 {
					timeout = time.Duration(def.DefaultTimeoutMs) * time.Millisecond
				}
				actionCtx, cancelAction := context.WithTimeout(gctx, timeout)
				defer cancelAction()

				am := metrics.ActionMetrics{ID: act.ID, Action: act.Action, Start: time.Now()}
				output, err := actions.Execute(actionCtx, act.Action, act.Payload)
				am.Finish(err)

				amu.Lock()
				sm.Actions = append(sm.Actions, am)
				amu.Unlock()

				if err != nil {
					return fmt.Errorf("action '%s' (%s) failed: %w", act.Action, act.ID, err)
				}
				if output != nil {
					resultsMu.Lock()
					results[act.ID] = output
					resultsMu.Unlock()
				}
				return nil
			})
		}

		stageErr := g.Wait()
		cancelStage()

		sm.Finalize()
		mm.Stages = append(mm.Stages, sm)

		if stageErr != nil {
			mm.Succeeded = false
			return mm, stageErr
		}
	}

	mm.Succeeded = true
	return mm, nil
}

func resolvePayload(payload map[string]any, results map[string]map[string]any, m *sync.Mutex) map[string]any {
	// Take a snapshot under lock.
	m.Lock()
	snap := make(map[string]map[string]any, len(results))
	for k, v := range results {
		snap[k] = v
	}
	m.Unlock()

	resolved := make(map[string]any, len(payload))
	for key, val := range payload {
		str, ok := val.(string)
		if !ok {
			resolved[key] = val
			continue
		}
		out := resultsRef.ReplaceAllStringFunc(str, func(match string) string {
			sub := resultsRef.FindStringSubmatch(match)
			if len(sub) != 3 {
				return ""
			}
			actionID, outKey := sub[1], sub[2]
			if m, ok := snap[actionID]; ok {
				if v, ok := m[outKey]; ok {
					return fmt.Sprintf("%v", v)
				}
			}
			return ""
		})
		resolved[key] = out
	}
	return resolved
}

// assemble builds the artifact from the plan's terminal outputs: the last
// list-shaped result becomes the items, any summary rides along.
func assemble(m *mission.Mission, results map[string]map[string]any) *mission.Artifact {
	art := &mission.Artifact{
		MissionID: m.ID,
		Intent:    m.Fields.Intent,
		SourceURL: m.Fields.SourceURL,
		CreatedAt: time.Now(),
	}

	items := finalItems(results)
	art.Items = items
	art.ItemCount = len(items)

	if out, ok := results["summary"]; ok {
		if s, ok := out["summary"].(string); ok {
			art.Summary = s
		}
	}
	if out, ok := results["calc"]; ok {
		if r, ok := out["result"].(string); ok {
			art.Items = []string{r}
			art.ItemCount = 1
		}
	}
	return art
}

// finalItems prefers the trimmed list over the raw extraction.
func finalItems(results map[string]map[string]any) []string {
	for _, id := range []string{"trim", "extract"} {
		out, ok := results[id]
		if !ok {
			continue
		}
		for _, key := range []string{"list_json", "items_json"} {
			if raw, ok := out[key].(string); ok {
				var items []string
				if err := json.Unmarshal([]byte(raw), &items); err == nil {
					return items
				}
			}
		}
	}
	return nil
}

// snapshot persists the artifact next to the other mission outputs. Best
// effort: a failed write is logged, not fatal.
func (e *Executor) snapshot(art *mission.Artifact) {
	if e.dataDir == "" {
		return
	}
	b, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return
	}
	path := filepath.Join(e.dataDir, fmt.Sprintf("artifact-%s.json", art.MissionID))
	if err := system.WriteFileAtomic(path, string(b)); err != nil {
		logger.Log.Warnf("could not snapshot artifact %s: %v", art.MissionID, err)
	}
}
