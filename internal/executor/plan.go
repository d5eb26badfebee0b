package executor

import (
	"fmt"
	"net/url"
	"strings"

	"aide/internal/intent"
	"aide/internal/mission"
)

// Action is one executable step of a plan.
type Action struct {
	ID      string         `json:"id"`
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload"`
}

// Stage groups actions that run in parallel; stages run sequentially.
type Stage struct {
	Stage   int      `json:"stage"`
	Actions []Action `json:"actions"`
}

// Plan is the staged action sequence compiled for one mission.
type Plan struct {
	Stages []Stage `json:"plan"`
}

func (p *Plan) addStage(actions ...Action) {
	p.Stages = append(p.Stages, Stage{Stage: len(p.Stages) + 1, Actions: actions})
}

// compile maps a mission's structured fields onto a deterministic plan.
// The same fields always compile to the same plan.
func compile(m *mission.Mission) (*Plan, error) {
	f := m.Fields
	p := &Plan{}

	switch f.Intent {
	case intent.Extract:
		p.addStage(Action{ID: "fetch", Action: "web.fetch", Payload: map[string]any{"url": f.SourceURL}})
		p.addStage(Action{ID: "extract", Action: extractionAction(f.ActionObject), Payload: map[string]any{
			"html":     "@results.fetch.content",
			"base_url": f.SourceURL,
		}})
		lastList := "@results.extract.items_json"
		if n := f.Constraints.TopN; n > 0 {
			p.addStage(Action{ID: "trim", Action: "list.head", Payload: map[string]any{
				"list_json": lastList,
				"n":         n,
			}})
			lastList = "@results.trim.list_json"
		}
		if f.Constraints.SummaryOnly {
			p.addStage(Action{ID: "summary", Action: "llm.summarize", Payload: map[string]any{
				"text": lastList,
			}})
		}

	case intent.Navigate:
		p.addStage(Action{ID: "fetch", Action: "web.fetch", Payload: map[string]any{"url": f.SourceURL}})
		p.addStage(Action{ID: "extract", Action: "html.titles", Payload: map[string]any{
			"html": "@results.fetch.content",
		}})

	case intent.Search:
		searchURL := "https://duckduckgo.com/html/?q=" + url.QueryEscape(f.ActionObject)
		p.addStage(Action{ID: "fetch", Action: "web.fetch", Payload: map[string]any{"url": searchURL}})
		p.addStage(Action{ID: "extract", Action: "html.links", Payload: map[string]any{
			"html":     "@results.fetch.content",
			"base_url": searchURL,
		}})
		n := f.Constraints.TopN
		if n <= 0 {
			n = 10
		}
		p.addStage(Action{ID: "trim", Action: "list.head", Payload: map[string]any{
			"list_json": "@results.extract.items_json",
			"n":         n,
		}})

	case intent.Calculate:
		p.addStage(Action{ID: "calc", Action: "calc.eval", Payload: map[string]any{
			"expression": f.ActionObject,
		}})

	case intent.GetDetails:
		if f.SourceURL != "" {
			p.addStage(Action{ID: "fetch", Action: "web.fetch", Payload: map[string]any{"url": f.SourceURL}})
			p.addStage(Action{ID: "extract", Action: "html.text", Payload: map[string]any{
				"html": "@results.fetch.content",
			}})
			p.addStage(Action{ID: "summary", Action: "llm.summarize", Payload: map[string]any{
				"text": "@results.extract.items_json",
			}})
		} else {
			p.addStage(Action{ID: "summary", Action: "llm.summarize", Payload: map[string]any{
				"text": f.ActionObject,
			}})
		}

	default:
		return nil, fmt.Errorf("no plan for intent %q", f.Intent)
	}

	return p, nil
}

// extractionAction picks the HTML action matching the requested object.
func extractionAction(object string) string {
	obj := strings.ToLower(object)
	switch {
	case strings.Contains(obj, "link") || strings.Contains(obj, "url"):
		return "html.links"
	case strings.Contains(obj, "title") || strings.Contains(obj, "headline") || strings.Contains(obj, "heading"):
		return "html.titles"
	default:
		return "html.text"
	}
}
