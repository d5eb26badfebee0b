package executor

import (
	"reflect"
	"sync"
	"testing"

	"aide/internal/intent"
	"aide/internal/mission"
)

func TestCompileExtract(t *testing.T) {
	m := mission.New("m1", "s", mission.Fields{
		Intent:       intent.Extract,
		ActionObject: "titles",
		SourceURL:    "https://example.com",
		Constraints:  mission.Constraints{TopN: 5},
	})
	p, err := compile(m)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, st := range p.Stages {
		for _, a := range st.Actions {
			names = append(names, a.Action)
		}
	}
	expected := []string{"web.fetch", "html.titles", "list.head"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("actions = %v, want %v", names, expected)
	}
	if n := p.Stages[2].Actions[0].Payload["n"]; n != 5 {
		t.Errorf("trim n = %v", n)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	f := mission.Fields{Intent: intent.Extract, ActionObject: "links", SourceURL: "https://a.com"}
	first, err := compile(mission.New("m1", "s", f))
	if err != nil {
		t.Fatal(err)
	}
	second, err := compile(mission.New("m2", "s", f))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same fields compiled to different plans:\n%+v\n%+v", first, second)
	}
}

func TestCompilePerIntent(t *testing.T) {
	testCases := []struct {
		name        string
		fields      mission.Fields
		firstAction string
		stageCount  int
	}{
		{"navigate", mission.Fields{Intent: intent.Navigate, ActionObject: "page", SourceURL: "https://a.com"}, "web.fetch", 2},
		{"search", mission.Fields{Intent: intent.Search, ActionObject: "golang tutorials"}, "web.fetch", 3},
		{"calculate", mission.Fields{Intent: intent.Calculate, ActionObject: "2 + 3 * 4"}, "calc.eval", 1},
		{"details without source", mission.Fields{Intent: intent.GetDetails, ActionObject: "gophers"}, "llm.summarize", 1},
		{"details with source", mission.Fields{Intent: intent.GetDetails, ActionObject: "article", SourceURL: "https://a.com"}, "web.fetch", 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := compile(mission.New("m1", "s", tc.fields))
			if err != nil {
				t.Fatal(err)
			}
			if len(p.Stages) != tc.stageCount {
				t.Errorf("stages = %d, want %d", len(p.Stages), tc.stageCount)
			}
			if got := p.Stages[0].Actions[0].Action; got != tc.firstAction {
				t.Errorf("first action = %s, want %s", got, tc.firstAction)
			}
		})
	}
}

func TestExtractionAction(t *testing.T) {
	testCases := []struct {
		object   string
		expected string
	}{
		{"links", "html.links"},
		{"all urls", "html.links"},
		{"titles", "html.titles"},
		{"headlines", "html.titles"},
		{"article text", "html.text"},
		{"prices", "html.text"},
	}
	for _, tc := range testCases {
		if got := extractionAction(tc.object); got != tc.expected {
			t.Errorf("extractionAction(%q) = %s, want %s", tc.object, got, tc.expected)
		}
	}
}

func TestResolvePayload(t *testing.T) {
	results := map[string]map[string]any{
		"fetch": {
			"content":     "<html></html>",
			"status_code": 200,
		},
	}
	var mu sync.Mutex

	testCases := []struct {
		name            string
		inputPayload    map[string]any
		expectedPayload map[string]any
	}{
		{
			name:            "placeholder replacement",
			inputPayload:    map[string]any{"html": "@results.fetch.content"},
			expectedPayload: map[string]any{"html": "<html></html>"},
		},
		{
			name:            "non-string values preserved",
			inputPayload:    map[string]any{"n": 5, "html": "@results.fetch.content"},
			expectedPayload: map[string]any{"n": 5, "html": "<html></html>"},
		},
		{
			name:            "missing action id resolves empty",
			inputPayload:    map[string]any{"html": "@results.nope.content"},
			expectedPayload: map[string]any{"html": ""},
		},
		{
			name:            "missing output key resolves empty",
			inputPayload:    map[string]any{"html": "@results.fetch.body"},
			expectedPayload: map[string]any{"html": ""},
		},
		{
			name:            "plain strings untouched",
			inputPayload:    map[string]any{"url": "https://a.com"},
			expectedPayload: map[string]any{"url": "https://a.com"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolvePayload(tc.inputPayload, results, &mu)
			if !reflect.DeepEqual(got, tc.expectedPayload) {
				t.Errorf("resolvePayload = %v, want %v", got, tc.expectedPayload)
			}
		})
	}
}

func TestAssemble(t *testing.T) {
	m := mission.New("m1", "s", mission.Fields{
		Intent:       intent.Extract,
		ActionObject: "titles",
		SourceURL:    "https://a.com",
	})

	t.Run("prefers trimmed list", func(t *testing.T) {
		art := assemble(m, map[string]map[string]any{
			"extract": {"items_json": `["a","b","c"]`},
			"trim":    {"list_json": `["a","b"]`},
		})
		if !reflect.DeepEqual(art.Items, []string{"a", "b"}) || art.ItemCount != 2 {
			t.Errorf("artifact = %+v", art)
		}
	})

	t.Run("falls back to extraction", func(t *testing.T) {
		art := assemble(m, map[string]map[string]any{
			"extract": {"items_json": `["a","b","c"]`},
		})
		if art.ItemCount != 3 {
			t.Errorf("artifact = %+v", art)
		}
	})

	t.Run("summary rides along", func(t *testing.T) {
		art := assemble(m, map[string]map[string]any{
			"extract": {"items_json": `["a"]`},
			"summary": {"summary": "one thing"},
		})
		if art.Summary != "one thing" || art.ItemCount != 1 {
			t.Errorf("artifact = %+v", art)
		}
	})

	t.Run("calc result becomes the single item", func(t *testing.T) {
		art := assemble(m, map[string]map[string]any{
			"calc": {"result": "14"},
		})
		if !reflect.DeepEqual(art.Items, []string{"14"}) || art.ItemCount != 1 {
			t.Errorf("artifact = %+v", art)
		}
	})
}
