package clarify

import (
	"strings"
	"testing"

	"aide/internal/intent"
	"aide/internal/readiness"
)

func result(text string, hctx readiness.Context) *readiness.Result {
	it, tier := intent.Classify(text)
	return readiness.NewEngine().Validate(text, it, tier, hctx)
}

func TestSelect(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		hctx     readiness.Context
		snap     Snapshot
		expected Type
	}{
		{"multi intent", "extract the links and then open the page", readiness.Context{}, Snapshot{}, MultiIntent},
		{"ambiguous reference", "extract the links from there",
			readiness.Context{RecentURLs: []string{"https://a.com", "https://b.com"}}, Snapshot{}, AmbiguousReference},
		{"missing target with context", "extract the titles", readiness.Context{}, Snapshot{LastURL: "https://a.com"}, MissingTarget},
		{"missing target no context", "extract the titles", readiness.Context{}, Snapshot{}, MissingTargetNoContext},
		{"missing object", "extract from example.com", readiness.Context{}, Snapshot{}, MissingObject},
		{"constraint unclear", "extract a few titles from example.com", readiness.Context{}, Snapshot{}, ConstraintUnclear},
		{"conflicting verbs", "please find extract data", readiness.Context{}, Snapshot{}, IntentAmbiguous},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := result(tc.text, tc.hctx)
			if got := Select(r, tc.snap); got != tc.expected {
				t.Errorf("Select = %s, want %s (decision=%s missing=%v reason=%q)",
					got, tc.expected, r.Decision, r.Missing, r.Reason)
			}
		})
	}
}

func TestSelectMissingBothPrefersTarget(t *testing.T) {
	// When object and source are both missing, ask for the source first.
	r := result("extract", readiness.Context{})
	if got := Select(r, Snapshot{}); got != MissingTargetNoContext {
		t.Errorf("Select = %s, want %s", got, MissingTargetNoContext)
	}
}

func TestRenderMentionsConcreteExample(t *testing.T) {
	r := result("extract the titles", readiness.Context{})
	p, msg := Render(r, Snapshot{})
	if p.Type != MissingTargetNoContext {
		t.Fatalf("pending type = %s", p.Type)
	}
	if p.OriginalMessage != "extract the titles" {
		t.Errorf("original = %q", p.OriginalMessage)
	}
	if !strings.Contains(msg, "example.com") {
		t.Errorf("question should carry a concrete example, got %q", msg)
	}
	if !strings.Contains(msg, "the titles") {
		t.Errorf("question should restate what was understood, got %q", msg)
	}
}

func TestRenderMissingTargetOffersLastURL(t *testing.T) {
	r := result("extract the titles", readiness.Context{})
	_, msg := Render(r, Snapshot{LastURL: "https://news.site.com"})
	if !strings.Contains(msg, "https://news.site.com") {
		t.Errorf("question should offer the last visited address, got %q", msg)
	}
}

func TestRenderAmbiguousReferenceNumbersOptions(t *testing.T) {
	hctx := readiness.Context{RecentURLs: []string{"https://a.com", "https://b.com"}}
	p, msg := Render(result("extract the links from there", hctx), Snapshot{})
	if len(p.Options) != 2 {
		t.Fatalf("options = %v", p.Options)
	}
	if !strings.Contains(msg, "(1) https://a.com") || !strings.Contains(msg, "(2) https://b.com") {
		t.Errorf("question should number the candidates, got %q", msg)
	}
}

func TestResolveBindsSourceReply(t *testing.T) {
	p, _ := Render(result("extract the titles", readiness.Context{}), Snapshot{})

	testCases := []struct {
		name     string
		reply    string
		expected string
		ok       bool
	}{
		{"bare domain", "example.com", "extract the titles from https://example.com", true},
		{"full url", "https://news.ycombinator.com", "extract the titles from https://news.ycombinator.com", true},
		{"short phrase with url", "use example.com please", "extract the titles from https://example.com", true},
		{"no url in reply", "whatever you think", "", false},
		{"fresh command instead", "open wikipedia.org", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Binder{}.Resolve(tc.reply, p)
			if ok != tc.ok || got != tc.expected {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tc.reply, got, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestResolveBindsObjectReply(t *testing.T) {
	p, _ := Render(result("extract from example.com", readiness.Context{}), Snapshot{})
	if p.Type != MissingObject {
		t.Fatalf("pending type = %s", p.Type)
	}

	got, ok := Binder{}.Resolve("the titles", p)
	if !ok || got != "extract the titles from example.com" {
		t.Fatalf("Resolve = (%q, %v)", got, ok)
	}
	// The reconstructed message must be independently READY.
	if r := result(got, readiness.Context{}); r.Decision != readiness.Ready {
		t.Errorf("reconstructed message not READY: %s", r.Decision)
	}
}

func TestResolveBindsReferenceByIndex(t *testing.T) {
	hctx := readiness.Context{RecentURLs: []string{"https://a.com", "https://b.com"}}
	p, _ := Render(result("extract the links from there", hctx), Snapshot{})

	got, ok := Binder{}.Resolve("2", p)
	if !ok || got != "extract the links from there from https://b.com" {
		t.Fatalf("Resolve = (%q, %v)", got, ok)
	}
	if r := result(got, hctx); r.Decision != readiness.Ready || r.Fields.SourceURL != "https://b.com" {
		t.Errorf("reconstructed result = %+v", r)
	}

	if _, ok := (Binder{}).Resolve("7", p); ok {
		t.Error("out-of-range index should not bind")
	}
}

func TestResolveBindsMultiIntentChoice(t *testing.T) {
	p, _ := Render(result("extract the links and then open the page", readiness.Context{}), Snapshot{})
	if p.Type != MultiIntent {
		t.Fatalf("pending type = %s", p.Type)
	}

	// The chosen clause is a command of its own; it must not be swallowed by
	// the fresh-command override.
	got, ok := Binder{}.Resolve("extract the links", p)
	if !ok || got != "extract the links" {
		t.Fatalf("Resolve = (%q, %v)", got, ok)
	}

	if _, ok := (Binder{}).Resolve("do both", p); ok {
		t.Error("reply matching no clause should not bind")
	}
}

func TestResolveBindsConstraintReply(t *testing.T) {
	p, _ := Render(result("extract a few titles from example.com", readiness.Context{}), Snapshot{})
	if p.Type != ConstraintUnclear {
		t.Fatalf("pending type = %s", p.Type)
	}

	got, ok := Binder{}.Resolve("5", p)
	if !ok {
		t.Fatalf("Resolve did not bind numeric reply")
	}
	r := result(got, readiness.Context{})
	if r.Decision != readiness.Ready || r.Fields.Constraints.TopN != 5 {
		t.Errorf("reconstructed result = decision %s constraints %+v", r.Decision, r.Fields.Constraints)
	}

	got, ok = Binder{}.Resolve("all of them", p)
	if !ok {
		t.Fatalf("Resolve did not bind %q", "all of them")
	}
	if r := result(got, readiness.Context{}); r.Decision != readiness.Ready || r.Fields.Constraints.TopN != 0 {
		t.Errorf("reconstructed result = %+v", r)
	}
}

func TestResolveVagueTypesNeverBind(t *testing.T) {
	p := &Pending{Type: TooVague, OriginalMessage: "stuff"}
	if _, ok := (Binder{}).Resolve("the titles from example.com", p); ok {
		t.Error("TOO_VAGUE must re-route replies as fresh messages")
	}
}
