// Package clarify turns a non-READY readiness outcome into one targeted
// follow-up question, tracks the pending clarification, and binds short
// replies back into the original message.
package clarify

import (
	"fmt"
	"strings"
	"time"

	"aide/internal/intent"
	"aide/internal/readiness"
)

// Type enumerates the eight clarification shapes.
type Type string

const (
	MissingObject          Type = "MISSING_OBJECT"
	MissingTarget          Type = "MISSING_TARGET"
	MissingTargetNoContext Type = "MISSING_TARGET_NO_CONTEXT"
	AmbiguousReference     Type = "AMBIGUOUS_REFERENCE"
	MultiIntent            Type = "MULTI_INTENT"
	TooVague               Type = "TOO_VAGUE"
	IntentAmbiguous        Type = "INTENT_AMBIGUOUS"
	ConstraintUnclear      Type = "CONSTRAINT_UNCLEAR"
)

// Pending is the open clarification for a session. At most one exists per
// session at any instant.
type Pending struct {
	Type            Type
	OriginalMessage string
	Intent          intent.Type
	MissingField    readiness.Field
	ContextURL      string
	Options         []string
	CreatedAt       time.Time
}

// Snapshot is the slice of session context the renderer may mention.
type Snapshot struct {
	LastURL string
}

// Select picks exactly one clarification type for a non-READY result,
// following a fixed priority: multi-intent, ambiguous reference, missing
// source (with/without context), missing object, unclear constraint, then
// the vague fallbacks.
func Select(r *readiness.Result, snap Snapshot) Type {
	switch {
	case r.Reason == readiness.ReasonMultiIntent:
		return MultiIntent
	case r.Reason == readiness.ReasonAmbiguousRef:
		return AmbiguousReference
	case missing(r, readiness.FieldSource) && snap.LastURL != "":
		return MissingTarget
	case missing(r, readiness.FieldSource):
		return MissingTargetNoContext
	case missing(r, readiness.FieldObject):
		return MissingObject
	case r.Reason == readiness.ReasonConstraintUnclear:
		return ConstraintUnclear
	case r.Reason == readiness.ReasonConflicting:
		return IntentAmbiguous
	default:
		return TooVague
	}
}

// Render produces the clarification question plus the pending record to
// store. Pure: it reads the result and snapshot, nothing else.
func Render(r *readiness.Result, snap Snapshot) (*Pending, string) {
	t := Select(r, snap)
	p := &Pending{
		Type:            t,
		OriginalMessage: r.RawText,
		Intent:          r.Intent,
		ContextURL:      snap.LastURL,
		CreatedAt:       time.Now(),
	}
	if len(r.Missing) > 0 {
		p.MissingField = r.Missing[0]
	}

	var msg string
	switch t {
	case MultiIntent:
		p.Options = r.Candidates
		msg = fmt.Sprintf(
			"That sounds like %d separate requests: %s. Which one should I do first? Reply with one of them, e.g. %q.",
			len(r.Candidates), quoteList(r.Candidates), r.Candidates[0])
	case AmbiguousReference:
		p.Options = r.Candidates
		msg = fmt.Sprintf(
			"You referred to an earlier site, but I know several: %s. Which did you mean? Reply with a number (e.g. \"1\") or the address itself.",
			numberedList(r.Candidates))
	case MissingTarget:
		msg = fmt.Sprintf(
			"I understood you want to %s %s, but not where from. Last time we worked with %s - should I use that, or another address like \"example.com\"?",
			r.Intent, objectOr(r, "that"), snap.LastURL)
	case MissingTargetNoContext:
		msg = fmt.Sprintf(
			"I understood you want to %s %s, but I need a source. Which site or URL should I use? For example: \"example.com\" or \"https://news.ycombinator.com\".",
			r.Intent, objectOr(r, "that"))
	case MissingObject:
		msg = fmt.Sprintf(
			"I understood you want to %s from %s, but not what exactly. What should I look for? For example: \"the article titles\" or \"all links\".",
			r.Intent, sourceOr(r, "that page"))
	case ConstraintUnclear:
		msg = fmt.Sprintf(
			"I got the request (%s), but not how many results you want. How many should I keep? For example: \"top 5\" or \"all of them\".",
			r.RawText)
	case IntentAmbiguous:
		msg = fmt.Sprintf(
			"I'm not sure what you want me to do with %q. Did you mean extract data, search, or open a page? For example: \"extract the titles from example.com\".",
			r.RawText)
	default: // TooVague
		msg = fmt.Sprintf(
			"I couldn't work out a concrete task from %q. Tell me an action and a place, e.g. \"extract the headlines from bbc.com\".",
			r.RawText)
	}
	return p, msg
}

func missing(r *readiness.Result, f readiness.Field) bool {
	for _, m := range r.Missing {
		if m == f {
			return true
		}
	}
	return false
}

func objectOr(r *readiness.Result, fallback string) string {
	if obj := extractKnownObject(r); obj != "" {
		return "\"" + obj + "\""
	}
	return fallback
}

func sourceOr(r *readiness.Result, fallback string) string {
	// A missing-object result may still have an inline URL in the raw text.
	if u := intent.URLPattern().FindString(r.RawText); u != "" {
		return readiness.NormalizeURL(u)
	}
	return fallback
}

// extractKnownObject restates what the engine already understood without
// re-deriving mission fields: it is for display only.
func extractKnownObject(r *readiness.Result) string {
	_, end := intent.FirstVerb(r.RawText, r.Intent)
	if end < 0 || end >= len(r.RawText) {
		return ""
	}
	rest := strings.TrimSpace(r.RawText[end:])
	if i := strings.Index(strings.ToLower(rest), " from "); i > 0 {
		rest = rest[:i]
	}
	return strings.Trim(rest, " .,!?")
}

func quoteList(items []string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = "\"" + s + "\""
	}
	return strings.Join(out, " and ")
}

func numberedList(items []string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = fmt.Sprintf("(%d) %s", i+1, s)
	}
	return strings.Join(out, ", ")
}
