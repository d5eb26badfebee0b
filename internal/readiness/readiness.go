// Package readiness decides whether a message carries enough information to
// become a mission. It is the only code path that may construct one.
package readiness

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"aide/internal/intent"
	"aide/internal/mission"
)

type Decision int

const (
	Ready Decision = iota
	Incomplete
	Ambiguous
	NotActionable
)

func (d Decision) String() string {
	switch d {
	case Ready:
		return "READY"
	case Incomplete:
		return "INCOMPLETE"
	case Ambiguous:
		return "AMBIGUOUS"
	default:
		return "NOT_ACTIONABLE"
	}
}

// Field names a structured slot the engine failed to resolve.
type Field string

const (
	FieldObject      Field = "action_object"
	FieldSource      Field = "source_url"
	FieldConstraints Field = "constraints"
)

// Ambiguity reasons, consumed by the clarification template selector.
const (
	ReasonMultiIntent       = "multi_intent"
	ReasonAmbiguousRef      = "ambiguous_reference"
	ReasonConflicting       = "conflicting_signals"
	ReasonConstraintUnclear = "constraint_unclear"
)

// Context is the read-only slice of session history the engine may consult.
// The orchestrator snapshots it from the session so this package never
// touches live session state.
type Context struct {
	RecentURLs    []string // most recent first
	RecentObjects []string
}

// Result is the outcome of one validation pass. Fields is populated if and
// only if Decision == Ready.
type Result struct {
	Decision    Decision
	Intent      intent.Type
	Tier        intent.Tier
	Missing     []Field
	Candidates  []string // ambiguous-reference URL candidates or multi-intent clauses
	Reason      string
	Referential bool
	RawText     string
	Fields      mission.Fields
}

var (
	referentialTerms = regexp.MustCompile(`(?i)\b(there|that site|that page|that one|same site|same page|from before|from it|on it)\b`)
	capabilityAsk    = regexp.MustCompile(`(?i)(what can you do|what do you do|who are you|what are you|how do you work|^help\b|your capabilit|can you help)`)
	questionLead     = regexp.MustCompile(`(?i)^(?:so\s+)?(?:what|who|where|when|why)\b`)
	boundaryPrep     = regexp.MustCompile(`(?i)\s+(from|to|at|on|into)\s+`)
	topN             = regexp.MustCompile(`(?i)\b(?:top|first)\s+(\d+)\b`)
	vagueCount       = regexp.MustCompile(`(?i)\b(?:top|first)\s+(few|couple|some|several)\b|\ba\s+(?:few|couple)\s+(?:of\s+)?`)
	summaryOnly      = regexp.MustCompile(`(?i)\b(summary only|just (?:a |the )?summary|only (?:a |the )?summary|summar(?:y|ize) it)\b`)
	clauseSplit      = regexp.MustCompile(`(?i)\s+(?:and then|and also|and|then)\s+|\s*;\s*`)
	objectPrefix     = regexp.MustCompile(`(?i)^(?:for|about|of)\s+`)
	articlePrefix    = regexp.MustCompile(`(?i)^(?:the|a|an|all|all the|every)\s+`)
)

type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Validate runs the full decision rule over one message. Pure with respect
// to hctx: it only reads the snapshot.
func (e *Engine) Validate(rawText string, it intent.Type, tier intent.Tier, hctx Context) *Result {
	text := strings.TrimSpace(rawText)
	res := &Result{Intent: it, Tier: tier, RawText: text}

	// NOT_ACTIONABLE first: capability/self questions, interrogative openers
	// and verb-less text are answered informationally, never via the
	// clarification loop.
	if capabilityAsk.MatchString(text) || questionLead.MatchString(text) || it == intent.Unknown {
		res.Decision = NotActionable
		return res
	}

	// Multi-intent: the message splits into two or more clauses that each
	// carry their own mission verb.
	if parts := commandClauses(text); len(parts) > 1 {
		res.Decision = Ambiguous
		res.Reason = ReasonMultiIntent
		res.Candidates = parts
		return res
	}

	// Conflicting signals: two verb families inside a single clause with no
	// verb anchoring the start ("find extract data"). Anchored commands keep
	// their tier even when a later word doubles as another family's verb, so
	// "open the search page" stays a navigation.
	if fams := intent.MatchedFamilies(text); len(fams) > 1 && tier == intent.Medium {
		res.Decision = Ambiguous
		res.Reason = ReasonConflicting
		return res
	}

	res.Referential = referentialTerms.MatchString(text)

	f := mission.Fields{Intent: it}
	var missing []Field

	// Constraints before the object: an unparseable count phrase blocks
	// readiness on its own.
	cons, unclear := extractConstraints(text)
	f.Constraints = cons
	if unclear {
		res.Decision = Incomplete
		res.Reason = ReasonConstraintUnclear
		res.Missing = []Field{FieldConstraints}
		return res
	}

	// Source URL: inline token wins; session history is consulted only when
	// the message contains explicit referential language. Fresh commands
	// never inherit prior context implicitly.
	src := extractURL(text)
	if src == "" && res.Referential {
		urls := distinct(hctx.RecentURLs)
		switch len(urls) {
		case 0:
			// referential but nothing to refer to: still missing
		case 1:
			src = urls[0]
		default:
			res.Decision = Ambiguous
			res.Reason = ReasonAmbiguousRef
			if len(urls) > 3 {
				urls = urls[:3]
			}
			res.Candidates = urls
			return res
		}
	}
	f.SourceURL = src

	obj := extractObject(text, it)
	f.ActionObject = obj

	for _, req := range requiredFields(it) {
		switch req {
		case FieldObject:
			if obj == "" {
				missing = append(missing, FieldObject)
			}
		case FieldSource:
			if src == "" {
				missing = append(missing, FieldSource)
			}
		}
	}

	if len(missing) > 0 {
		res.Decision = Incomplete
		res.Missing = missing
		return res
	}

	if !tier.AtLeast(intent.Medium) {
		res.Decision = Ambiguous
		res.Reason = ReasonConflicting
		return res
	}

	res.Decision = Ready
	res.Fields = f
	if it == intent.Navigate && f.ActionObject == "" {
		res.Fields.ActionObject = "page"
	}
	res.Fields.ActionTarget = f.SourceURL
	return res
}

// BuildMission is the sole mission constructor path. Calling it with a
// non-READY result is a programming error and halts.
func (e *Engine) BuildMission(sessionID string, r *Result) *mission.Mission {
	if r.Decision != Ready {
		panic("readiness: mission construction attempted from a non-READY result: " + r.Decision.String())
	}
	id := uuid.New().String()[:8]
	return mission.New(id, sessionID, r.Fields)
}

func requiredFields(it intent.Type) []Field {
	switch it {
	case intent.Extract:
		return []Field{FieldObject, FieldSource}
	case intent.Navigate:
		return []Field{FieldSource}
	case intent.Search, intent.Calculate, intent.GetDetails:
		return []Field{FieldObject}
	default:
		return nil
	}
}

// commandClauses splits text on conjunctions and keeps the split only when
// at least two pieces carry their own mission verb.
func commandClauses(text string) []string {
	parts := clauseSplit.Split(text, -1)
	if len(parts) < 2 {
		return nil
	}
	var verby []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if fams := intent.MatchedFamilies(p); len(fams) > 0 {
			verby = append(verby, p)
		}
	}
	if len(verby) < 2 {
		return nil
	}
	return verby
}

// extractURL returns the first URL/domain token, normalized to carry a
// scheme, or "".
func extractURL(text string) string {
	m := intent.URLPattern().FindString(text)
	if m == "" {
		return ""
	}
	return NormalizeURL(m)
}

// NormalizeURL trims stray punctuation and defaults the scheme to https.
func NormalizeURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), ".,;:!?)")
	if u == "" {
		return ""
	}
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	return u
}

// extractObject takes the phrase after the intent verb up to a boundary
// preposition or end of string, with URL tokens and leading articles
// stripped.
func extractObject(text string, it intent.Type) string {
	_, end := intent.FirstVerb(text, it)
	if end < 0 || end >= len(text) {
		return ""
	}
	rest := text[end:]
	if loc := boundaryPrep.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	rest = intent.URLPattern().ReplaceAllString(rest, "")
	rest = topN.ReplaceAllString(rest, "")
	rest = summaryOnly.ReplaceAllString(rest, "")
	rest = referentialTerms.ReplaceAllString(rest, "")
	rest = strings.Trim(strings.TrimSpace(rest), ".,;:!?")
	rest = objectPrefix.ReplaceAllString(rest, "")
	rest = articlePrefix.ReplaceAllString(rest, "")
	rest = strings.TrimSpace(rest)
	if rest == "" || rest == "me" {
		return ""
	}
	return strings.ToLower(rest)
}

func extractConstraints(text string) (mission.Constraints, bool) {
	var c mission.Constraints
	if m := topN.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			c.TopN = n
		}
	} else if vagueCount.MatchString(text) {
		return c, true
	}
	if summaryOnly.MatchString(text) {
		c.SummaryOnly = true
	}
	return c, false
}

func distinct(in []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range in {
		s = NormalizeURL(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
