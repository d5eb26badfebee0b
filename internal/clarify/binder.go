package clarify

import (
	"strconv"
	"strings"

	"aide/internal/intent"
	"aide/internal/readiness"
)

// Binder merges a short reply into the original incomplete message. It only
// reconstructs text; deciding readiness stays with the engine, which
// re-validates the reconstructed message in full.
type Binder struct{}

// Resolve matches reply against the pending clarification's expected shape.
// On a match it returns the reconstructed full message and true. Any
// mismatch returns ("", false) and the caller re-routes the reply as a
// fresh message.
func (Binder) Resolve(reply string, p *Pending) (string, bool) {
	reply = strings.TrimSpace(reply)
	if reply == "" || p == nil {
		return "", false
	}

	// Multi-intent options are themselves command clauses, so they are
	// matched before the fresh-command override below.
	if p.Type == MultiIntent {
		return bindClause(reply, p)
	}

	// A reply that already reads as a new command at HIGH confidence
	// supersedes the clarification.
	if it, tier := intent.Classify(reply); it != intent.Unknown && tier.AtLeast(intent.High) {
		return "", false
	}

	switch p.Type {
	case MissingTarget, MissingTargetNoContext:
		return bindSource(reply, p)
	case AmbiguousReference:
		return bindReference(reply, p)
	case MissingObject:
		return bindObject(reply, p)
	case ConstraintUnclear:
		return bindConstraint(reply, p)
	default:
		// TOO_VAGUE and INTENT_AMBIGUOUS have no expected shape; the reply
		// is always treated as a fresh message.
		return "", false
	}
}

func bindSource(reply string, p *Pending) (string, bool) {
	m := intent.URLPattern().FindString(reply)
	if m == "" || len(strings.Fields(reply)) > 4 {
		return "", false
	}
	return p.OriginalMessage + " from " + readiness.NormalizeURL(m), true
}

func bindReference(reply string, p *Pending) (string, bool) {
	// Accept a 1-based option index or a URL present in the option list.
	if n, err := strconv.Atoi(reply); err == nil {
		if n >= 1 && n <= len(p.Options) {
			return p.OriginalMessage + " from " + p.Options[n-1], true
		}
		return "", false
	}
	if m := intent.URLPattern().FindString(reply); m != "" {
		u := readiness.NormalizeURL(m)
		for _, opt := range p.Options {
			if strings.EqualFold(u, readiness.NormalizeURL(opt)) {
				return p.OriginalMessage + " from " + opt, true
			}
		}
		// A fresh URL outside the candidate list still resolves the gap.
		return p.OriginalMessage + " from " + u, true
	}
	return "", false
}

func bindObject(reply string, p *Pending) (string, bool) {
	// Expected shape: a short noun phrase with no mission verb of its own.
	if len(strings.Fields(reply)) > 6 {
		return "", false
	}
	if fams := intent.MatchedFamilies(reply); len(fams) > 0 {
		return "", false
	}
	_, end := intent.FirstVerb(p.OriginalMessage, p.Intent)
	if end < 0 {
		return "", false
	}
	head := p.OriginalMessage[:end]
	tail := ""
	if end < len(p.OriginalMessage) {
		tail = p.OriginalMessage[end:]
	}
	return head + " " + strings.Trim(reply, " .,!?") + tail, true
}

func bindClause(reply string, p *Pending) (string, bool) {
	lower := strings.ToLower(reply)
	for _, clause := range p.Options {
		cl := strings.ToLower(clause)
		if cl == lower || strings.Contains(cl, lower) {
			chosen := clause
			// Carry the original's URL over when the clause lacks one.
			if intent.URLPattern().FindString(chosen) == "" {
				if u := intent.URLPattern().FindString(p.OriginalMessage); u != "" {
					chosen = chosen + " from " + readiness.NormalizeURL(u)
				}
			}
			return chosen, true
		}
	}
	return "", false
}

func bindConstraint(reply string, p *Pending) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(reply))
	if lower == "all" || lower == "all of them" || lower == "everything" {
		return stripVagueCount(p.OriginalMessage), true
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(lower, "top "), "first ")
	if n, err := strconv.Atoi(digits); err == nil && n > 0 {
		return stripVagueCount(p.OriginalMessage) + " top " + strconv.Itoa(n), true
	}
	return "", false
}

var vaguePhrases = []string{"top few", "first few", "top couple", "first couple", "a few of", "a couple of", "a few", "a couple", "top some", "top several", "first several"}

func stripVagueCount(text string) string {
	lower := strings.ToLower(text)
	for _, ph := range vaguePhrases {
		if i := strings.Index(lower, ph); i >= 0 {
			text = strings.TrimSpace(text[:i] + text[i+len(ph):])
			break
		}
	}
	return strings.Join(strings.Fields(text), " ")
}
