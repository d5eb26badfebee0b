package intent

import (
	"regexp"
	"strings"
)

type Type string

const (
	Extract    Type = "extract"
	Navigate   Type = "navigate"
	Search     Type = "search"
	Calculate  Type = "calculate"
	GetDetails Type = "get_details"
	Unknown    Type = "unknown"
)

// Tier orders confidence from strongest to weakest.
type Tier int

const (
	Certain Tier = iota
	High
	Medium
	Low
	None
)

func (t Tier) String() string {
	switch t {
	case Certain:
		return "CERTAIN"
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	case Low:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// AtLeast reports whether t is at least as confident as other.
func (t Tier) AtLeast(other Tier) bool { return t <= other }

type family struct {
	intent Type
	verbs  *regexp.Regexp
}

// Families are evaluated in fixed priority order; the first matching family
// wins. Patterns are anchored on word boundaries so "extraction" does not
// match "extract the mission".
var families = []family{
	{Extract, regexp.MustCompile(`(?i)\b(extract|scrape|grab|pull|collect|harvest|get all|fetch all|list all)\b`)},
	{Navigate, regexp.MustCompile(`(?i)\b(go to|open|visit|navigate to|browse to|load)\b`)},
	{Search, regexp.MustCompile(`(?i)\b(search|look up|look for|find me|find)\b`)},
	{Calculate, regexp.MustCompile(`(?i)\b(calculate|compute|sum up|sum|average|total)\b`)},
	{GetDetails, regexp.MustCompile(`(?i)\b(tell me about|describe|show me|details of|details about|give me details)\b`)},
}

// The bare-domain branch requires an alphabetic final label so decimal
// numbers like "3.5" are never mistaken for a host.
var urlToken = regexp.MustCompile(`(?i)(https?://[^\s"']+|\b[a-z0-9][a-z0-9-]*(\.[a-z0-9][a-z0-9-]*)*\.[a-z]{2,}\b(/[^\s"']*)?)`)

// Classify maps free text to an intent and a confidence tier. Pure function:
// same text always yields the same result.
//
// Tier rules: a family verb anchoring the start of the message plus an
// inline URL token is CERTAIN; a verb at the start alone is HIGH; a verb
// anywhere else is MEDIUM; no verb match at all is UNKNOWN intent at LOW.
func Classify(text string) (Type, Tier) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Unknown, None
	}
	lower := strings.ToLower(trimmed)

	for _, f := range families {
		loc := f.verbs.FindStringIndex(lower)
		if loc == nil {
			continue
		}
		atStart := loc[0] == 0
		switch {
		case atStart && urlToken.MatchString(lower):
			return f.intent, Certain
		case atStart:
			return f.intent, High
		default:
			return f.intent, Medium
		}
	}

	return Unknown, Low
}

// MatchedFamilies returns every intent whose verb family matches the text,
// in priority order. Used to detect multi-intent messages.
func MatchedFamilies(text string) []Type {
	lower := strings.ToLower(text)
	var out []Type
	for _, f := range families {
		if f.verbs.MatchString(lower) {
			out = append(out, f.intent)
		}
	}
	return out
}

// FirstVerb returns the matched verb phrase for the given intent, with its
// end offset into text, or -1 when the family does not match. The readiness
// engine slices the action object out of the text after this offset.
func FirstVerb(text string, it Type) (string, int) {
	lower := strings.ToLower(text)
	for _, f := range families {
		if f.intent != it {
			continue
		}
		loc := f.verbs.FindStringIndex(lower)
		if loc == nil {
			return "", -1
		}
		return lower[loc[0]:loc[1]], loc[1]
	}
	return "", -1
}

// URLPattern exposes the URL/domain token matcher shared with the readiness
// engine and the clarification binder.
func URLPattern() *regexp.Regexp { return urlToken }
