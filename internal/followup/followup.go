// Package followup answers questions about past execution artifacts. Both
// resolvers are strictly read-only: they never create a mission, never call
// execution, never mutate session state. Tests enforce that rule.
package followup

import (
	"fmt"
	"regexp"
	"strings"

	"aide/internal/mission"
	"aide/internal/session"
)

const maxItemsShown = 10

// Fixed pattern -> field mapping for the single-artifact resolver. Patterns
// are anchored to interrogative forms so imperative commands never match.
var (
	askItems  = regexp.MustCompile(`(?i)^(?:so\s+)?(?:what did you (?:find|get|extract|collect)|what was (?:found|extracted)|show (?:me )?(?:the )?(?:items|results|list)|what are the results)\b`)
	askCount  = regexp.MustCompile(`(?i)^(?:so\s+)?how many\b`)
	askSource = regexp.MustCompile(`(?i)^(?:so\s+)?(?:where (?:did|was|is) (?:that|this|it)|what (?:site|source|url|page) (?:did|was)|where (?:does|did) (?:that|this|it) come from)\b`)
)

// FollowUpResolver answers from the most recent artifact.
type FollowUpResolver struct{}

// Matches reports whether text is a single-artifact follow-up question.
func (FollowUpResolver) Matches(text string) bool {
	t := strings.TrimSpace(text)
	return askItems.MatchString(t) || askCount.MatchString(t) || askSource.MatchString(t)
}

// Resolve answers the question. handled is false when text is not a
// follow-up question at all; an empty-result answer is still handled.
func (r FollowUpResolver) Resolve(text string, sess *session.Context) (answer string, handled bool) {
	if !r.Matches(text) {
		return "", false
	}
	art := sess.LastArtifact()
	if art == nil {
		if sess.MissionCount == 0 {
			return "", false
		}
		return "Nothing to report yet - the last mission produced no results.", true
	}

	t := strings.TrimSpace(text)
	switch {
	case askCount.MatchString(t):
		return fmt.Sprintf("The last mission (%s) produced %d item(s) from %s.", art.MissionID, art.ItemCount, art.SourceURL), true
	case askSource.MatchString(t):
		return fmt.Sprintf("That came from %s (mission %s).", art.SourceURL, art.MissionID), true
	default:
		return formatItems(art), true
	}
}

func formatItems(art *mission.Artifact) string {
	if art.ItemCount == 0 && art.Summary == "" {
		return fmt.Sprintf("Mission %s finished but found nothing at %s.", art.MissionID, art.SourceURL)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "From %s (mission %s), %d item(s):\n", art.SourceURL, art.MissionID, art.ItemCount)
	for i, item := range art.Items {
		if i == maxItemsShown {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(art.Items)-maxItemsShown)
			break
		}
		fmt.Fprintf(&sb, "  - %s\n", item)
	}
	if art.Summary != "" {
		fmt.Fprintf(&sb, "Summary: %s", art.Summary)
	}
	return strings.TrimRight(sb.String(), "\n")
}
