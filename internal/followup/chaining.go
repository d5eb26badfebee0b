package followup

import (
	"fmt"
	"regexp"
	"strings"

	"aide/internal/mission"
	"aide/internal/session"
)

var (
	askSummarizeAll = regexp.MustCompile(`(?i)^(?:can you )?(?:summari[sz]e|sum up|recap) (?:all|everything|all (?:the )?missions|what (?:you did|you've done|you have done|we did))\b`)
	askCompare      = regexp.MustCompile(`(?i)^(?:can you )?compare (?:the )?last two\b|^compare them\b`)
	askWhatChanged  = regexp.MustCompile(`(?i)^what(?:'s| has| is)? changed\b|^what changed\b|^what(?:'s| is) (?:new|different)\b`)
)

// ChainingResolver answers questions spanning multiple artifacts. Read-only,
// like FollowUpResolver.
type ChainingResolver struct{}

func (ChainingResolver) Matches(text string) bool {
	t := strings.TrimSpace(text)
	return askSummarizeAll.MatchString(t) || askCompare.MatchString(t) || askWhatChanged.MatchString(t)
}

func (r ChainingResolver) Resolve(text string, sess *session.Context) (answer string, handled bool) {
	if !r.Matches(text) {
		return "", false
	}
	arts := sess.Artifacts
	if len(arts) == 0 {
		if sess.MissionCount == 0 {
			return "", false
		}
		return "Nothing to report yet - no mission has produced results.", true
	}

	t := strings.TrimSpace(text)
	switch {
	case askCompare.MatchString(t):
		if len(arts) < 2 {
			return "I only have results from one mission so far, nothing to compare.", true
		}
		return compare(arts[len(arts)-2], arts[len(arts)-1]), true
	case askWhatChanged.MatchString(t):
		if len(arts) < 2 {
			return "I only have one result set so far, so nothing has changed yet.", true
		}
		return diff(arts[len(arts)-2], arts[len(arts)-1]), true
	default:
		return summarizeAll(arts), true
	}
}

func summarizeAll(arts []*mission.Artifact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d mission(s) with results:\n", len(arts))
	for _, a := range arts {
		line := fmt.Sprintf("  - %s: %d item(s) from %s", a.MissionID, a.ItemCount, a.SourceURL)
		if a.Summary != "" {
			line += " (" + firstSentence(a.Summary) + ")"
		}
		sb.WriteString(line + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func compare(prev, last *mission.Artifact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Comparing mission %s with mission %s:\n", prev.MissionID, last.MissionID)
	if prev.SourceURL == last.SourceURL {
		fmt.Fprintf(&sb, "  - same source: %s\n", last.SourceURL)
	} else {
		fmt.Fprintf(&sb, "  - sources differ: %s vs %s\n", prev.SourceURL, last.SourceURL)
	}
	if prev.Intent == last.Intent {
		fmt.Fprintf(&sb, "  - same intent: %s\n", last.Intent)
	} else {
		fmt.Fprintf(&sb, "  - intents differ: %s vs %s\n", prev.Intent, last.Intent)
	}
	fmt.Fprintf(&sb, "  - item counts: %d vs %d", prev.ItemCount, last.ItemCount)
	return sb.String()
}

func diff(prev, last *mission.Artifact) string {
	prevSet := make(map[string]struct{}, len(prev.Items))
	for _, it := range prev.Items {
		prevSet[it] = struct{}{}
	}
	lastSet := make(map[string]struct{}, len(last.Items))
	for _, it := range last.Items {
		lastSet[it] = struct{}{}
	}
	var added, removed []string
	for _, it := range last.Items {
		if _, ok := prevSet[it]; !ok {
			added = append(added, it)
		}
	}
	for _, it := range prev.Items {
		if _, ok := lastSet[it]; !ok {
			removed = append(removed, it)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Between mission %s and mission %s: count %d -> %d (%+d).",
		prev.MissionID, last.MissionID, prev.ItemCount, last.ItemCount, last.ItemCount-prev.ItemCount)
	if len(added) > 0 {
		fmt.Fprintf(&sb, " New: %s.", strings.Join(capped(added, 5), ", "))
	}
	if len(removed) > 0 {
		fmt.Fprintf(&sb, " Gone: %s.", strings.Join(capped(removed, 5), ", "))
	}
	if len(added) == 0 && len(removed) == 0 {
		sb.WriteString(" The items themselves are identical.")
	}
	return sb.String()
}

func capped(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	out := append([]string{}, items[:n]...)
	return append(out, fmt.Sprintf("and %d more", len(items)-n))
}

func firstSentence(s string) string {
	if i := strings.IndexAny(s, ".\n"); i > 0 {
		return s[:i]
	}
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
