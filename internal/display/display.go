package display

import (
	"fmt"
	"strings"

	"aide/internal/mission"
)

const maxItemsShown = 10

// FormatMissionPrompt restates a proposed mission for approval.
func FormatMissionPrompt(m *mission.Mission) string {
	var sb strings.Builder
	f := m.Fields
	sb.WriteString(fmt.Sprintf("Proposed mission %s:\n", m.ID))
	sb.WriteString(fmt.Sprintf("  - intent: %s\n", f.Intent))
	if f.ActionObject != "" {
		sb.WriteString(fmt.Sprintf("  - object: %s\n", f.ActionObject))
	}
	if f.SourceURL != "" {
		sb.WriteString(fmt.Sprintf("  - source: %s\n", f.SourceURL))
	}
	if f.Constraints.TopN > 0 {
		sb.WriteString(fmt.Sprintf("  - limit: top %d\n", f.Constraints.TopN))
	}
	if f.Constraints.SummaryOnly {
		sb.WriteString("  - output: summary only\n")
	}
	sb.WriteString("Run it? [yes/no]")
	return sb.String()
}

// FormatArtifact renders an execution result for the terminal.
func FormatArtifact(art *mission.Artifact) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Mission %s completed: %d item(s)", art.MissionID, art.ItemCount))
	if art.SourceURL != "" {
		sb.WriteString(" from " + art.SourceURL)
	}
	sb.WriteString(".")
	for i, item := range art.Items {
		if i == maxItemsShown {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more", len(art.Items)-maxItemsShown))
			break
		}
		sb.WriteString("\n  - " + item)
	}
	if art.Summary != "" {
		sb.WriteString("\nSummary: " + art.Summary)
	}
	return sb.String()
}
