package mission

import (
	"time"

	"aide/internal/intent"
)

// Artifact is the stored result of one executed mission. It back-references
// the mission by id only; nothing embeds the mission itself.
type Artifact struct {
	MissionID string      `json:"mission_id"`
	Intent    intent.Type `json:"intent"`
	SourceURL string      `json:"source_url"`
	ItemCount int         `json:"item_count"`
	Items     []string    `json:"items,omitempty"`
	Summary   string      `json:"summary,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
