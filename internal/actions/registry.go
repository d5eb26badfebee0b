package actions

import (
	"fmt"
)

// ActionDefinition describes one executable action: its required payload
// keys, output keys and timeout. Definitions live in code; the executor
// compiles deterministic plans against them.
type ActionDefinition struct {
	Name             string
	Description      string
	RequiredKeys     []string
	OutputKeys       []string
	DefaultTimeoutMs int
}

var definitions = []ActionDefinition{
	{
		Name:             "web.fetch",
		Description:      "Fetches a URL and returns its body.",
		RequiredKeys:     []string{"url"},
		OutputKeys:       []string{"status_code", "content"},
		DefaultTimeoutMs: 30000,
	},
	{
		Name:         "html.titles",
		Description:  "Extracts the page title and headings from HTML.",
		RequiredKeys: []string{"html"},
		OutputKeys:   []string{"items_json"},
	},
	{
		Name:         "html.links",
		Description:  "Extracts anchor text and resolved hrefs from HTML.",
		RequiredKeys: []string{"html"},
		OutputKeys:   []string{"items_json"},
	},
	{
		Name:         "html.text",
		Description:  "Extracts visible text lines from HTML.",
		RequiredKeys: []string{"html"},
		OutputKeys:   []string{"items_json"},
	},
	{
		Name:         "html.select",
		Description:  "Extracts text of nodes matching a CSS selector.",
		RequiredKeys: []string{"html", "selector"},
		OutputKeys:   []string{"items_json"},
	},
	{
		Name:         "list.head",
		Description:  "Keeps the first n entries of a JSON array.",
		RequiredKeys: []string{"list_json", "n"},
		OutputKeys:   []string{"list_json"},
	},
	{
		Name:         "list.unique",
		Description:  "Removes duplicate entries from a JSON array.",
		RequiredKeys: []string{"list_json"},
		OutputKeys:   []string{"list_json"},
	},
	{
		Name:         "calc.eval",
		Description:  "Evaluates an arithmetic expression or aggregates numbers.",
		RequiredKeys: []string{"expression"},
		OutputKeys:   []string{"result"},
	},
	{
		Name:             "llm.summarize",
		Description:      "Summarizes text via the configured LLM backend.",
		RequiredKeys:     []string{"text"},
		OutputKeys:       []string{"summary"},
		DefaultTimeoutMs: 60000,
	},
	{
		Name:         "system.write_file_atomic",
		Description:  "Writes content to a file via rename.",
		RequiredKeys: []string{"path", "content"},
	},
}

var definitionsMap = func() map[string]ActionDefinition {
	m := make(map[string]ActionDefinition, len(definitions))
	for _, d := range definitions {
		m[d.Name] = d
	}
	return m
}()

// GetDefinition returns the definition for a specific action.
func GetDefinition(name string) (ActionDefinition, bool) {
	d, ok := definitionsMap[name]
	return d, ok
}

// ValidatePayload checks that a payload carries every required key.
func ValidatePayload(name string, payload map[string]any) error {
	def, ok := definitionsMap[name]
	if !ok {
		return fmt.Errorf("action '%s' is not defined in the registry", name)
	}
	for _, key := range def.RequiredKeys {
		if _, present := payload[key]; !present {
			return fmt.Errorf("action '%s' is missing required payload key: '%s'", name, key)
		}
	}
	return nil
}
