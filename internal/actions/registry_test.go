package actions

import (
	"strings"
	"testing"
)

func TestGetDefinition(t *testing.T) {
	def, ok := GetDefinition("web.fetch")
	if !ok {
		t.Fatal("web.fetch must be defined")
	}
	if def.DefaultTimeoutMs != 30000 {
		t.Errorf("web.fetch timeout = %d", def.DefaultTimeoutMs)
	}
	if _, ok := GetDefinition("web.teleport"); ok {
		t.Error("undefined action resolved")
	}
}

func TestEveryDefinitionIsWellFormed(t *testing.T) {
	for _, def := range definitions {
		if def.Name == "" || !strings.Contains(def.Name, ".") {
			t.Errorf("definition %q must be category.operation", def.Name)
		}
		if def.Description == "" {
			t.Errorf("definition %q has no description", def.Name)
		}
	}
}

func TestValidatePayload(t *testing.T) {
	testCases := []struct {
		name    string
		action  string
		payload map[string]any
		wantErr string
	}{
		{"valid", "web.fetch", map[string]any{"url": "https://a.com"}, ""},
		{"missing key", "web.fetch", map[string]any{}, "missing required payload key"},
		{"missing one of two", "html.select", map[string]any{"html": "<p/>"}, "selector"},
		{"unknown action", "web.nope", map[string]any{}, "not defined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePayload(tc.action, tc.payload)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}
