package actions

import (
	"context"
	"fmt"
	"strings"

	"aide/internal/actions/calc"
	"aide/internal/actions/html"
	"aide/internal/actions/list"
	"aide/internal/actions/llm"
	"aide/internal/actions/system"
	"aide/internal/actions/web"
)

// Execute dispatches one "category.operation" action after validating its
// payload against the registry.
func Execute(ctx context.Context, name string, payload map[string]any) (map[string]any, error) {
	parts := strings.Split(name, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid action type format: '%s'", name)
	}
	if err := ValidatePayload(name, payload); err != nil {
		return nil, err
	}

	category, operation := parts[0], parts[1]
	switch category {
	case "web":
		return web.HandleWebAction(ctx, operation, payload)
	case "html":
		return html.HandleHtmlAction(ctx, operation, payload)
	case "list":
		return list.HandleListAction(ctx, operation, payload)
	case "calc":
		return calc.HandleCalcAction(ctx, operation, payload)
	case "llm":
		return llm.HandleLlmAction(ctx, operation, payload)
	case "system":
		return system.HandleSystemAction(ctx, operation, payload)
	default:
		return nil, fmt.Errorf("unknown action category: %s", category)
	}
}
