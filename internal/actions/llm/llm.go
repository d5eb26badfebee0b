package llm

import (
	"context"
	"fmt"
	"strings"

	"aide/internal/llm_client"
	"aide/internal/utils"
)

const maxInputChars = 20000
const fallbackSummaryChars = 400

// HandleLlmAction summarizes text. With no LLM backend configured it falls
// back to a deterministic head-of-text summary so missions still complete
// offline.
func HandleLlmAction(ctx context.Context, operation string, payload map[string]any) (map[string]any, error) {
	switch operation {
	case "summarize":
		return handleSummarize(ctx, payload)
	default:
		return nil, fmt.Errorf("unknown llm operation: %s", operation)
	}
}

func handleSummarize(ctx context.Context, payload map[string]any) (map[string]any, error) {
	text, err := utils.GetStringPayload(payload, "text")
	if err != nil {
		return nil, err
	}
	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}
	model, _ := payload["model"].(string)

	if !llm_client.Available() {
		return map[string]any{"summary": fallbackSummary(text)}, nil
	}

	prompt := "Summarize the following content in at most three sentences. Content:\n\n" + text
	out, err := llm_client.Generate(ctx, prompt, model)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	return map[string]any{"summary": strings.TrimSpace(out)}, nil
}

func fallbackSummary(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	if len(flat) > fallbackSummaryChars {
		flat = flat[:fallbackSummaryChars] + "..."
	}
	return flat
}
