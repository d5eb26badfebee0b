package list

import (
	"context"
	"encoding/json"
	"fmt"

	"aide/internal/utils"
)

func handleHead(_ context.Context, payload map[string]any) (map[string]any, error) {
	listJSON, err := utils.GetStringPayload(payload, "list_json")
	if err != nil {
		return nil, err
	}
	n, err := utils.GetIntPayload(payload, "n")
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("n must be non-negative, got %d", n)
	}
	var arr []any
	if err := json.Unmarshal([]byte(listJSON), &arr); err != nil {
		return nil, fmt.Errorf("list_json must be array: %w", err)
	}
	if n < len(arr) {
		arr = arr[:n]
	}
	b, _ := json.Marshal(arr)
	return map[string]any{"list_json": string(b)}, nil
}

func handleUnique(_ context.Context, payload map[string]any) (map[string]any, error) {
	listJSON, err := utils.GetStringPayload(payload, "list_json")
	if err != nil {
		return nil, err
	}
	var arr []any
	if err := json.Unmarshal([]byte(listJSON), &arr); err != nil {
		return nil, fmt.Errorf("list_json must be array: %w", err)
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		s := fmt.Sprintf("%v", v)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	b, _ := json.Marshal(out)
	return map[string]any{"list_json": string(b)}, nil
}

func HandleListAction(ctx context.Context, operation string, payload map[string]any) (map[string]any, error) {
	switch operation {
	case "head":
		return handleHead(ctx, payload)
	case "unique":
		return handleUnique(ctx, payload)
	default:
		return nil, fmt.Errorf("unknown list operation: %s", operation)
	}
}
