package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"aide/internal/utils"
)

const maxBodyBytes = 4 << 20 // 4 MiB cap on fetched pages

var client = &http.Client{Timeout: 30 * time.Second}

// SetTimeout adjusts the fetch client timeout from configuration. Call it
// before any mission executes.
func SetTimeout(d time.Duration) {
	if d > 0 {
		client.Timeout = d
	}
}

func handleFetch(ctx context.Context, payload map[string]any) (map[string]any, error) {
	rawURL, err := utils.GetStringPayload(payload, "url")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("bad url %q: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", "aide/1.0 (+https://localhost)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	return map[string]any{
		"status_code": resp.StatusCode,
		"content":     string(body),
	}, nil
}

func HandleWebAction(ctx context.Context, operation string, payload map[string]any) (map[string]any, error) {
	switch operation {
	case "fetch":
		return handleFetch(ctx, payload)
	default:
		return nil, fmt.Errorf("unknown web operation: %s", operation)
	}
}
