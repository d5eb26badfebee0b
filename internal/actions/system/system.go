package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"aide/internal/utils"
)

// WriteFileAtomic writes via a temp file plus rename so readers never see a
// partial artifact snapshot.
func WriteFileAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".aide-*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("could not write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not rename temp file: %w", err)
	}
	return nil
}

func HandleSystemAction(_ context.Context, operation string, payload map[string]any) (map[string]any, error) {
	switch operation {
	case "write_file_atomic":
		path, err := utils.GetStringPayload(payload, "path")
		if err != nil {
			return nil, err
		}
		content, err := utils.GetStringPayload(payload, "content")
		if err != nil {
			return nil, err
		}
		return nil, WriteFileAtomic(path, content)
	default:
		return nil, fmt.Errorf("unknown system operation: %s", operation)
	}
}
