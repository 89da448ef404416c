package extract

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

func reindentJSON(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return "", fmt.Errorf("parse json: %w", err)
	}

	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("reserialize json: %w", err)
	}

	return string(pretty), nil
}

// listArchive returns the entry names only. Archive payloads are never
// expanded into context.
func listArchive(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer archive.Close()

	names := make([]string, 0, len(archive.File))
	for _, file := range archive.File {
		names = append(names, file.Name)
	}

	return strings.Join(names, "\n"), nil
}
