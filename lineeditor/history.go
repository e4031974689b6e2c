// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lineeditor

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	maybeio "github.com/google/renameio/v2/maybe"
)

// HistoryPath returns $HOME/.vimsh/history, or "" if $HOME is unset.
func HistoryPath() string {
	home := os.Getenv("HOME")
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".vimsh", "history")
}

// LoadHistory reads path's lines into a slice of committed lines, oldest
// first, skipping blank lines. A missing file yields an empty history.
func LoadHistory(path string) []string {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// SaveHistory atomically overwrites path with lines, oldest first, one per
// line. It is called on shell exit, so a crash mid-session never corrupts
// the previous history file: maybeio.WriteFile writes to a temp file in the
// same directory and renames it into place.
func SaveHistory(path string, lines []string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return maybeio.WriteFile(path, []byte(sb.String()), 0o644)
}
