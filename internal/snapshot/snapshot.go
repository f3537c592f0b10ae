// Package snapshot maintains the latest-record state file and a daily
// changelog of signal flips.
package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// State is the slice of a record the changelog cares about, plus the verbatim
// line it came from so state.json preserves the full schema.
type State struct {
	Date    string            `json:"date"`
	Signals map[string]string `json:"signals"`
	Version string            `json:"version"`
	raw     []byte
}

// Latest scans an NDJSON output file and returns its final record.
func Latest(path string) (*State, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer file.Close()

	var last []byte
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			last = []byte(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	if last == nil {
		return nil, errors.New("no records found")
	}
	return parse(last)
}

// LoadPrevious reads the prior state.json, returning nil when none exists.
func LoadPrevious(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read previous state: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	st.raw = data
	return &st, nil
}

// Diff summarizes signal changes between two states as a single line, e.g.
// "tech: UP -> DOWN; rates: NEW (NA)".
func Diff(prev, curr *State) string {
	if prev == nil {
		return "Previous snapshot unavailable."
	}
	names := make([]string, 0, len(curr.Signals))
	for name := range curr.Signals {
		names = append(names, name)
	}
	sort.Strings(names)

	var changes []string
	for _, name := range names {
		before, ok := prev.Signals[name]
		after := curr.Signals[name]
		switch {
		case !ok:
			changes = append(changes, fmt.Sprintf("%s: NEW (%s)", name, after))
		case before != after:
			changes = append(changes, fmt.Sprintf("%s: %s -> %s", name, before, after))
		}
	}
	if len(changes) == 0 {
		return "No signal changes."
	}
	return strings.Join(changes, "; ")
}

// Write persists state.json (the verbatim latest record) and CHANGELOG.md
// into dir.
func Write(dir string, curr, prev *State) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	statePath := filepath.Join(dir, "state.json")
	if err := os.WriteFile(statePath, append(bytesTrim(curr.raw), '\n'), 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}

	lines := []string{
		"# Market State Engine Daily Changelog",
		fmt.Sprintf("**Date:** %s", curr.Date),
		fmt.Sprintf("**Version:** %s", curr.Version),
		"",
		"## Signal Changes",
		Diff(prev, curr),
		"",
		"---",
		fmt.Sprintf("*Generated at %s*", time.Now().UTC().Format(time.RFC3339)),
		"",
	}
	changelogPath := filepath.Join(dir, "CHANGELOG.md")
	if err := os.WriteFile(changelogPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("write changelog: %w", err)
	}
	return nil
}

func bytesTrim(b []byte) []byte {
	return []byte(strings.TrimSpace(string(b)))
}
