package marketdata

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StaticUniverse is a fixed symbol list.
type StaticUniverse []string

func (u StaticUniverse) Symbols(context.Context) ([]string, error) {
	return dedupe(u), nil
}

// FileUniverse reads symbols from a JSON document {"symbols": [...]} or,
// for any other extension, one symbol per line with # comments.
type FileUniverse struct {
	Path string
}

func (u FileUniverse) Symbols(context.Context) ([]string, error) {
	data, err := os.ReadFile(u.Path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	if strings.EqualFold(filepath.Ext(u.Path), ".json") {
		var doc struct {
			Symbols []string `json:"symbols"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse universe %s: %w", u.Path, err)
		}
		return dedupe(doc.Symbols), nil
	}

	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out), sc.Err()
}

// dedupe keeps first occurrences in order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// LoadSectors reads a JSON object of symbol to sector and merges it over
// base. A missing path returns base unchanged.
func LoadSectors(path string, base map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sectors: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse sectors %s: %w", path, err)
	}
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}
